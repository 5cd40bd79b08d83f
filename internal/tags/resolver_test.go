package tags

import (
	"errors"
	"reflect"
	"testing"

	"tracksmartin/internal/shared"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(testIndex(t))
}

func TestResolver_Validate(t *testing.T) {
	r := testResolver(t)

	t.Run("misspelled tag gets correction candidates", func(t *testing.T) {
		result := r.Validate("rock, gitar", false)

		if !reflect.DeepEqual(result.Valid, []string{"rock"}) {
			t.Errorf("Valid = %v, want [rock]", result.Valid)
		}
		if len(result.Unknown) != 1 {
			t.Fatalf("Unknown = %+v, want one entry", result.Unknown)
		}
		unknown := result.Unknown[0]
		if unknown.Token != "gitar" {
			t.Errorf("Token = %q", unknown.Token)
		}
		if len(unknown.Suggestions) == 0 || len(unknown.Suggestions) > 3 {
			t.Fatalf("Suggestions = %d, want 1..3", len(unknown.Suggestions))
		}
		found := false
		for _, s := range unknown.Suggestions {
			if s.Entry.Name == "guitar" {
				found = true
			}
		}
		if !found {
			t.Errorf("'guitar' not suggested for 'gitar': %+v", unknown.Suggestions)
		}
	})

	t.Run("empty input yields empty result", func(t *testing.T) {
		result := r.Validate("", false)
		if len(result.Valid) != 0 || len(result.Unknown) != 0 || len(result.Enhanced) != 0 {
			t.Errorf("result = %+v, want empty", result)
		}
	})

	t.Run("normalizes and deduplicates input", func(t *testing.T) {
		result := r.Validate("  Rock , POP,rock, , pop ", false)
		if !reflect.DeepEqual(result.Valid, []string{"rock", "pop"}) {
			t.Errorf("Valid = %v, want [rock pop]", result.Valid)
		}
	})

	t.Run("input order preserved", func(t *testing.T) {
		result := r.Validate("jazz, guitar, rock", false)
		if !reflect.DeepEqual(result.Valid, []string{"jazz", "guitar", "rock"}) {
			t.Errorf("Valid = %v", result.Valid)
		}
	})

	t.Run("no enhancement unless requested", func(t *testing.T) {
		if result := r.Validate("rock", false); result.Enhanced != nil {
			t.Errorf("Enhanced = %v, want nil", result.Enhanced)
		}
	})

	t.Run("enhancement proposes new compatible tags", func(t *testing.T) {
		result := r.Validate("rock, pop", true)
		if len(result.Enhanced) == 0 || len(result.Enhanced) > 5 {
			t.Fatalf("Enhanced = %v, want 1..5 entries", result.Enhanced)
		}
		for _, name := range result.Enhanced {
			if name == "rock" || name == "pop" {
				t.Errorf("enhancement re-proposes input tag %q", name)
			}
			if _, ok := r.index.Lookup(name); !ok {
				t.Errorf("enhancement proposes unknown tag %q", name)
			}
		}
	})

	t.Run("no valid tags means no enhancement", func(t *testing.T) {
		result := r.Validate("zzzzz-not-a-tag", true)
		if result.Enhanced != nil {
			t.Errorf("Enhanced = %v, want nil", result.Enhanced)
		}
	})
}

func TestResolver_SearchGenre(t *testing.T) {
	r := testResolver(t)

	t.Run("exact genre", func(t *testing.T) {
		results, err := r.SearchGenre("rock", 5)
		if err != nil {
			t.Fatalf("SearchGenre() error = %v", err)
		}
		if len(results) == 0 || len(results) > 5 {
			t.Errorf("results = %d, want 1..5", len(results))
		}
	})

	t.Run("fuzzy fallback", func(t *testing.T) {
		results, err := r.SearchGenre("jaz", 5)
		if err != nil {
			t.Fatalf("SearchGenre() error = %v", err)
		}
		if len(results) == 0 {
			t.Error("expected compatible tags via fuzzy genre match")
		}
	})

	t.Run("unknown genre", func(t *testing.T) {
		_, err := r.SearchGenre("qqqqxxxxzzzz", 5)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})
}

func TestResolver_DefaultTagsFor(t *testing.T) {
	r := testResolver(t)

	t.Run("genre plus compatible tags", func(t *testing.T) {
		tags := splitTags(r.DefaultTagsFor("Rock", 3))
		if len(tags) < 2 {
			t.Fatalf("tags = %v, want genre plus at least one compatible", tags)
		}
		if tags[0] != "rock" {
			t.Errorf("first tag = %q, want rock", tags[0])
		}
	})

	t.Run("unknown genre falls back to itself", func(t *testing.T) {
		if got := r.DefaultTagsFor("  Qqqqxxxxzzzz ", 3); got != "qqqqxxxxzzzz" {
			t.Errorf("got %q", got)
		}
	})
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain", "rock, pop", []string{"rock", "pop"}},
		{"mixed case and spacing", " Rock ,  POP ", []string{"rock", "pop"}},
		{"duplicates collapse", "rock,rock,Rock", []string{"rock"}},
		{"empty segments dropped", ",rock,,pop,", []string{"rock", "pop"}},
		{"empty input", "", nil},
		{"only separators", " , ,, ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitTags(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitTags(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
