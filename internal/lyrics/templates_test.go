package lyrics

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Pop", "pop"},
		{"  ROCK  ", "rock"},
		{"hiphop", "hip-hop"},
		{"hip hop", "hip-hop"},
		{"rap", "hip-hop"},
		{"EDM", "electronic"},
		{"rnb", "r&b"},
		{"heavy metal", "metal"},
		{"alt", "indie"},
		{"polka", "polka"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTemplateFor(t *testing.T) {
	t.Run("specialized genre", func(t *testing.T) {
		tmpl, ok := TemplateFor("pop")
		if !ok {
			t.Fatal("expected a specialized pop template")
		}
		if tmpl.Structure == "" || len(tmpl.Characteristics) == 0 || tmpl.StyleNotes == "" {
			t.Errorf("incomplete template: %+v", tmpl)
		}
	})

	t.Run("alias resolves to specialized template", func(t *testing.T) {
		direct, _ := TemplateFor("hip-hop")
		viaAlias, ok := TemplateFor("rap")
		if !ok {
			t.Fatal("alias should resolve to a specialized template")
		}
		if viaAlias.Structure != direct.Structure {
			t.Error("alias returned a different template")
		}
	})

	t.Run("unknown genre falls back", func(t *testing.T) {
		tmpl, ok := TemplateFor("sea shanty")
		if ok {
			t.Error("unexpected specialized template")
		}
		if !strings.Contains(tmpl.StyleNotes, "sea shanty") {
			t.Errorf("fallback style notes should name the genre: %q", tmpl.StyleNotes)
		}
		if tmpl.Structure == "" {
			t.Error("fallback template missing structure")
		}
	})
}

func TestGenres(t *testing.T) {
	genres := Genres()
	if len(genres) == 0 {
		t.Fatal("no genre templates loaded")
	}

	for i := 1; i < len(genres); i++ {
		if genres[i] < genres[i-1] {
			t.Fatalf("genres not sorted: %q before %q", genres[i-1], genres[i])
		}
	}

	seen := make(map[string]bool, len(genres))
	for _, g := range genres {
		seen[g] = true
	}
	for _, want := range []string{"pop", "rock", "hip-hop", "electronic"} {
		if !seen[want] {
			t.Errorf("expected genre template %q", want)
		}
	}
}

func TestDescribe(t *testing.T) {
	t.Run("known genre", func(t *testing.T) {
		desc := Describe("rock")
		if !strings.Contains(desc, "ROCK") {
			t.Errorf("description should contain the upper-cased genre: %q", desc)
		}
		if !strings.Contains(desc, "Structure:") {
			t.Errorf("description should include structure: %q", desc)
		}
	})

	t.Run("unknown genre", func(t *testing.T) {
		if got := Describe("sea shanty"); got != "" {
			t.Errorf("Describe = %q, want empty", got)
		}
	})
}
