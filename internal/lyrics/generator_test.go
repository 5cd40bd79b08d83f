package lyrics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tracksmartin/internal/shared"
)

type mockCompleter struct {
	response string
	err      error

	system      string
	user        string
	temperature float32
	calls       int
}

func (m *mockCompleter) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	m.calls++
	m.system = system
	m.user = user
	m.temperature = temperature
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func TestGenerator_Generate(t *testing.T) {
	t.Run("parses title and tags from the response", func(t *testing.T) {
		llm := &mockCompleter{response: `TITLE: Neon Nights
TAGS: synth-pop, upbeat, 120 bpm

[Verse 1]
City lights are calling

[Chorus]
We run all night`}

		g := NewGenerator(llm)
		result, err := g.Generate(context.Background(), Request{Theme: "city nightlife", Genre: "pop"})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		if result.Title != "Neon Nights" {
			t.Errorf("Title = %q", result.Title)
		}
		if result.SuggestedTags != "synth-pop, upbeat, 120 bpm" {
			t.Errorf("SuggestedTags = %q", result.SuggestedTags)
		}
		if result.Genre != "pop" {
			t.Errorf("Genre = %q", result.Genre)
		}
		if strings.Contains(result.Lyrics, "TITLE:") || strings.Contains(result.Lyrics, "TAGS:") {
			t.Errorf("header lines leaked into lyrics: %q", result.Lyrics)
		}
		if !strings.HasPrefix(result.Lyrics, "[Verse 1]") {
			t.Errorf("Lyrics = %q", result.Lyrics)
		}
	})

	t.Run("prompt carries theme and genre", func(t *testing.T) {
		llm := &mockCompleter{response: "[Verse 1]\nla la la"}
		g := NewGenerator(llm)

		_, err := g.Generate(context.Background(), Request{
			Theme:        "lost love",
			Genre:        "country",
			Mood:         "melancholy",
			Instructions: "mention a pickup truck",
		})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		if !strings.Contains(llm.user, "lost love") {
			t.Error("user prompt missing theme")
		}
		if !strings.Contains(llm.user, "melancholy") {
			t.Error("user prompt missing mood")
		}
		if !strings.Contains(llm.user, "pickup truck") {
			t.Error("user prompt missing instructions")
		}
		if !strings.Contains(llm.system, "country") {
			t.Error("system prompt missing genre")
		}
	})

	t.Run("missing headers fall back to defaults", func(t *testing.T) {
		llm := &mockCompleter{response: "[Verse 1]\nsome lyrics"}
		g := NewGenerator(llm)

		result, err := g.Generate(context.Background(), Request{Theme: "anything", Genre: "hip hop"})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if result.Title != "Untitled Hip Hop Song" {
			t.Errorf("Title = %q", result.Title)
		}
		if result.SuggestedTags != "hip-hop, original" {
			t.Errorf("SuggestedTags = %q", result.SuggestedTags)
		}
	})

	t.Run("explicit title wins over fallback", func(t *testing.T) {
		llm := &mockCompleter{response: "[Verse 1]\nsome lyrics"}
		g := NewGenerator(llm)

		result, err := g.Generate(context.Background(), Request{Theme: "anything", Title: "My Song"})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if result.Title != "My Song" {
			t.Errorf("Title = %q", result.Title)
		}
		if result.Genre != "pop" {
			t.Errorf("Genre = %q, want the pop default", result.Genre)
		}
	})

	t.Run("completion failure surfaces with class intact", func(t *testing.T) {
		llm := &mockCompleter{err: shared.ErrTransient}
		g := NewGenerator(llm)

		_, err := g.Generate(context.Background(), Request{Theme: "anything"})
		if !errors.Is(err, shared.ErrTransient) {
			t.Errorf("error = %v, want ErrTransient", err)
		}
	})
}

func TestGenerator_Refine(t *testing.T) {
	t.Run("sends original and feedback", func(t *testing.T) {
		llm := &mockCompleter{response: "\n[Verse 1]\nrefined lyrics\n"}
		g := NewGenerator(llm)

		got, err := g.Refine(context.Background(), "[Verse 1]\nold lyrics", "make it sadder", "blues")
		if err != nil {
			t.Fatalf("Refine() error = %v", err)
		}
		if got != "[Verse 1]\nrefined lyrics" {
			t.Errorf("refined = %q", got)
		}
		if !strings.Contains(llm.user, "old lyrics") {
			t.Error("user prompt missing original lyrics")
		}
		if !strings.Contains(llm.user, "make it sadder") {
			t.Error("user prompt missing feedback")
		}
		if !strings.Contains(llm.system, "blues") {
			t.Error("system prompt missing genre")
		}
	})

	t.Run("failure surfaces", func(t *testing.T) {
		llm := &mockCompleter{err: shared.ErrPermanent}
		g := NewGenerator(llm)

		if _, err := g.Refine(context.Background(), "lyrics", "feedback", ""); !errors.Is(err, shared.ErrPermanent) {
			t.Errorf("error = %v, want ErrPermanent", err)
		}
	})
}

func TestParseResponse(t *testing.T) {
	t.Run("headers anywhere in the text", func(t *testing.T) {
		result := parseResponse("some preamble\nTITLE: Late\nTAGS: slow\nbody")
		if result.Title != "Late" || result.SuggestedTags != "slow" {
			t.Errorf("result = %+v", result)
		}
		if result.Lyrics != "some preamble\nbody" {
			t.Errorf("Lyrics = %q", result.Lyrics)
		}
	})

	t.Run("empty response", func(t *testing.T) {
		result := parseResponse("")
		if result.Title != "" || result.Lyrics != "" {
			t.Errorf("result = %+v", result)
		}
	})
}
