package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"
	"tracksmartin/internal/models"
	"tracksmartin/internal/shared"
	"tracksmartin/internal/tags"
)

func testRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	ix, err := tags.Default()
	if err != nil {
		t.Fatalf("tags.Default() error = %v", err)
	}

	var buf bytes.Buffer
	r := NewRunner(RunnerOpts{
		Index:  ix,
		Logger: shared.NewLogger(io.Discard),
		Output: &buf,
	})
	return r, &buf
}

func TestNewRunner(t *testing.T) {
	t.Run("defaults filled in", func(t *testing.T) {
		r := NewRunner(RunnerOpts{})
		if r.config == nil {
			t.Error("config not defaulted")
		}
		if r.logger == nil {
			t.Error("logger not defaulted")
		}
		if r.output == nil {
			t.Error("output not defaulted")
		}
		if r.engine == nil {
			t.Error("engine not constructed")
		}
		if r.resolver != nil {
			t.Error("resolver should require an index")
		}
	})

	t.Run("resolver built from index", func(t *testing.T) {
		r, _ := testRunner(t)
		if r.resolver == nil {
			t.Error("expected a resolver")
		}
	})
}

func TestRunner_Register(t *testing.T) {
	r, _ := testRunner(t)

	commands := r.register()
	if len(commands) != 11 {
		t.Fatalf("commands = %d, want 11", len(commands))
	}

	seen := make(map[string]bool, len(commands))
	for _, c := range commands {
		if c.Name == "" {
			t.Error("command with empty name")
		}
		if seen[c.Name] {
			t.Errorf("duplicate command %q", c.Name)
		}
		seen[c.Name] = true
	}
	for _, want := range []string{"create", "get", "edit", "persona", "clip", "credits", "tags", "genres", "lyrics", "browse", "setup"} {
		if !seen[want] {
			t.Errorf("missing command %q", want)
		}
	}
}

func TestRunner_WriteJSON(t *testing.T) {
	r, buf := testRunner(t)

	if err := r.writeJSON(map[string]string{"k": "v"}, false); err != nil {
		t.Fatalf("writeJSON() error = %v", err)
	}
	if got := buf.String(); got != "{\"k\":\"v\"}\n" {
		t.Errorf("output = %q", got)
	}

	buf.Reset()
	if err := r.writeJSON(map[string]string{"k": "v"}, true); err != nil {
		t.Fatalf("writeJSON() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"k\"") {
		t.Errorf("pretty output = %q", buf.String())
	}
}

func TestRunner_WritePlain(t *testing.T) {
	r, buf := testRunner(t)

	r.writePlain("a %d", 1)
	r.writePlainln("b")
	if got := buf.String(); got != "a 1\nb\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRunner_ValidateTags(t *testing.T) {
	r, _ := testRunner(t)

	t.Run("input always passes through", func(t *testing.T) {
		if got := r.validateTags("rock, gitar"); got != "rock, gitar" {
			t.Errorf("got %q", got)
		}
		if got := r.validateTags(""); got != "" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("nil resolver is a no-op", func(t *testing.T) {
		bare := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: io.Discard})
		if got := bare.validateTags("anything at all"); got != "anything at all" {
			t.Errorf("got %q", got)
		}
	})
}

func TestRunner_ExportTask(t *testing.T) {
	r, _ := testRunner(t)
	task := &models.Task{ID: "t1", Kind: models.KindCreate}

	for _, format := range []string{"yaml", "json", "xml"} {
		t.Run(format, func(t *testing.T) {
			err := r.exportTask(task, format, "base")
			if !errors.Is(err, shared.ErrInvalidFlag) {
				t.Errorf("error = %v, want ErrInvalidFlag", err)
			}
		})
	}
}

func TestTagCommands_WithoutCorpus(t *testing.T) {
	bare := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: io.Discard})
	app := &cli.Command{Name: "tracksmartin", Commands: bare.register()}

	cases := [][]string{
		{"tracksmartin", "tags", "validate", "rock"},
		{"tracksmartin", "tags", "suggest", "rock"},
		{"tracksmartin", "tags", "compatible", "rock"},
		{"tracksmartin", "genres", "rock"},
	}
	for _, args := range cases {
		t.Run(strings.Join(args[1:], " "), func(t *testing.T) {
			err := app.Run(context.Background(), args)
			if !errors.Is(err, shared.ErrMissingConfig) {
				t.Errorf("error = %v, want ErrMissingConfig", err)
			}
		})
	}
}

func TestClipLabel(t *testing.T) {
	if got := clipLabel(models.Clip{ID: "c1", Title: "Song"}); got != "Song (c1)" {
		t.Errorf("got %q", got)
	}
	if got := clipLabel(models.Clip{ID: "c1"}); got != "c1" {
		t.Errorf("got %q", got)
	}
}

func TestFirstImageURL(t *testing.T) {
	task := &models.Task{Clips: []models.Clip{
		{ID: "a"},
		{ID: "b", ImageURL: "https://cdn.example.com/b.jpg"},
		{ID: "c", ImageURL: "https://cdn.example.com/c.jpg"},
	}}
	if got := firstImageURL(task); got != "https://cdn.example.com/b.jpg" {
		t.Errorf("got %q", got)
	}
	if got := firstImageURL(&models.Task{}); got != "" {
		t.Errorf("got %q", got)
	}
}
