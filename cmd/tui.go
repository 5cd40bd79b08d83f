package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"tracksmartin/internal/shared"
	"tracksmartin/internal/ui"
)

// Browse launches the interactive terminal UI for exploring the tag corpus.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	if r.index == nil {
		return fmt.Errorf("%w: tag corpus not loaded", shared.ErrMissingConfig)
	}

	// Silence stderr logging so it does not interfere with TUI rendering
	r.logger.SetOutput(io.Discard)

	model := ui.NewModel(r.index)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// browseCommand launches the tag corpus browser
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "browse",
		Usage:  "Interactively browse the style tag corpus",
		Action: r.Browse,
	}
}
