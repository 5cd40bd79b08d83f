package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"tracksmartin/internal/services"
	"tracksmartin/internal/shared"
)

// PersonaCreate builds a vocal persona from sample clips.
func (r *Runner) PersonaCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	if name == "" {
		return fmt.Errorf("%w: --name is required", shared.ErrMissingArgument)
	}
	clipIDs := cmd.StringSlice("clip")
	if len(clipIDs) == 0 {
		return fmt.Errorf("%w: at least one --clip sample is required", shared.ErrMissingArgument)
	}

	params := services.PersonaCreateParams{
		Name:          name,
		Description:   cmd.String("description"),
		SampleClipIDs: clipIDs,
	}

	r.logger.Info("creating persona", "name", name, "samples", len(clipIDs))
	return r.runJob(ctx, cmd, params)
}

// PersonaUse generates a song with an existing persona's voice.
func (r *Runner) PersonaUse(ctx context.Context, cmd *cli.Command) error {
	personaID := cmd.String("persona")
	if personaID == "" {
		return fmt.Errorf("%w: --persona is required", shared.ErrMissingArgument)
	}
	prompt := cmd.String("prompt")
	if prompt == "" {
		return fmt.Errorf("%w: --prompt is required", shared.ErrMissingArgument)
	}

	params := services.PersonaUseParams{
		PersonaID:    personaID,
		Prompt:       prompt,
		Title:        cmd.String("title"),
		Tags:         r.validateTags(cmd.String("tags")),
		ModelVersion: cmd.String("model"),
	}

	r.logger.Info("generating with persona", "persona", personaID)
	return r.runJob(ctx, cmd, params)
}

// personaCommand handles vocal persona operations
func personaCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "persona",
		Usage: "Create and use vocal personas",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Build a persona from sample clips",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Persona name",
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Persona description",
					},
					&cli.StringSliceFlag{
						Name:    "clip",
						Aliases: []string{"c"},
						Usage:   "Sample clip IDs (repeatable)",
					},
				}, jobFlags()...),
				Action: r.PersonaCreate,
			},
			{
				Name:  "use",
				Usage: "Generate a song with a persona's voice",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "persona",
						Usage: "Persona ID",
					},
					&cli.StringFlag{
						Name:    "prompt",
						Aliases: []string{"p"},
						Usage:   "Lyrics to sing",
					},
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "Song title",
					},
					&cli.StringFlag{
						Name:  "tags",
						Usage: "Comma-separated style tags",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Model version",
					},
				}, jobFlags()...),
				Action: r.PersonaUse,
			},
		},
	}
}
