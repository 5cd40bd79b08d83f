package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"tracksmartin/internal/services"
	"tracksmartin/internal/shared"
)

// Extend continues an existing clip from a point in time.
func (r *Runner) Extend(ctx context.Context, cmd *cli.Command) error {
	clipID := cmd.String("clip")
	if clipID == "" {
		return fmt.Errorf("%w: --clip is required", shared.ErrMissingArgument)
	}

	params := services.ExtendParams{
		ClipID:     clipID,
		Prompt:     cmd.String("prompt"),
		ContinueAt: int(cmd.Int("at")),
		Tags:       r.validateTags(cmd.String("tags")),
		Title:      cmd.String("title"),
	}

	r.logger.Info("extending clip", "clip", clipID, "at", params.ContinueAt)
	return r.runJob(ctx, cmd, params)
}

// Concat joins multiple clips into one song.
func (r *Runner) Concat(ctx context.Context, cmd *cli.Command) error {
	clipIDs := cmd.StringSlice("clip")
	if len(clipIDs) < 2 {
		return fmt.Errorf("%w: at least two --clip values are required", shared.ErrMissingArgument)
	}

	r.logger.Info("concatenating clips", "count", len(clipIDs))
	return r.runJob(ctx, cmd, services.ConcatParams{ClipIDs: clipIDs})
}

// Cover re-renders an existing clip with new lyrics or style.
func (r *Runner) Cover(ctx context.Context, cmd *cli.Command) error {
	clipID := cmd.String("clip")
	if clipID == "" {
		return fmt.Errorf("%w: --clip is required", shared.ErrMissingArgument)
	}

	params := services.CoverParams{
		ClipID: clipID,
		Prompt: cmd.String("prompt"),
		Tags:   r.validateTags(cmd.String("tags")),
	}

	r.logger.Info("covering clip", "clip", clipID)
	return r.runJob(ctx, cmd, params)
}

// Remaster re-renders a clip with a newer model version.
func (r *Runner) Remaster(ctx context.Context, cmd *cli.Command) error {
	clipID := cmd.String("clip")
	if clipID == "" {
		return fmt.Errorf("%w: --clip is required", shared.ErrMissingArgument)
	}

	params := services.RemasterParams{
		ClipID:       clipID,
		ModelVersion: cmd.String("model"),
	}

	r.logger.Info("remastering clip", "clip", clipID, "model", params.ModelVersion)
	return r.runJob(ctx, cmd, params)
}

// Stems separates a clip into stems.
func (r *Runner) Stems(ctx context.Context, cmd *cli.Command) error {
	clipID := cmd.String("clip")
	if clipID == "" {
		return fmt.Errorf("%w: --clip is required", shared.ErrMissingArgument)
	}

	params := services.StemsParams{
		ClipID: clipID,
		Full:   cmd.Bool("full"),
	}

	r.logger.Info("extracting stems", "clip", clipID, "full", params.Full)
	return r.runJob(ctx, cmd, params)
}

// AddVocal layers generated vocals on an instrumental clip.
func (r *Runner) AddVocal(ctx context.Context, cmd *cli.Command) error {
	clipID := cmd.String("clip")
	if clipID == "" {
		return fmt.Errorf("%w: --clip is required", shared.ErrMissingArgument)
	}

	params := services.AddVocalParams{
		ClipID: clipID,
		Prompt: cmd.String("prompt"),
		Tags:   r.validateTags(cmd.String("tags")),
	}

	r.logger.Info("adding vocals", "clip", clipID)
	return r.runJob(ctx, cmd, params)
}

func clipFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "clip",
		Aliases: []string{"c"},
		Usage:   "Clip ID to operate on",
	}
}

// editCommand handles transformations of existing clips
func editCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: "Transform existing clips",
		Commands: []*cli.Command{
			{
				Name:  "extend",
				Usage: "Continue a clip from a point in time",
				Flags: append([]cli.Flag{
					clipFlag(),
					&cli.StringFlag{
						Name:    "prompt",
						Aliases: []string{"p"},
						Usage:   "Lyrics for the extension",
					},
					&cli.IntFlag{
						Name:  "at",
						Usage: "Second offset to continue from",
					},
					&cli.StringFlag{
						Name:  "tags",
						Usage: "Comma-separated style tags",
					},
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "Title for the extended song",
					},
				}, jobFlags()...),
				Action: r.Extend,
			},
			{
				Name:  "concat",
				Usage: "Join multiple clips into one song",
				Flags: append([]cli.Flag{
					&cli.StringSliceFlag{
						Name:    "clip",
						Aliases: []string{"c"},
						Usage:   "Clip IDs in playback order (repeatable)",
					},
				}, jobFlags()...),
				Action: r.Concat,
			},
			{
				Name:  "cover",
				Usage: "Re-render a clip with new lyrics or style",
				Flags: append([]cli.Flag{
					clipFlag(),
					&cli.StringFlag{
						Name:    "prompt",
						Aliases: []string{"p"},
						Usage:   "New lyrics",
					},
					&cli.StringFlag{
						Name:  "tags",
						Usage: "Comma-separated style tags",
					},
				}, jobFlags()...),
				Action: r.Cover,
			},
			{
				Name:  "remaster",
				Usage: "Re-render a clip with a newer model",
				Flags: append([]cli.Flag{
					clipFlag(),
					&cli.StringFlag{
						Name:  "model",
						Usage: "Model version to remaster with",
					},
				}, jobFlags()...),
				Action: r.Remaster,
			},
			{
				Name:  "stems",
				Usage: "Separate a clip into stems",
				Flags: append([]cli.Flag{
					clipFlag(),
					&cli.BoolFlag{
						Name:  "full",
						Usage: "Full separation (vocals, bass, drums, other)",
					},
				}, jobFlags()...),
				Action: r.Stems,
			},
			{
				Name:  "add-vocal",
				Usage: "Layer vocals on an instrumental clip",
				Flags: append([]cli.Flag{
					clipFlag(),
					&cli.StringFlag{
						Name:    "prompt",
						Aliases: []string{"p"},
						Usage:   "Lyrics to sing",
					},
					&cli.StringFlag{
						Name:  "tags",
						Usage: "Comma-separated style tags",
					},
				}, jobFlags()...),
				Action: r.AddVocal,
			},
		},
	}
}
