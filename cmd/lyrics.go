package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"tracksmartin/internal/formatter"
	"tracksmartin/internal/lyrics"
	"tracksmartin/internal/shared"
)

// LyricsGenerate writes genre-aware lyrics for a theme.
func (r *Runner) LyricsGenerate(ctx context.Context, cmd *cli.Command) error {
	if r.lyrics == nil {
		return fmt.Errorf("%w: lyric generation requires OPENAI_KEY", shared.ErrMissingCredentials)
	}

	theme := cmd.StringArg("theme")
	if theme == "" {
		return fmt.Errorf("%w: theme required", shared.ErrMissingArgument)
	}

	result, err := r.lyrics.Generate(ctx, lyrics.Request{
		Theme:        theme,
		Genre:        cmd.String("genre"),
		Title:        cmd.String("title"),
		Mood:         cmd.String("mood"),
		Length:       cmd.String("length"),
		Instructions: cmd.String("notes"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlainHeader(result.Title)
	r.writePlain("Genre: %s\n", result.Genre)
	r.writePlain("Suggested tags: %s\n\n", result.SuggestedTags)
	r.writePlain("%s\n", result.Lyrics)

	if output := cmd.String("output"); output != "" {
		if err := formatter.WriteLyricsFile(result.Title, result.Lyrics, output); err != nil {
			return err
		}
		r.writePlainln("✓ Saved %s", output)
	}
	return nil
}

// LyricsRefine revises lyrics from a file based on feedback.
func (r *Runner) LyricsRefine(ctx context.Context, cmd *cli.Command) error {
	if r.lyrics == nil {
		return fmt.Errorf("%w: lyric generation requires OPENAI_KEY", shared.ErrMissingCredentials)
	}

	path := cmd.String("file")
	feedback := cmd.String("feedback")
	if path == "" || feedback == "" {
		return fmt.Errorf("%w: --file and --feedback are required", shared.ErrMissingArgument)
	}

	original, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read lyrics file: %w", err)
	}

	refined, err := r.lyrics.Refine(ctx, string(original), feedback, cmd.String("genre"))
	if err != nil {
		return err
	}

	r.writePlain("%s\n", refined)

	output := cmd.String("output")
	if output == "" && cmd.Bool("in-place") {
		output = path
	}
	if output != "" {
		if err := formatter.WriteLyricsFile("", refined, output); err != nil {
			return err
		}
		r.writePlainln("✓ Saved %s", output)
	}
	return nil
}

// lyricsCommand handles lyric generation operations
func lyricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lyrics",
		Usage: "Generate and refine song lyrics",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Write lyrics for a theme",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "theme"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "genre",
						Aliases: []string{"g"},
						Usage:   "Genre template to follow",
						Value:   "pop",
					},
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "Song title",
					},
					&cli.StringFlag{
						Name:  "mood",
						Usage: "Mood or tone",
					},
					&cli.StringFlag{
						Name:  "length",
						Usage: "Song length: short, medium or long",
						Value: lyrics.LengthMedium,
					},
					&cli.StringFlag{
						Name:  "notes",
						Usage: "Additional instructions",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Save lyrics to this file",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LyricsGenerate,
			},
			{
				Name:  "refine",
				Usage: "Revise lyrics based on feedback",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Path to the lyrics to refine",
					},
					&cli.StringFlag{
						Name:  "feedback",
						Usage: "What to change",
					},
					&cli.StringFlag{
						Name:    "genre",
						Aliases: []string{"g"},
						Usage:   "Genre template to follow",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Save refined lyrics to this file",
					},
					&cli.BoolFlag{
						Name:  "in-place",
						Usage: "Overwrite the input file",
					},
				},
				Action: r.LyricsRefine,
			},
		},
	}
}
