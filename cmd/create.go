package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"tracksmartin/internal/lyrics"
	"tracksmartin/internal/services"
	"tracksmartin/internal/shared"
	"tracksmartin/internal/tasks"
)

// jobFlags are shared by every command that submits a generation job.
func jobFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-wait",
			Usage: "Submit the job and exit without polling for completion",
		},
		&cli.BoolFlag{
			Name:  "download",
			Usage: "Download finished clips after completion",
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "Directory for downloaded clips",
		},
		&cli.IntFlag{
			Name:  "max-attempts",
			Usage: "Maximum status polls before giving up",
		},
		&cli.IntFlag{
			Name:  "interval",
			Usage: "Seconds between status polls",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output the final task as JSON",
		},
	}
}

// Create submits a new song generation job.
//
// Exactly one lyric source applies: --prompt (custom lyrics inline),
// --prompt-file (custom lyrics from a file), --description (the service
// writes the song), or --auto-lyrics (lyrics generated locally from --theme
// before submission).
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	title := cmd.String("title")
	prompt := cmd.String("prompt")
	promptFile := cmd.String("prompt-file")
	description := cmd.String("description")
	tagsFlag := cmd.String("tags")
	autoLyrics := cmd.Bool("auto-lyrics")

	sources := 0
	for _, set := range []bool{prompt != "", promptFile != "", description != "", autoLyrics} {
		if set {
			sources++
		}
	}
	if sources == 0 {
		return fmt.Errorf("%w: one of --prompt, --prompt-file, --description or --auto-lyrics is required", shared.ErrMissingArgument)
	}
	if sources > 1 {
		return fmt.Errorf("%w: --prompt, --prompt-file, --description and --auto-lyrics are mutually exclusive", shared.ErrInvalidFlag)
	}

	if promptFile != "" {
		data, err := os.ReadFile(promptFile)
		if err != nil {
			return fmt.Errorf("failed to read lyrics file: %w", err)
		}
		prompt = strings.TrimSpace(string(data))
		if prompt == "" {
			return fmt.Errorf("%w: lyrics file %s is empty", shared.ErrInvalidFlag, promptFile)
		}
	}

	if autoLyrics {
		if r.lyrics == nil {
			return fmt.Errorf("%w: lyric generation requires OPENAI_KEY", shared.ErrMissingCredentials)
		}
		theme := cmd.String("theme")
		if theme == "" {
			return fmt.Errorf("%w: --auto-lyrics requires --theme", shared.ErrMissingArgument)
		}

		genre := cmd.String("genre")
		r.writePlain("🎤 Generating lyrics for theme: %s\n", theme)
		result, err := r.lyrics.Generate(ctx, lyrics.Request{
			Theme:  theme,
			Genre:  genre,
			Title:  title,
			Mood:   cmd.String("mood"),
			Length: cmd.String("length"),
		})
		if err != nil {
			return err
		}

		prompt = result.Lyrics
		if title == "" {
			title = result.Title
		}
		if tagsFlag == "" {
			tagsFlag = result.SuggestedTags
		}
		r.writePlain("✓ Lyrics ready: %s\n\n", title)
	}

	// A genre without explicit tags falls back to the genre's corpus defaults.
	if tagsFlag == "" && cmd.String("genre") != "" && r.resolver != nil {
		tagsFlag = r.resolver.DefaultTagsFor(cmd.String("genre"), 4)
		r.logger.Info("using default tags for genre", "genre", cmd.String("genre"), "tags", tagsFlag)
	}

	params := services.CreateParams{
		Title:        title,
		Prompt:       prompt,
		Description:  description,
		Tags:         r.validateTags(tagsFlag),
		NegativeTags: cmd.String("negative-tags"),
		ModelVersion: cmd.String("model"),
		Instrumental: cmd.Bool("instrumental"),
	}

	if cmd.IsSet("style-weight") {
		v := cmd.Float("style-weight")
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: --style-weight must be in [0, 1]", shared.ErrInvalidFlag)
		}
		params.StyleWeight = &v
	}
	if cmd.IsSet("weirdness") {
		v := cmd.Float("weirdness")
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: --weirdness must be in [0, 1]", shared.ErrInvalidFlag)
		}
		params.Weirdness = &v
	}

	r.logger.Info("creating song", "title", title, "tags", params.Tags)
	return r.runJob(ctx, cmd, params)
}

// Get fetches the current state of an existing task, optionally polling it
// to completion.
func (r *Runner) Get(ctx context.Context, cmd *cli.Command) error {
	taskID := cmd.StringArg("task-id")
	if taskID == "" {
		return fmt.Errorf("%w: task ID required", shared.ErrMissingArgument)
	}
	if r.suno == nil {
		return fmt.Errorf("%w: generation service not initialized (set SUNO_API_KEY)", shared.ErrMissingCredentials)
	}

	task, err := r.suno.Fetch(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to fetch task %s: %w", taskID, err)
	}
	task.ID = taskID

	if cmd.Bool("wait") && !task.Terminal() {
		return r.pollAndReport(ctx, cmd, task)
	}

	if cmd.Bool("download") && task.Ready() {
		progressCh := make(chan tasks.ProgressUpdate, 50)
		done := make(chan struct{})
		go func() {
			defer close(done)
			for update := range progressCh {
				r.writePlain("   %s\n", update.Message)
			}
		}()
		_, dlErr := r.downloadTask(ctx, cmd, progressCh, task)
		close(progressCh)
		<-done
		if dlErr != nil {
			return dlErr
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(task, true)
	}
	r.printTaskSummary(task)
	return nil
}

func createCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "title",
			Aliases: []string{"t"},
			Usage:   "Song title",
		},
		&cli.StringFlag{
			Name:    "prompt",
			Aliases: []string{"p"},
			Usage:   "Custom lyrics to sing",
		},
		&cli.StringFlag{
			Name:  "prompt-file",
			Usage: "Read custom lyrics from a file",
		},
		&cli.StringFlag{
			Name:    "description",
			Aliases: []string{"d"},
			Usage:   "Description of the song for the service to write",
		},
		&cli.StringFlag{
			Name:  "tags",
			Usage: "Comma-separated style tags",
		},
		&cli.StringFlag{
			Name:  "negative-tags",
			Usage: "Comma-separated styles to avoid",
		},
		&cli.FloatFlag{
			Name:  "style-weight",
			Usage: "Style adherence in [0, 1]",
		},
		&cli.FloatFlag{
			Name:  "weirdness",
			Usage: "Experimentation level in [0, 1]",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "Model version (e.g. chirp-v4)",
		},
		&cli.BoolFlag{
			Name:  "instrumental",
			Usage: "Generate without vocals",
		},
		&cli.BoolFlag{
			Name:  "auto-lyrics",
			Usage: "Generate lyrics locally before submitting",
		},
		&cli.StringFlag{
			Name:  "theme",
			Usage: "Lyric theme (with --auto-lyrics)",
		},
		&cli.StringFlag{
			Name:  "genre",
			Usage: "Lyric genre (with --auto-lyrics)",
		},
		&cli.StringFlag{
			Name:  "mood",
			Usage: "Lyric mood (with --auto-lyrics)",
		},
		&cli.StringFlag{
			Name:  "length",
			Usage: "Lyric length: short, medium or long (with --auto-lyrics)",
			Value: lyrics.LengthMedium,
		},
	}

	return &cli.Command{
		Name:    "create",
		Aliases: []string{"new"},
		Usage:   "Generate a new song",
		Flags:   append(flags, jobFlags()...),
		Action:  r.Create,
	}
}

func getCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "get",
		Usage: "Fetch the current state of a task",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "task-id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "wait",
				Usage: "Poll until the task reaches a terminal state",
			},
			&cli.BoolFlag{
				Name:  "download",
				Usage: "Download finished clips",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Directory for downloaded clips",
			},
			&cli.IntFlag{
				Name:  "max-attempts",
				Usage: "Maximum status polls before giving up",
			},
			&cli.IntFlag{
				Name:  "interval",
				Usage: "Seconds between status polls",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the task as JSON",
			},
		},
		Action: r.Get,
	}
}
