package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"tracksmartin/internal/services"
	"tracksmartin/internal/shared"
	"tracksmartin/internal/tasks"
)

// ClipWav fetches a pre-signed WAV URL for a finished clip, optionally
// downloading the file.
func (r *Runner) ClipWav(ctx context.Context, cmd *cli.Command) error {
	clipID := cmd.StringArg("clip-id")
	if clipID == "" {
		return fmt.Errorf("%w: clip ID required", shared.ErrMissingArgument)
	}
	if r.suno == nil {
		return fmt.Errorf("%w: generation service not initialized (set SUNO_API_KEY)", shared.ErrMissingCredentials)
	}

	url, err := r.suno.WavURL(ctx, clipID)
	if err != nil {
		return fmt.Errorf("failed to get WAV URL for clip %s: %w", clipID, err)
	}

	if output := cmd.String("output"); output != "" {
		r.writePlain("Downloading WAV to %s...\n", output)
		if err := r.suno.Download(ctx, url, output); err != nil {
			return fmt.Errorf("failed to download WAV: %w", err)
		}
		r.writePlainln("✓ Saved %s", output)
		return nil
	}

	r.writePlain("%s\n", url)
	return nil
}

// ClipMIDI transcribes a clip to MIDI.
func (r *Runner) ClipMIDI(ctx context.Context, cmd *cli.Command) error {
	clipID := cmd.StringArg("clip-id")
	if clipID == "" {
		return fmt.Errorf("%w: clip ID required", shared.ErrMissingArgument)
	}

	r.logger.Info("transcribing to MIDI", "clip", clipID)
	return r.runJob(ctx, cmd, services.MIDIParams{ClipID: clipID})
}

// ClipUpload registers externally hosted audio with the service.
func (r *Runner) ClipUpload(ctx context.Context, cmd *cli.Command) error {
	audioURL := cmd.String("url")
	if audioURL == "" {
		return fmt.Errorf("%w: --url is required", shared.ErrMissingArgument)
	}

	params := services.UploadParams{
		AudioURL: audioURL,
		Title:    cmd.String("title"),
	}

	r.logger.Info("uploading audio", "url", audioURL)
	return r.runJob(ctx, cmd, params)
}

// ClipDownload downloads all finished clips of a task.
func (r *Runner) ClipDownload(ctx context.Context, cmd *cli.Command) error {
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

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("   %s\n", update.Message)
		}
	}()

	result, err := r.downloadTask(ctx, cmd, progressCh, task)
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	r.writePlainHeader("Download Complete")
	r.writePlain("Downloaded: %d/%d clips\n", result.Downloaded, result.TotalClips)
	if result.Failed > 0 {
		r.writePlain("Failed: %d clips\n", result.Failed)
	}
	r.writePlain("Output: %s\n", result.OutputDirectory)

	if format := cmd.String("format"); format != "" {
		base := filepath.Join(result.OutputDirectory, task.ID)
		if err := r.exportTask(task, format, base); err != nil {
			return err
		}
	}
	return nil
}

// Credits reports the account's remaining generation credits.
func (r *Runner) Credits(ctx context.Context, cmd *cli.Command) error {
	if r.suno == nil {
		return fmt.Errorf("%w: generation service not initialized (set SUNO_API_KEY)", shared.ErrMissingCredentials)
	}

	info, err := r.suno.Credits(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch credits: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(info, true)
	}

	r.writePlain("Credits remaining: %.1f\n", info.Credits)
	if info.MonthlyLimit > 0 {
		r.writePlain("Monthly usage: %.1f / %.1f\n", info.MonthlyUsage, info.MonthlyLimit)
	}
	return nil
}

// clipCommand handles clip asset operations
func clipCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "clip",
		Usage: "Clip asset operations",
		Commands: []*cli.Command{
			{
				Name:  "wav",
				Usage: "Get a WAV rendition of a finished clip",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "clip-id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Download the WAV to this path instead of printing the URL",
					},
				},
				Action: r.ClipWav,
			},
			{
				Name:  "midi",
				Usage: "Transcribe a clip to MIDI",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "clip-id"},
				},
				Flags:  jobFlags(),
				Action: r.ClipMIDI,
			},
			{
				Name:  "upload",
				Usage: "Register externally hosted audio",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Usage: "URL of the audio to upload",
					},
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "Title for the uploaded clip",
					},
				}, jobFlags()...),
				Action: r.ClipUpload,
			},
			{
				Name:  "download",
				Usage: "Download all finished clips of a task",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "task-id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "Directory for downloaded clips",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Also export metadata: csv, markdown or txt",
					},
				},
				Action: r.ClipDownload,
			},
		},
	}
}

// creditsCommand reports account credits
func creditsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "credits",
		Usage: "Show remaining generation credits",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Credits,
	}
}
