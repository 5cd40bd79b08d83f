package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"tracksmartin/internal/formatter"
	"tracksmartin/internal/lyrics"
	"tracksmartin/internal/models"
	"tracksmartin/internal/services"
	"tracksmartin/internal/shared"
	"tracksmartin/internal/tags"
	"tracksmartin/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	suno     *services.SunoService
	lyrics   *lyrics.Generator
	index    *tags.Index
	resolver *tags.Resolver
	engine   *tasks.GenerationEngine
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Suno   *services.SunoService
	Lyrics *lyrics.Generator
	Index  *tags.Index
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	var resolver *tags.Resolver
	if opts.Index != nil {
		resolver = tags.NewResolver(opts.Index)
	}

	return &Runner{
		config:   opts.Config,
		suno:     opts.Suno,
		lyrics:   opts.Lyrics,
		index:    opts.Index,
		resolver: resolver,
		engine:   tasks.NewGenerationEngine(opts.Suno),
		logger:   opts.Logger,
		output:   opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		createCommand, getCommand, editCommand, personaCommand, clipCommand, creditsCommand,
		tagsCommand, genresCommand, lyricsCommand, browseCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// pollOpts builds polling options from config, with per-command overrides.
func (r *Runner) pollOpts(cmd *cli.Command) tasks.PollOpts {
	opts := tasks.PollOpts{
		MaxAttempts: r.config.Poll.MaxAttempts,
		Interval:    time.Duration(r.config.Poll.IntervalSeconds) * time.Second,
	}
	if cmd.IsSet("max-attempts") {
		opts.MaxAttempts = int(cmd.Int("max-attempts"))
	}
	if cmd.IsSet("interval") {
		opts.Interval = time.Duration(cmd.Int("interval")) * time.Second
	}
	return opts
}

// runJob submits params, optionally polls to completion, and optionally
// downloads the finished clips. Shared by every generation command.
func (r *Runner) runJob(ctx context.Context, cmd *cli.Command, params services.JobParams) error {
	if r.suno == nil {
		return fmt.Errorf("%w: generation service not initialized (set SUNO_API_KEY)", shared.ErrMissingCredentials)
	}

	wait := !cmd.Bool("no-wait")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.SubmitJob:
				r.writePlain("📤 %s\n", update.Message)
			case tasks.PollStatus:
				r.writePlain("   %s\n", update.Message)
			case tasks.DownloadClip:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteManifest:
				r.writePlain("📄 %s\n", update.Message)
			}
		}
	}()

	var task *models.Task
	var err error
	if wait {
		task, err = r.engine.Generate(ctx, progressCh, params, r.pollOpts(cmd))
	} else {
		r.sendSubmitOnly(progressCh, params)
		task, err = r.suno.Submit(ctx, params)
	}
	if err != nil {
		close(progressCh)
		<-done
		if task != nil {
			r.printTaskSummary(task)
		}
		return err
	}

	if wait && cmd.Bool("download") {
		if _, dlErr := r.downloadTask(ctx, cmd, progressCh, task); dlErr != nil {
			close(progressCh)
			<-done
			return dlErr
		}
	}

	close(progressCh)
	<-done

	if cmd.Bool("json") {
		return r.writeJSON(task, true)
	}
	r.printTaskSummary(task)
	return nil
}

// pollAndReport polls an already-submitted task to completion, printing
// progress and honoring the same --download/--json toggles as runJob.
func (r *Runner) pollAndReport(ctx context.Context, cmd *cli.Command, task *models.Task) error {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("   %s\n", update.Message)
		}
	}()

	task, err := r.engine.Poll(ctx, progressCh, task, r.pollOpts(cmd))
	if err != nil {
		close(progressCh)
		<-done
		if task != nil {
			r.printTaskSummary(task)
		}
		return err
	}

	if cmd.Bool("download") {
		if _, dlErr := r.downloadTask(ctx, cmd, progressCh, task); dlErr != nil {
			close(progressCh)
			<-done
			return dlErr
		}
	}

	close(progressCh)
	<-done

	if cmd.Bool("json") {
		return r.writeJSON(task, true)
	}
	r.printTaskSummary(task)
	return nil
}

func (r *Runner) sendSubmitOnly(progressCh chan<- tasks.ProgressUpdate, params services.JobParams) {
	select {
	case progressCh <- tasks.ProgressUpdate{
		Phase:   tasks.SubmitJob,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Submitting %s job...", params.Kind()),
	}:
	default:
	}
}

func (r *Runner) downloadTask(ctx context.Context, cmd *cli.Command, progressCh chan<- tasks.ProgressUpdate, task *models.Task) (*tasks.DownloadResult, error) {
	opts := tasks.DownloadOpts{
		OutputDir:  r.config.Output.Dir,
		NumWorkers: r.config.Download.Workers,
		RateLimit:  r.config.Download.RateLimit,
	}
	if cmd.IsSet("output-dir") {
		opts.OutputDir = cmd.String("output-dir")
	}
	return r.engine.DownloadClips(ctx, progressCh, r.suno, task, opts)
}

// exportTask writes task metadata in the requested format next to the
// downloaded clips.
func (r *Runner) exportTask(task *models.Task, format, base string) error {
	switch format {
	case "csv":
		res, err := formatter.WriteCSVExport(task, base)
		if err != nil {
			return err
		}
		r.writePlain("Exported: %s, %s\n", res.ClipsFile, res.MetadataFile)
	case "markdown", "md":
		res, err := formatter.WriteMarkdownExport(task, base, firstImageURL(task))
		if err != nil {
			return err
		}
		for _, f := range res.Files {
			r.writePlain("Exported: %s\n", f)
		}
	case "txt", "text":
		path, err := formatter.WriteTextExport(task, base+"_clips.txt")
		if err != nil {
			return err
		}
		r.writePlain("Exported: %s\n", path)
	default:
		return fmt.Errorf("%w: unknown format %q (csv, markdown, txt)", shared.ErrInvalidFlag, format)
	}
	return nil
}

func firstImageURL(task *models.Task) string {
	for _, clip := range task.Clips {
		if clip.ImageURL != "" {
			return clip.ImageURL
		}
	}
	return ""
}

func (r *Runner) printTaskSummary(task *models.Task) {
	r.writePlainHeader("Task " + task.ID)
	r.writePlain("Kind: %s\n", task.Kind)
	r.writePlain("Status: %s\n", task.Status)
	r.writePlain("Clips: %d\n", len(task.Clips))

	for i, clip := range task.Clips {
		r.writePlain("\n%d. %s\n", i+1, clipLabel(clip))
		if clip.Tags != "" {
			r.writePlain("   Tags: %s\n", clip.Tags)
		}
		if clip.Duration > 0 {
			r.writePlain("   Duration: %s\n", shared.FormatDuration(clip.Duration))
		}
		if clip.AudioURL != "" {
			r.writePlain("   Audio: %s\n", clip.AudioURL)
		}
	}
}

func clipLabel(clip models.Clip) string {
	if clip.Title != "" {
		return fmt.Sprintf("%s (%s)", clip.Title, clip.ID)
	}
	return clip.ID
}

// validateTags runs the given tag string through the corpus resolver and
// warns about unknown tags with correction candidates. The job proceeds
// either way; unknown tags are advisory.
func (r *Runner) validateTags(raw string) string {
	if r.resolver == nil || raw == "" {
		return raw
	}

	result := r.resolver.Validate(raw, false)
	if result.HasUnknown() {
		for _, unknown := range result.Unknown {
			if len(unknown.Suggestions) > 0 {
				names := make([]string, len(unknown.Suggestions))
				for i, s := range unknown.Suggestions {
					names[i] = s.Entry.Name
				}
				r.logger.Warn("unknown tag", "tag", unknown.Token, "did you mean", names)
			} else {
				r.logger.Warn("unknown tag", "tag", unknown.Token)
			}
		}
	}
	return raw
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
