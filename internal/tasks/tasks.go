// package tasks implements long-running generation workflows against the music API.
//
// The core abstraction is GenerationEngine, which submits jobs, polls task status
// until a terminal state, and downloads finished clips.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tracksmartin/internal/models"
	"tracksmartin/internal/services"
	"tracksmartin/internal/shared"
)

const (
	// DefaultMaxAttempts bounds how many status fetches a poll performs.
	DefaultMaxAttempts = 20
	// DefaultInterval is the wait between consecutive status fetches.
	DefaultInterval = 10 * time.Second

	// maxTransientStreak is how many consecutive transient failures are
	// tolerated before the task is marked failed.
	maxTransientStreak = 3
)

// PollOpts contains configuration for polling a task to completion.
type PollOpts struct {
	MaxAttempts int           // Maximum status fetches (default: 20)
	Interval    time.Duration // Wait between fetches (default: 10s)
}

func (o PollOpts) withDefaults() PollOpts {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	return o
}

// TimeoutError reports a poll that exhausted its attempts without the task
// reaching a terminal state. Task holds the last merged snapshot.
type TimeoutError struct {
	Task     *models.Task
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("task %s not complete after %d attempts", e.Task.ID, e.Attempts)
}

// GenerationEngine orchestrates job submission and status polling.
type GenerationEngine struct {
	svc services.JobService
}

// NewGenerationEngine creates a GenerationEngine over the given job service.
func NewGenerationEngine(svc services.JobService) *GenerationEngine {
	return &GenerationEngine{svc: svc}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *GenerationEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Generate submits a job and polls it to a terminal state.
func (e *GenerationEngine) Generate(ctx context.Context, progress chan<- ProgressUpdate, params services.JobParams, opts PollOpts) (*models.Task, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: job service not initialized", shared.ErrMissingConfig)
	}

	e.sendProgress(progress, submitUpdate(params.Kind()))

	task, err := e.svc.Submit(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to submit %s job: %w", params.Kind(), err)
	}

	e.sendProgress(progress, submittedUpdate(task))
	return e.Poll(ctx, progress, task, opts)
}

// Poll fetches task status until it reaches a terminal state, the attempt
// budget runs out, or ctx is cancelled.
//
// Each successful fetch is merged into task, so partial clip data accumulates
// across attempts and is never discarded by a later sparse response. Transient
// errors are retried; three in a row fail the task. A malformed response is
// tolerated once, but two in a row are treated as permanent. Polling a task
// already in a terminal state returns immediately without any fetch.
func (e *GenerationEngine) Poll(ctx context.Context, progress chan<- ProgressUpdate, task *models.Task, opts PollOpts) (*models.Task, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: job service not initialized", shared.ErrMissingConfig)
	}
	if task == nil || task.ID == "" {
		return nil, fmt.Errorf("%w: task ID required", shared.ErrInvalidInput)
	}
	if task.Terminal() {
		return task, nil
	}

	opts = opts.withDefaults()

	transientStreak := 0
	malformedStreak := 0

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return task, err
		}

		update, err := e.svc.Fetch(ctx, task.ID)
		switch {
		case err == nil:
			transientStreak = 0
			malformedStreak = 0
			task.Merge(update)
			e.sendProgress(progress, pollUpdate(attempt, opts.MaxAttempts, task))

			if task.Status == models.StatusFailed {
				return task, fmt.Errorf("task %s failed during generation", task.ID)
			}
			// A complete status alone is not enough: a clip still missing its
			// audio URL means the remote raced its own bookkeeping, so keep
			// polling until the snapshot is fully usable.
			if task.Ready() {
				return task, nil
			}

		case errors.Is(err, shared.ErrMalformed):
			malformedStreak++
			transientStreak = 0
			e.sendProgress(progress, pollErrorUpdate(attempt, opts.MaxAttempts, err))
			if malformedStreak >= 2 {
				task.Status = models.StatusFailed
				return task, fmt.Errorf("task %s returned repeated malformed responses: %w", task.ID, err)
			}

		case errors.Is(err, shared.ErrTransient):
			transientStreak++
			malformedStreak = 0
			e.sendProgress(progress, pollErrorUpdate(attempt, opts.MaxAttempts, err))
			if transientStreak >= maxTransientStreak {
				task.Status = models.StatusFailed
				return task, fmt.Errorf("task %s failed after %d consecutive transient errors: %w", task.ID, transientStreak, err)
			}

		default:
			task.Status = models.StatusFailed
			return task, fmt.Errorf("failed to fetch task %s: %w", task.ID, err)
		}

		if attempt == opts.MaxAttempts {
			break
		}

		timer := time.NewTimer(opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return task, ctx.Err()
		case <-timer.C:
		}
	}

	task.Status = models.StatusTimedOut
	return task, &TimeoutError{Task: task, Attempts: opts.MaxAttempts}
}
