package services

import (
	"context"

	"tracksmartin/internal/models"
)

// JobService is the contract the polling engine consumes. Implementations
// must be stateless per call: the poller owns all retry and timing state, so
// nothing may be retained between Submit and Fetch.
type JobService interface {
	// Submit translates one job submission into a single outbound request and
	// normalizes the response into a Task. Submission failures propagate
	// immediately; a submit is never retried since a blind retry could create
	// duplicate jobs.
	Submit(ctx context.Context, params JobParams) (*models.Task, error)

	// Fetch retrieves the current status of a task. The returned Task is a
	// snapshot of this one response; callers fold it into their view with
	// [models.Task.Merge].
	Fetch(ctx context.Context, taskID string) (*models.Task, error)
}

// Completer is the narrow contract for the lyric generation LLM: a single
// chat-style completion treated as a pure function.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float32) (string, error)
}
