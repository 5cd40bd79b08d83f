package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tracksmartin/internal/models"
	"tracksmartin/internal/services"
	"tracksmartin/internal/shared"
)

// scripted step for mockJobService.Fetch: either a task snapshot or an error.
type fetchStep struct {
	task *models.Task
	err  error
}

type mockJobService struct {
	submitTask *models.Task
	submitErr  error
	steps      []fetchStep
	fetchCalls int
}

func (m *mockJobService) Submit(ctx context.Context, params services.JobParams) (*models.Task, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.submitTask, nil
}

func (m *mockJobService) Fetch(ctx context.Context, taskID string) (*models.Task, error) {
	i := m.fetchCalls
	m.fetchCalls++
	if i >= len(m.steps) {
		// Repeat the last step when polled past the script
		i = len(m.steps) - 1
	}
	step := m.steps[i]
	if step.err != nil {
		return nil, step.err
	}
	// Copy so the engine's merge never mutates the script
	snapshot := *step.task
	snapshot.Clips = append([]models.Clip(nil), step.task.Clips...)
	return &snapshot, nil
}

func fastOpts() PollOpts {
	return PollOpts{MaxAttempts: 5, Interval: time.Millisecond}
}

func pendingTask(id string) *models.Task {
	return &models.Task{ID: id, Kind: models.KindCreate, Status: models.StatusSubmitted}
}

func TestGenerationEngine_Poll(t *testing.T) {
	t.Run("completes after processing", func(t *testing.T) {
		svc := &mockJobService{
			steps: []fetchStep{
				{task: &models.Task{ID: "task1", Status: models.StatusProcessing, Clips: []models.Clip{
					{ID: "clip1", Title: "Song"},
				}}},
				{task: &models.Task{ID: "task1", Status: models.StatusComplete, Clips: []models.Clip{
					{ID: "clip1", AudioURL: "https://cdn.example.com/clip1.mp3"},
				}}},
			},
		}
		engine := NewGenerationEngine(svc)

		task, err := engine.Poll(context.Background(), nil, pendingTask("task1"), fastOpts())
		if err != nil {
			t.Fatalf("Poll() error = %v", err)
		}
		if task.Status != models.StatusComplete {
			t.Errorf("status = %v, want complete", task.Status)
		}
		if svc.fetchCalls != 2 {
			t.Errorf("fetch calls = %d, want 2", svc.fetchCalls)
		}
	})

	t.Run("merges partial snapshots monotonically", func(t *testing.T) {
		svc := &mockJobService{
			steps: []fetchStep{
				{task: &models.Task{ID: "task1", Status: models.StatusProcessing, Clips: []models.Clip{
					{ID: "clip1", Title: "Song", Tags: "pop, upbeat", AudioURL: "https://cdn.example.com/clip1.mp3"},
				}}},
				// Later snapshot omits fields the first one carried
				{task: &models.Task{ID: "task1", Status: models.StatusComplete, Clips: []models.Clip{
					{ID: "clip1", Duration: 180},
				}}},
			},
		}
		engine := NewGenerationEngine(svc)

		task, err := engine.Poll(context.Background(), nil, pendingTask("task1"), fastOpts())
		if err != nil {
			t.Fatalf("Poll() error = %v", err)
		}

		clip := task.Clip("clip1")
		if clip == nil {
			t.Fatal("clip1 missing from merged task")
		}
		if clip.AudioURL != "https://cdn.example.com/clip1.mp3" {
			t.Errorf("AudioURL = %q, want earlier value retained", clip.AudioURL)
		}
		if clip.Title != "Song" || clip.Tags != "pop, upbeat" {
			t.Errorf("earlier fields lost: title=%q tags=%q", clip.Title, clip.Tags)
		}
		if clip.Duration != 180 {
			t.Errorf("Duration = %v, want 180", clip.Duration)
		}
	})

	t.Run("complete status without audio URLs keeps polling", func(t *testing.T) {
		svc := &mockJobService{
			steps: []fetchStep{
				// Remote flags completion before the clip URL lands
				{task: &models.Task{ID: "task1", Status: models.StatusComplete, Clips: []models.Clip{
					{ID: "clip1", Title: "Song"},
				}}},
				{task: &models.Task{ID: "task1", Status: models.StatusComplete, Clips: []models.Clip{
					{ID: "clip1", AudioURL: "https://cdn.example.com/clip1.mp3"},
				}}},
			},
		}
		engine := NewGenerationEngine(svc)

		task, err := engine.Poll(context.Background(), nil, pendingTask("task1"), fastOpts())
		if err != nil {
			t.Fatalf("Poll() error = %v", err)
		}
		if !task.Ready() {
			t.Error("expected a fully usable task")
		}
		if svc.fetchCalls != 2 {
			t.Errorf("fetch calls = %d, want 2", svc.fetchCalls)
		}
	})

	t.Run("terminal task returns without fetching", func(t *testing.T) {
		svc := &mockJobService{}
		engine := NewGenerationEngine(svc)

		task := &models.Task{ID: "task1", Status: models.StatusComplete}
		got, err := engine.Poll(context.Background(), nil, task, fastOpts())
		if err != nil {
			t.Fatalf("Poll() error = %v", err)
		}
		if got != task {
			t.Error("expected the same task back")
		}
		if svc.fetchCalls != 0 {
			t.Errorf("fetch calls = %d, want 0", svc.fetchCalls)
		}
	})

	t.Run("three consecutive transient errors fail the task", func(t *testing.T) {
		transient := fmt.Errorf("%w: connection reset", shared.ErrTransient)
		svc := &mockJobService{
			steps: []fetchStep{{err: transient}, {err: transient}, {err: transient}},
		}
		engine := NewGenerationEngine(svc)

		task, err := engine.Poll(context.Background(), nil, pendingTask("task1"), fastOpts())
		if err == nil {
			t.Fatal("Poll() expected error")
		}
		if task.Status != models.StatusFailed {
			t.Errorf("status = %v, want failed", task.Status)
		}
		if svc.fetchCalls != 3 {
			t.Errorf("fetch calls = %d, want 3", svc.fetchCalls)
		}
	})

	t.Run("successful fetch resets the transient streak", func(t *testing.T) {
		transient := fmt.Errorf("%w: timeout", shared.ErrTransient)
		svc := &mockJobService{
			steps: []fetchStep{
				{err: transient},
				{err: transient},
				{task: &models.Task{ID: "task1", Status: models.StatusProcessing}},
				{err: transient},
				{task: &models.Task{ID: "task1", Status: models.StatusComplete, Clips: []models.Clip{
					{ID: "clip1", AudioURL: "https://cdn.example.com/clip1.mp3"},
				}}},
			},
		}
		engine := NewGenerationEngine(svc)

		task, err := engine.Poll(context.Background(), nil, pendingTask("task1"), PollOpts{MaxAttempts: 10, Interval: time.Millisecond})
		if err != nil {
			t.Fatalf("Poll() error = %v", err)
		}
		if task.Status != models.StatusComplete {
			t.Errorf("status = %v, want complete", task.Status)
		}
	})

	t.Run("permanent error fails immediately", func(t *testing.T) {
		svc := &mockJobService{
			steps: []fetchStep{{err: fmt.Errorf("%w: status 404", shared.ErrPermanent)}},
		}
		engine := NewGenerationEngine(svc)

		task, err := engine.Poll(context.Background(), nil, pendingTask("task1"), fastOpts())
		if err == nil {
			t.Fatal("Poll() expected error")
		}
		if task.Status != models.StatusFailed {
			t.Errorf("status = %v, want failed", task.Status)
		}
		if svc.fetchCalls != 1 {
			t.Errorf("fetch calls = %d, want 1", svc.fetchCalls)
		}
	})

	t.Run("malformed response tolerated once", func(t *testing.T) {
		svc := &mockJobService{
			steps: []fetchStep{
				{err: fmt.Errorf("%w: unexpected shape", shared.ErrMalformed)},
				{task: &models.Task{ID: "task1", Status: models.StatusComplete, Clips: []models.Clip{
					{ID: "clip1", AudioURL: "https://cdn.example.com/clip1.mp3"},
				}}},
			},
		}
		engine := NewGenerationEngine(svc)

		task, err := engine.Poll(context.Background(), nil, pendingTask("task1"), fastOpts())
		if err != nil {
			t.Fatalf("Poll() error = %v", err)
		}
		if task.Status != models.StatusComplete {
			t.Errorf("status = %v, want complete", task.Status)
		}
	})

	t.Run("two consecutive malformed responses fail the task", func(t *testing.T) {
		malformed := fmt.Errorf("%w: unexpected shape", shared.ErrMalformed)
		svc := &mockJobService{
			steps: []fetchStep{{err: malformed}, {err: malformed}},
		}
		engine := NewGenerationEngine(svc)

		task, err := engine.Poll(context.Background(), nil, pendingTask("task1"), fastOpts())
		if err == nil {
			t.Fatal("Poll() expected error")
		}
		if task.Status != models.StatusFailed {
			t.Errorf("status = %v, want failed", task.Status)
		}
		if svc.fetchCalls != 2 {
			t.Errorf("fetch calls = %d, want 2", svc.fetchCalls)
		}
	})

	t.Run("attempt exhaustion times out with snapshot", func(t *testing.T) {
		svc := &mockJobService{
			steps: []fetchStep{
				{task: &models.Task{ID: "task1", Status: models.StatusProcessing, Clips: []models.Clip{
					{ID: "clip1", Title: "Partial"},
				}}},
			},
		}
		engine := NewGenerationEngine(svc)

		task, err := engine.Poll(context.Background(), nil, pendingTask("task1"), PollOpts{MaxAttempts: 3, Interval: time.Millisecond})
		if err == nil {
			t.Fatal("Poll() expected timeout error")
		}

		var timeoutErr *TimeoutError
		if !errors.As(err, &timeoutErr) {
			t.Fatalf("error type = %T, want *TimeoutError", err)
		}
		if timeoutErr.Attempts != 3 {
			t.Errorf("attempts = %d, want 3", timeoutErr.Attempts)
		}
		if timeoutErr.Task.Clip("clip1") == nil {
			t.Error("timeout error lost the partial snapshot")
		}
		if task.Status != models.StatusTimedOut {
			t.Errorf("status = %v, want timed out", task.Status)
		}
		if svc.fetchCalls != 3 {
			t.Errorf("fetch calls = %d, want 3", svc.fetchCalls)
		}
	})

	t.Run("cancellation returns context error with snapshot", func(t *testing.T) {
		svc := &mockJobService{
			steps: []fetchStep{
				{task: &models.Task{ID: "task1", Status: models.StatusProcessing}},
			},
		}
		engine := NewGenerationEngine(svc)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(5 * time.Millisecond)
			cancel()
		}()

		task, err := engine.Poll(ctx, nil, pendingTask("task1"), PollOpts{MaxAttempts: 100, Interval: time.Hour})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
		if task == nil {
			t.Fatal("expected snapshot on cancellation")
		}
		if task.Terminal() {
			t.Errorf("status = %v, want non-terminal", task.Status)
		}
	})

	t.Run("remote failure status surfaces as error", func(t *testing.T) {
		svc := &mockJobService{
			steps: []fetchStep{
				{task: &models.Task{ID: "task1", Status: models.StatusFailed}},
			},
		}
		engine := NewGenerationEngine(svc)

		task, err := engine.Poll(context.Background(), nil, pendingTask("task1"), fastOpts())
		if err == nil {
			t.Fatal("Poll() expected error for failed task")
		}
		if task.Status != models.StatusFailed {
			t.Errorf("status = %v, want failed", task.Status)
		}
	})

	t.Run("progress updates never block", func(t *testing.T) {
		svc := &mockJobService{
			steps: []fetchStep{
				{task: &models.Task{ID: "task1", Status: models.StatusProcessing}},
				{task: &models.Task{ID: "task1", Status: models.StatusComplete, Clips: []models.Clip{
					{ID: "clip1", AudioURL: "https://cdn.example.com/clip1.mp3"},
				}}},
			},
		}
		engine := NewGenerationEngine(svc)

		// Unbuffered channel with no reader: sends must be dropped, not block
		progress := make(chan ProgressUpdate)
		_, err := engine.Poll(context.Background(), progress, pendingTask("task1"), fastOpts())
		if err != nil {
			t.Fatalf("Poll() error = %v", err)
		}
	})
}

func TestGenerationEngine_Generate(t *testing.T) {
	t.Run("submits then polls to completion", func(t *testing.T) {
		svc := &mockJobService{
			submitTask: pendingTask("task1"),
			steps: []fetchStep{
				{task: &models.Task{ID: "task1", Status: models.StatusComplete, Clips: []models.Clip{
					{ID: "clip1", AudioURL: "https://cdn.example.com/clip1.mp3"},
				}}},
			},
		}
		engine := NewGenerationEngine(svc)

		task, err := engine.Generate(context.Background(), nil, services.CreateParams{Title: "Test"}, fastOpts())
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if !task.Ready() {
			t.Error("expected a ready task")
		}
	})

	t.Run("submit failure is returned", func(t *testing.T) {
		svc := &mockJobService{
			submitErr: fmt.Errorf("%w: status 401", shared.ErrPermanent),
		}
		engine := NewGenerationEngine(svc)

		_, err := engine.Generate(context.Background(), nil, services.CreateParams{Title: "Test"}, fastOpts())
		if !errors.Is(err, shared.ErrPermanent) {
			t.Fatalf("error = %v, want permanent", err)
		}
	})
}
