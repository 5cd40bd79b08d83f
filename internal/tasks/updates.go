package tasks

import (
	"fmt"

	"tracksmartin/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	SubmitJob Phase = iota
	PollStatus
	DownloadClip
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case SubmitJob:
		return "submit_job"
	case PollStatus:
		return "poll_status"
	case DownloadClip:
		return "download_clip"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func submitUpdate(kind models.TaskKind) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SubmitJob,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Submitting %s job...", kind),
	}
}

func submittedUpdate(task *models.Task) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SubmitJob,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Job accepted (task ID: %s)", task.ID),
		Data:    task,
	}
}

func pollUpdate(attempt, total int, task *models.Task) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PollStatus,
		Step:    attempt,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Status: %s (%d clips)", attempt, total, task.Status, len(task.Clips)),
		Data:    task,
	}
}

func pollErrorUpdate(attempt, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PollStatus,
		Step:    attempt,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Poll failed: %v", attempt, total, err),
	}
}

func downloadingUpdate(step, total int, clip *models.Clip) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadClip,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Downloading: %s", step, total, clip.Title),
	}
}

func downloadedUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadClip,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, path),
	}
}

func downloadFailedUpdate(step, total int, clip *models.Clip, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadClip,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, clip.Title, err),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written: %s", path),
	}
}
