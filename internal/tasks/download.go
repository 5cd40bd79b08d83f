package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"tracksmartin/internal/formatter"
	"tracksmartin/internal/models"
	"tracksmartin/internal/shared"
)

// Downloader fetches a pre-signed URL to a local file.
type Downloader interface {
	Download(ctx context.Context, url, path string) error
}

// DownloadOpts contains configuration for clip downloads.
type DownloadOpts struct {
	OutputDir  string  // Base output directory (default: tracks_{epoch})
	NumWorkers int     // Concurrent workers (default: 4)
	RateLimit  float64 // Requests per second (default: 2)
}

// ClipDownloadResult records the outcome of a single clip download.
type ClipDownloadResult struct {
	ClipID  string `json:"clip_id"`
	Title   string `json:"title"`
	File    string `json:"file,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DownloadResult aggregates the outcome of downloading a task's clips.
type DownloadResult struct {
	TaskID          string               `json:"task_id"`
	OutputDirectory string               `json:"output_directory"`
	TotalClips      int                  `json:"total_clips"`
	Downloaded      int                  `json:"downloaded"`
	Failed          int                  `json:"failed"`
	Results         []ClipDownloadResult `json:"results"`
	ManifestPath    string               `json:"-"`
}

type clipDownloadJob struct {
	index int
	clip  models.Clip
}

// DownloadClips downloads every finished clip of a task concurrently with
// rate limiting and progress tracking, then writes a manifest file
// summarizing the results. Clips without an audio URL are skipped.
func (e *GenerationEngine) DownloadClips(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	dl Downloader,
	task *models.Task,
	opts DownloadOpts,
) (*DownloadResult, error) {
	if dl == nil {
		return nil, fmt.Errorf("%w: downloader not initialized", shared.ErrMissingConfig)
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task required", shared.ErrInvalidInput)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("tracks_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	ready := make([]models.Clip, 0, len(task.Clips))
	for _, clip := range task.Clips {
		if clip.AudioURL != "" {
			ready = append(ready, clip)
		}
	}

	result := &DownloadResult{
		TaskID:          task.ID,
		OutputDirectory: opts.OutputDir,
		TotalClips:      len(ready),
		Results:         make([]ClipDownloadResult, 0, len(ready)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan clipDownloadJob, len(ready))
	results := make(chan ClipDownloadResult, len(ready))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.downloadWorker(ctx, &wg, dl, limiter, jobs, results, opts, len(ready), prog)
	}

	for i, clip := range ready {
		jobs <- clipDownloadJob{index: i, clip: clip}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		result.Results = append(result.Results, res)
		if res.Success {
			result.Downloaded++
		} else {
			result.Failed++
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "download_manifest.json")
	if err := formatter.WriteDownloadManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("download completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))
	return result, nil
}

// downloadWorker is a worker goroutine that downloads clips from the jobs channel.
func (e *GenerationEngine) downloadWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	dl Downloader,
	limiter *rate.Limiter,
	jobs <-chan clipDownloadJob,
	results chan<- ClipDownloadResult,
	opts DownloadOpts,
	total int,
	prog chan<- ProgressUpdate,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- ClipDownloadResult{
				ClipID:  job.clip.ID,
				Title:   job.clip.Title,
				Success: false,
				Error:   ctx.Err().Error(),
			}
			continue
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			results <- ClipDownloadResult{
				ClipID:  job.clip.ID,
				Title:   job.clip.Title,
				Success: false,
				Error:   err.Error(),
			}
			continue
		}

		e.sendProgress(prog, downloadingUpdate(job.index+1, total, &job.clip))
		results <- e.downloadSingleClip(ctx, dl, job, opts, total, prog)
	}
}

// downloadSingleClip downloads one clip to a sanitized filename.
func (e *GenerationEngine) downloadSingleClip(
	ctx context.Context,
	dl Downloader,
	job clipDownloadJob,
	opts DownloadOpts,
	total int,
	prog chan<- ProgressUpdate,
) ClipDownloadResult {
	result := ClipDownloadResult{
		ClipID: job.clip.ID,
		Title:  job.clip.Title,
	}

	path := filepath.Join(opts.OutputDir, clipFilename(job.clip))
	if err := dl.Download(ctx, job.clip.AudioURL, path); err != nil {
		result.Error = err.Error()
		e.sendProgress(prog, downloadFailedUpdate(job.index+1, total, &job.clip, err))
		return result
	}

	result.File = path
	result.Success = true
	e.sendProgress(prog, downloadedUpdate(job.index+1, total, path))
	return result
}

func clipFilename(clip models.Clip) string {
	name := shared.SanitizeFilename(clip.Title)
	if name == "" {
		return fmt.Sprintf("%s.mp3", clip.ID)
	}
	return fmt.Sprintf("%s_%s.mp3", name, clip.ID)
}
