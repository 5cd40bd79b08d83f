package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"tracksmartin/internal/models"
)

type mockDownloader struct {
	mu     sync.Mutex
	urls   []string
	failOn string // URL that should fail
}

func (m *mockDownloader) Download(ctx context.Context, url, path string) error {
	m.mu.Lock()
	m.urls = append(m.urls, url)
	m.mu.Unlock()

	if url == m.failOn {
		return fmt.Errorf("download failed")
	}
	return os.WriteFile(path, []byte("audio"), 0644)
}

func TestGenerationEngine_DownloadClips(t *testing.T) {
	task := &models.Task{
		ID:     "task1",
		Kind:   models.KindCreate,
		Status: models.StatusComplete,
		Clips: []models.Clip{
			{ID: "clip1", Title: "First Song", AudioURL: "https://cdn.example.com/clip1.mp3"},
			{ID: "clip2", Title: "Second Song", AudioURL: "https://cdn.example.com/clip2.mp3"},
			{ID: "clip3", Title: "Still Rendering"}, // no audio yet
		},
	}

	t.Run("downloads ready clips and writes manifest", func(t *testing.T) {
		dir := t.TempDir()
		dl := &mockDownloader{}
		engine := NewGenerationEngine(nil)

		result, err := engine.DownloadClips(context.Background(), nil, dl, task, DownloadOpts{
			OutputDir: dir,
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("DownloadClips() error = %v", err)
		}

		if result.TotalClips != 2 {
			t.Errorf("total = %d, want 2 (clip without audio skipped)", result.TotalClips)
		}
		if result.Downloaded != 2 || result.Failed != 0 {
			t.Errorf("downloaded/failed = %d/%d, want 2/0", result.Downloaded, result.Failed)
		}

		if _, err := os.Stat(filepath.Join(dir, "First Song_clip1.mp3")); err != nil {
			t.Errorf("expected downloaded file: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "download_manifest.json")); err != nil {
			t.Errorf("expected manifest: %v", err)
		}
		if result.ManifestPath == "" {
			t.Error("manifest path not recorded")
		}
	})

	t.Run("partial failure is recorded, not fatal", func(t *testing.T) {
		dir := t.TempDir()
		dl := &mockDownloader{failOn: "https://cdn.example.com/clip2.mp3"}
		engine := NewGenerationEngine(nil)

		result, err := engine.DownloadClips(context.Background(), nil, dl, task, DownloadOpts{
			OutputDir: dir,
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("DownloadClips() error = %v", err)
		}
		if result.Downloaded != 1 || result.Failed != 1 {
			t.Errorf("downloaded/failed = %d/%d, want 1/1", result.Downloaded, result.Failed)
		}

		var failedResult *ClipDownloadResult
		for i := range result.Results {
			if !result.Results[i].Success {
				failedResult = &result.Results[i]
			}
		}
		if failedResult == nil || failedResult.Error == "" {
			t.Error("failed result should carry the error message")
		}
	})

	t.Run("nil downloader rejected", func(t *testing.T) {
		engine := NewGenerationEngine(nil)
		if _, err := engine.DownloadClips(context.Background(), nil, nil, task, DownloadOpts{}); err == nil {
			t.Fatal("expected error for nil downloader")
		}
	})
}
