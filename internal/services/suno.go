// Suno generation API implementation of [JobService]
//
// Response shapes vary by endpoint and readiness; everything is normalized
// into the [models.Task] / [models.Clip] model here and nowhere else.

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"tracksmartin/internal/models"
	"tracksmartin/internal/shared"
)

const defaultSunoBaseURL = "https://api.sunoapi.com/api/v1"

// SunoService implements [JobService] against the Suno generation API.
// The service holds no mutable per-call state, so a single instance is safe
// for use by any number of concurrent poll loops.
type SunoService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewSunoService creates a Suno API client with the given bearer token.
func NewSunoService(apiKey, baseURL string, client *http.Client) (*SunoService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: SUNO_API_KEY not set", shared.ErrMissingCredentials)
	}
	if baseURL == "" {
		baseURL = defaultSunoBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	return &SunoService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: client,
	}, nil
}

// doRequest performs one authenticated request and classifies every failure
// into the transient/permanent/malformed taxonomy.
func (s *SunoService) doRequest(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+"/"+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", shared.GenerateID())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransient, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", shared.ErrTransient, err)
	}

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrTransient, resp.StatusCode, snippet(data))
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrPermanent, resp.StatusCode, snippet(data))
	}

	return data, nil
}

// snippet truncates a response body for error messages.
func snippet(data []byte) string {
	const max = 200
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}

// Submit sends one job submission and returns the new Task in state submitted.
func (s *SunoService) Submit(ctx context.Context, params JobParams) (*models.Task, error) {
	data, err := s.doRequest(ctx, http.MethodPost, params.endpoint(), params.payload())
	if err != nil {
		return nil, err
	}

	var resp struct {
		TaskID string `json:"task_id"`
		Data   struct {
			TaskID string `json:"task_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformed, err)
	}

	taskID := resp.TaskID
	if taskID == "" {
		taskID = resp.Data.TaskID
	}
	if taskID == "" {
		return nil, fmt.Errorf("%w: no task_id in response: %s", shared.ErrMalformed, snippet(data))
	}

	return &models.Task{
		ID:     taskID,
		Kind:   params.Kind(),
		Status: models.StatusSubmitted,
	}, nil
}

// clipPayload is the wire shape of one clip in a poll response. The remote
// has drifted between id/clip_id and mv/model_version over API revisions, so
// both spellings are accepted.
type clipPayload struct {
	ID           string  `json:"id"`
	ClipID       string  `json:"clip_id"`
	ParentID     string  `json:"parent_clip_id"`
	State        string  `json:"state"`
	Title        string  `json:"title"`
	Tags         string  `json:"tags"`
	AudioURL     string  `json:"audio_url"`
	VideoURL     string  `json:"video_url"`
	ImageURL     string  `json:"image_url"`
	Duration     float64 `json:"duration"`
	MV           string  `json:"mv"`
	ModelVersion string  `json:"model_version"`
}

func (c clipPayload) toClip() models.Clip {
	id := c.ClipID
	if id == "" {
		id = c.ID
	}
	mv := c.ModelVersion
	if mv == "" {
		mv = c.MV
	}
	return models.Clip{
		ID:           id,
		ParentID:     c.ParentID,
		Title:        c.Title,
		Tags:         c.Tags,
		AudioURL:     c.AudioURL,
		VideoURL:     c.VideoURL,
		ImageURL:     c.ImageURL,
		Duration:     c.Duration,
		ModelVersion: mv,
		State:        c.State,
	}
}

// Fetch retrieves the current status of a task and normalizes it.
//
// The remote answers in two shapes: {"type": "not_ready"} early in a job's
// life, and {"code": 200, "data": [clips]} once clips exist - possibly with
// some clips still rendering and missing fields. The snapshot returned here
// reflects exactly one response; the caller merges snapshots monotonically.
func (s *SunoService) Fetch(ctx context.Context, taskID string) (*models.Task, error) {
	data, err := s.doRequest(ctx, http.MethodGet, "suno/task/"+taskID, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Type string          `json:"type"`
		Code int             `json:"code"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformed, err)
	}

	task := &models.Task{ID: taskID, Status: models.StatusPending}

	if resp.Type == "not_ready" || len(resp.Data) == 0 || resp.Code != 200 {
		return task, nil
	}

	var clips []clipPayload
	if err := json.Unmarshal(resp.Data, &clips); err != nil {
		// Some endpoints return a single clip object rather than a list.
		var single clipPayload
		if err2 := json.Unmarshal(resp.Data, &single); err2 != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrMalformed, err)
		}
		clips = []clipPayload{single}
	}

	for _, cp := range clips {
		task.Clips = append(task.Clips, cp.toClip())
	}
	task.Status = statusFromClips(clips)

	return task, nil
}

// statusFromClips derives the task-level status from the per-clip states:
// failed if any clip failed, complete if all succeeded, processing otherwise.
func statusFromClips(clips []clipPayload) models.TaskStatus {
	if len(clips) == 0 {
		return models.StatusPending
	}
	succeeded := 0
	for _, c := range clips {
		switch c.State {
		case "error", "failed":
			return models.StatusFailed
		case "succeeded", "complete":
			succeeded++
		}
	}
	if succeeded == len(clips) {
		return models.StatusComplete
	}
	return models.StatusProcessing
}

// WavURL requests a lossless WAV render URL for a clip.
func (s *SunoService) WavURL(ctx context.Context, clipID string) (string, error) {
	payload := struct {
		ClipID string `json:"clip_id"`
	}{clipID}

	data, err := s.doRequest(ctx, http.MethodPost, "suno/wav", payload)
	if err != nil {
		return "", err
	}

	var resp struct {
		Message string `json:"message"`
		Data    struct {
			WavURL string `json:"wav_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrMalformed, err)
	}
	if resp.Data.WavURL == "" {
		return "", fmt.Errorf("%w: no wav_url in response: %s", shared.ErrMalformed, snippet(data))
	}

	return resp.Data.WavURL, nil
}

// CreditsInfo reports remaining API credit balance.
type CreditsInfo struct {
	Credits      float64 `json:"credits"`
	MonthlyLimit float64 `json:"monthly_limit"`
	MonthlyUsage float64 `json:"monthly_usage"`
}

// Credits retrieves the remaining API credits for the account.
func (s *SunoService) Credits(ctx context.Context) (*CreditsInfo, error) {
	data, err := s.doRequest(ctx, http.MethodGet, "get-credits", nil)
	if err != nil {
		return nil, err
	}

	var info CreditsInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformed, err)
	}

	return &info, nil
}

// Download streams a generated asset URL to a local file. The URL is assumed
// to be pre-signed; no auth header is sent.
func (s *SunoService) Download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: download status %d", shared.ErrTransient, resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	return nil
}
