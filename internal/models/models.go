package models

// TaskKind identifies the type of remote job a Task represents.
//
// The poller and the API client only ever operate on the common Task shape;
// kind-specific parameters live with the request types in the services package.
type TaskKind string

const (
	KindCreate        TaskKind = "create"
	KindExtend        TaskKind = "extend"
	KindConcat        TaskKind = "concat"
	KindCover         TaskKind = "cover"
	KindRemaster      TaskKind = "remaster"
	KindStems         TaskKind = "stems"
	KindAddVocal      TaskKind = "add-vocal"
	KindPersonaCreate TaskKind = "persona-create"
	KindPersonaUse    TaskKind = "persona-use"
	KindMIDI          TaskKind = "midi"
	KindUpload        TaskKind = "upload"
)

// TaskStatus enumerates the lifecycle states of a Task.
type TaskStatus int

const (
	StatusSubmitted TaskStatus = iota
	StatusPending
	StatusProcessing
	StatusComplete
	StatusFailed
	StatusTimedOut
)

func (s TaskStatus) String() string {
	switch s {
	case StatusSubmitted:
		return "submitted"
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is final. Terminal tasks are never
// resurrected; polling a terminal task is a no-op.
func (s TaskStatus) Terminal() bool {
	return s == StatusComplete || s == StatusFailed || s == StatusTimedOut
}

// Clip is one unit of generated (or uploaded/derived) audio.
//
// Unlike the short-lived task ID, a clip ID is durable and intended for reuse
// in later operations: extend, cover, stems, persona creation.
type Clip struct {
	ID           string  `json:"clip_id"`
	ParentID     string  `json:"parent_clip_id,omitempty"`
	Title        string  `json:"title,omitempty"`
	Tags         string  `json:"tags,omitempty"`
	AudioURL     string  `json:"audio_url,omitempty"`
	VideoURL     string  `json:"video_url,omitempty"`
	ImageURL     string  `json:"image_url,omitempty"`
	Duration     float64 `json:"duration_seconds,omitempty"`
	ModelVersion string  `json:"model_version,omitempty"`
	State        string  `json:"state,omitempty"` // raw remote clip state, informational only
}

// merge applies a newer snapshot of the same clip without losing data.
// Once a field has been observed, a later empty value never erases it.
func (c *Clip) merge(update Clip) {
	if update.ParentID != "" {
		c.ParentID = update.ParentID
	}
	if update.Title != "" {
		c.Title = update.Title
	}
	if update.Tags != "" {
		c.Tags = update.Tags
	}
	if update.AudioURL != "" {
		c.AudioURL = update.AudioURL
	}
	if update.VideoURL != "" {
		c.VideoURL = update.VideoURL
	}
	if update.ImageURL != "" {
		c.ImageURL = update.ImageURL
	}
	if update.Duration > 0 {
		c.Duration = update.Duration
	}
	if update.ModelVersion != "" {
		c.ModelVersion = update.ModelVersion
	}
	if update.State != "" {
		c.State = update.State
	}
}

// Task represents one asynchronous unit of work submitted to the remote
// generation service. A single submission can yield multiple candidate clips.
type Task struct {
	ID     string     `json:"task_id"`
	Kind   TaskKind   `json:"kind"`
	Status TaskStatus `json:"-"`
	Clips  []Clip     `json:"clips,omitempty"`
}

// Terminal reports whether the task reached a final state.
func (t *Task) Terminal() bool {
	return t.Status.Terminal()
}

// Ready reports whether the task is complete in the strict sense: the remote
// status is complete and every clip observed so far has an audio URL. A status
// flag alone is not enough, partial-field races must not look done.
func (t *Task) Ready() bool {
	if t.Status != StatusComplete {
		return false
	}
	for _, c := range t.Clips {
		if c.AudioURL == "" {
			return false
		}
	}
	return len(t.Clips) > 0
}

// Clip returns the clip with the given ID, or nil.
func (t *Task) Clip(id string) *Clip {
	for i := range t.Clips {
		if t.Clips[i].ID == id {
			return &t.Clips[i]
		}
	}
	return nil
}

// Merge folds a later fetch snapshot into the task monotonically: the status
// is taken from the update, clips are matched by ID and merged field-wise so
// a less complete response can never regress previously observed clip data.
// Clips new to this snapshot are appended in response order.
func (t *Task) Merge(update *Task) {
	if update == nil {
		return
	}
	t.Status = update.Status
	if update.ID != "" && t.ID == "" {
		t.ID = update.ID
	}
	for _, uc := range update.Clips {
		if uc.ID == "" {
			continue
		}
		if existing := t.Clip(uc.ID); existing != nil {
			existing.merge(uc)
		} else {
			t.Clips = append(t.Clips, uc)
		}
	}
}
