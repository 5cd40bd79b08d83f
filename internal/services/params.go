package services

import "tracksmartin/internal/models"

// JobParams is the tagged-variant interface for job submissions. Each job
// kind has its own parameter record; the client and poller only ever see the
// common Task shape that comes back.
type JobParams interface {
	Kind() models.TaskKind
	endpoint() string
	payload() any
}

// CreateParams describes a new generation job. Exactly one of Prompt (custom
// lyrics) or Description (let the service write the song) must be set; that
// is enforced at the CLI boundary, not here.
type CreateParams struct {
	Title        string
	Prompt       string
	Description  string
	Tags         string
	NegativeTags string
	StyleWeight  *float64 // [0, 1]
	Weirdness    *float64 // [0, 1]
	ModelVersion string
	Instrumental bool
}

func (CreateParams) Kind() models.TaskKind { return models.KindCreate }
func (CreateParams) endpoint() string      { return "suno/create" }

func (p CreateParams) payload() any {
	return struct {
		CustomMode   bool     `json:"custom_mode"`
		Prompt       string   `json:"prompt,omitempty"`
		Description  string   `json:"gpt_description_prompt,omitempty"`
		Title        string   `json:"title,omitempty"`
		Tags         string   `json:"tags,omitempty"`
		NegativeTags string   `json:"negative_tags,omitempty"`
		StyleWeight  *float64 `json:"style_weight,omitempty"`
		Weirdness    *float64 `json:"weirdness_constraint,omitempty"`
		Instrumental bool     `json:"make_instrumental"`
		ModelVersion string   `json:"mv,omitempty"`
	}{
		CustomMode:   p.Prompt != "",
		Prompt:       p.Prompt,
		Description:  p.Description,
		Title:        p.Title,
		Tags:         p.Tags,
		NegativeTags: p.NegativeTags,
		StyleWeight:  p.StyleWeight,
		Weirdness:    p.Weirdness,
		Instrumental: p.Instrumental,
		ModelVersion: p.ModelVersion,
	}
}

// ExtendParams continues an existing clip from a point in time.
type ExtendParams struct {
	ClipID     string
	Prompt     string
	ContinueAt int // seconds
	Tags       string
	Title      string
}

func (ExtendParams) Kind() models.TaskKind { return models.KindExtend }
func (ExtendParams) endpoint() string      { return "suno/extend" }

func (p ExtendParams) payload() any {
	return struct {
		ClipID     string `json:"clip_id"`
		Prompt     string `json:"prompt"`
		ContinueAt int    `json:"continue_at"`
		Tags       string `json:"tags,omitempty"`
		Title      string `json:"title,omitempty"`
	}{p.ClipID, p.Prompt, p.ContinueAt, p.Tags, p.Title}
}

// ConcatParams joins multiple clips into one song.
type ConcatParams struct {
	ClipIDs []string
}

func (ConcatParams) Kind() models.TaskKind { return models.KindConcat }
func (ConcatParams) endpoint() string      { return "suno/concat" }

func (p ConcatParams) payload() any {
	return struct {
		ClipIDs []string `json:"clip_ids"`
	}{p.ClipIDs}
}

// CoverParams re-renders an existing clip with new lyrics or style.
type CoverParams struct {
	ClipID string
	Prompt string
	Tags   string
}

func (CoverParams) Kind() models.TaskKind { return models.KindCover }
func (CoverParams) endpoint() string      { return "suno/cover" }

func (p CoverParams) payload() any {
	return struct {
		ClipID string `json:"clip_id"`
		Prompt string `json:"prompt,omitempty"`
		Tags   string `json:"tags,omitempty"`
	}{p.ClipID, p.Prompt, p.Tags}
}

// RemasterParams re-renders a clip with a newer model version.
type RemasterParams struct {
	ClipID       string
	ModelVersion string
}

func (RemasterParams) Kind() models.TaskKind { return models.KindRemaster }
func (RemasterParams) endpoint() string      { return "suno/remaster" }

func (p RemasterParams) payload() any {
	return struct {
		ClipID       string `json:"clip_id"`
		ModelVersion string `json:"mv,omitempty"`
	}{p.ClipID, p.ModelVersion}
}

// StemsParams extracts stems from a clip. Basic separation yields vocals and
// instrumental; Full yields vocals, bass, drums and other.
type StemsParams struct {
	ClipID string
	Full   bool
}

func (StemsParams) Kind() models.TaskKind { return models.KindStems }

func (p StemsParams) endpoint() string {
	if p.Full {
		return "suno/stems/full"
	}
	return "suno/stems/basic"
}

func (p StemsParams) payload() any {
	return struct {
		ClipID string `json:"clip_id"`
	}{p.ClipID}
}

// AddVocalParams layers generated vocals on an instrumental clip.
type AddVocalParams struct {
	ClipID string
	Prompt string
	Tags   string
}

func (AddVocalParams) Kind() models.TaskKind { return models.KindAddVocal }
func (AddVocalParams) endpoint() string      { return "suno/add-vocal" }

func (p AddVocalParams) payload() any {
	return struct {
		ClipID string `json:"clip_id"`
		Prompt string `json:"prompt,omitempty"`
		Tags   string `json:"tags,omitempty"`
	}{p.ClipID, p.Prompt, p.Tags}
}

// PersonaCreateParams builds a vocal persona from sample clips.
type PersonaCreateParams struct {
	Name          string
	Description   string
	SampleClipIDs []string
}

func (PersonaCreateParams) Kind() models.TaskKind { return models.KindPersonaCreate }
func (PersonaCreateParams) endpoint() string      { return "suno/persona" }

func (p PersonaCreateParams) payload() any {
	return struct {
		Name          string   `json:"name"`
		Description   string   `json:"description"`
		SampleClipIDs []string `json:"sample_clip_ids"`
	}{p.Name, p.Description, p.SampleClipIDs}
}

// PersonaUseParams generates a song using an existing persona's voice.
type PersonaUseParams struct {
	PersonaID    string
	Prompt       string
	Title        string
	Tags         string
	ModelVersion string
}

func (PersonaUseParams) Kind() models.TaskKind { return models.KindPersonaUse }
func (PersonaUseParams) endpoint() string      { return "suno/persona/music" }

func (p PersonaUseParams) payload() any {
	return struct {
		PersonaID    string `json:"persona_id"`
		Prompt       string `json:"prompt"`
		Title        string `json:"title,omitempty"`
		Tags         string `json:"tags,omitempty"`
		ModelVersion string `json:"mv,omitempty"`
	}{p.PersonaID, p.Prompt, p.Title, p.Tags, p.ModelVersion}
}

// MIDIParams transcribes a clip to MIDI.
type MIDIParams struct {
	ClipID string
}

func (MIDIParams) Kind() models.TaskKind { return models.KindMIDI }
func (MIDIParams) endpoint() string      { return "suno/midi" }

func (p MIDIParams) payload() any {
	return struct {
		ClipID string `json:"clip_id"`
	}{p.ClipID}
}

// UploadParams registers externally hosted audio with the service, yielding a
// clip usable in later operations.
type UploadParams struct {
	AudioURL string
	Title    string
}

func (UploadParams) Kind() models.TaskKind { return models.KindUpload }
func (UploadParams) endpoint() string      { return "suno/upload" }

func (p UploadParams) payload() any {
	return struct {
		URL   string `json:"url"`
		Title string `json:"title,omitempty"`
	}{p.AudioURL, p.Title}
}
