package lyrics

import (
	"context"
	"fmt"
	"strings"

	"tracksmartin/internal/services"
)

// Length presets for generated songs.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

var lengthGuide = map[string]string{
	LengthShort:  "2 verses, 1 chorus (repeated), around 1.5-2 minutes",
	LengthMedium: "2-3 verses, chorus, and optional bridge, around 3 minutes",
	LengthLong:   "3-4 verses, chorus, bridge, and outro, around 4+ minutes",
}

// Request describes one lyric generation.
type Request struct {
	Theme        string // required: main topic of the song
	Genre        string
	Title        string // optional; generated when empty
	Mood         string // optional
	Length       string // short, medium, long
	Instructions string // optional free-form constraints
}

// Result is a parsed generation response.
type Result struct {
	Lyrics        string
	Title         string
	Genre         string
	SuggestedTags string
}

// Generator produces genre-aware lyrics through the narrow [services.Completer]
// contract. The LLM is treated as a pure function; all retry policy belongs
// to callers.
type Generator struct {
	llm services.Completer
}

// NewGenerator creates a Generator over the given completion client.
func NewGenerator(llm services.Completer) *Generator {
	return &Generator{llm: llm}
}

// Generate writes lyrics for the requested theme and genre, returning the
// parsed title and suggested style tags alongside the lyrics body.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	genre := req.Genre
	if genre == "" {
		genre = "pop"
	}
	tmpl, _ := TemplateFor(genre)

	content, err := g.llm.Complete(ctx, systemPrompt(genre, tmpl), userPrompt(req, genre), 0.8)
	if err != nil {
		return nil, fmt.Errorf("failed to generate lyrics: %w", err)
	}

	result := parseResponse(content)
	result.Genre = genre
	if result.Title == "" {
		result.Title = req.Title
	}
	if result.Title == "" {
		result.Title = fmt.Sprintf("Untitled %s Song", titleCase(genre))
	}
	if result.SuggestedTags == "" {
		result.SuggestedTags = fmt.Sprintf("%s, original", Normalize(genre))
	}

	return result, nil
}

// Refine modifies existing lyrics based on feedback, keeping the genre's
// conventions and structure notation.
func (g *Generator) Refine(ctx context.Context, original, feedback, genre string) (string, error) {
	if genre == "" {
		genre = "pop"
	}
	tmpl, _ := TemplateFor(genre)

	system := fmt.Sprintf(`You are an expert %s songwriter.
Refine lyrics while maintaining authentic %s style and conventions.

%s`, genre, genre, tmpl.StyleNotes)

	user := fmt.Sprintf(`Original lyrics:
%s

Refinement request: %s

Provide the refined lyrics with the same structure notation ([Verse], [Chorus], etc.).`, original, feedback)

	content, err := g.llm.Complete(ctx, system, user, 0.7)
	if err != nil {
		return "", fmt.Errorf("failed to refine lyrics: %w", err)
	}

	return strings.TrimSpace(content), nil
}

func systemPrompt(genre string, tmpl GenreTemplate) string {
	var chars strings.Builder
	for _, c := range tmpl.Characteristics {
		chars.WriteString("- ")
		chars.WriteString(c)
		chars.WriteString("\n")
	}

	return fmt.Sprintf(`You are an expert songwriter and lyricist specializing in %s music.
You understand the authentic conventions, structures, and emotional language of %s.

GENRE CHARACTERISTICS:
%s
TYPICAL STRUCTURE:
%s

STYLE NOTES:
%s

Your task is to write authentic, professional-quality %s lyrics that would fit naturally in the genre.
Use proper song structure notation: [Verse 1], [Chorus], [Bridge], [Verse 2], etc.
Make the lyrics feel genuine and true to the genre's spirit.`,
		genre, genre, chars.String(), tmpl.Structure, tmpl.StyleNotes, genre)
}

func userPrompt(req Request, genre string) string {
	guide, ok := lengthGuide[req.Length]
	if !ok {
		guide = lengthGuide[LengthMedium]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write %s song lyrics about: %s\n\nRequirements:\n- Length: %s\n- Genre: %s", genre, req.Theme, guide, genre)

	if req.Title != "" {
		fmt.Fprintf(&b, "\n- Use this title: '%s'", req.Title)
	} else {
		b.WriteString("\n- Create an appropriate title")
	}
	if req.Mood != "" {
		fmt.Fprintf(&b, "\n- Mood/Tone: %s", req.Mood)
	}
	if req.Instructions != "" {
		fmt.Fprintf(&b, "\n- Additional notes: %s", req.Instructions)
	}

	fmt.Fprintf(&b, `

Format your response as:
TITLE: [song title]
TAGS: [suggest 3-5 style tags - be specific about tempo, mood, instrumentation]

[Intro]
(if applicable)

[Verse 1]
(lyrics)

[Chorus]
(lyrics)

... etc.

Make it authentic %s - not generic. The lyrics should feel like they belong in this genre.`, genre)

	return b.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// parseResponse splits the TITLE: and TAGS: header lines off the lyric body.
func parseResponse(content string) *Result {
	result := &Result{}
	var body []string

	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		switch {
		case strings.HasPrefix(line, "TITLE:"):
			result.Title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
		case strings.HasPrefix(line, "TAGS:"):
			result.SuggestedTags = strings.TrimSpace(strings.TrimPrefix(line, "TAGS:"))
		default:
			body = append(body, line)
		}
	}

	result.Lyrics = strings.TrimSpace(strings.Join(body, "\n"))
	return result
}
