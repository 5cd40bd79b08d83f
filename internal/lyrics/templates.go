package lyrics

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed genres.toml
var genreData []byte

// GenreTemplate describes the structure and conventions of one genre, used
// to steer the lyric generation prompt.
type GenreTemplate struct {
	Structure       string   `toml:"structure"`
	Characteristics []string `toml:"characteristics"`
	StyleNotes      string   `toml:"style_notes"`
}

type templateFile struct {
	Genres map[string]GenreTemplate `toml:"genres"`
}

// aliases maps common genre spellings onto the template keys.
var aliases = map[string]string{
	"hiphop":            "hip-hop",
	"hip hop":           "hip-hop",
	"rap":               "hip-hop",
	"edm":               "electronic",
	"dance":             "electronic",
	"techno":            "electronic",
	"house":             "electronic",
	"rnb":               "r&b",
	"rhythm and blues":  "r&b",
	"alternative":       "indie",
	"alt":               "indie",
	"heavy metal":       "metal",
	"death metal":       "metal",
	"power metal":       "metal",
}

var templates = mustLoadTemplates()

func mustLoadTemplates() map[string]GenreTemplate {
	var file templateFile
	if err := toml.Unmarshal(genreData, &file); err != nil {
		panic(fmt.Sprintf("failed to parse embedded genre templates: %v", err))
	}
	return file.Genres
}

// Normalize lowercases a genre name and resolves common aliases.
func Normalize(genre string) string {
	g := strings.ToLower(strings.TrimSpace(genre))
	if canonical, ok := aliases[g]; ok {
		return canonical
	}
	return g
}

// TemplateFor returns the template for a genre, falling back to a generic
// template for genres without a specialized one. The second return reports
// whether a specialized template existed.
func TemplateFor(genre string) (GenreTemplate, bool) {
	if t, ok := templates[Normalize(genre)]; ok {
		return t, true
	}

	return GenreTemplate{
		Structure: "Verse 1, Chorus, Verse 2, Chorus, Bridge, Chorus",
		Characteristics: []string{
			"Genre-appropriate themes and language",
			"Clear song structure",
			"Memorable hooks and phrases",
		},
		StyleNotes: fmt.Sprintf("Write authentic %s lyrics following the genre's conventions and characteristics.", genre),
	}, false
}

// Genres returns the genres with specialized templates, sorted.
func Genres() []string {
	out := make([]string, 0, len(templates))
	for g := range templates {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Describe returns a human-readable summary of a genre's template, or an
// empty string when no specialized template exists.
func Describe(genre string) string {
	t, ok := templates[Normalize(genre)]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n\nStructure: %s", strings.ToUpper(genre), t.StyleNotes, t.Structure)
}
