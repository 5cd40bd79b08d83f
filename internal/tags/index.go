package tags

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"

	"tracksmartin/internal/models"
)

//go:embed corpus.toml
var corpusData []byte

// Index holds the reference corpus of recognized style tags and answers
// exact, fuzzy and co-occurrence queries. The corpus is loaded once and never
// mutated afterwards, so an Index is safe for any number of concurrent
// readers without locking.
type Index struct {
	entries map[string]*models.TagEntry
	names   []string // canonical names, lexical order
}

type corpusFile struct {
	Tags []corpusEntry `toml:"tags"`
}

type corpusEntry struct {
	Name      string         `toml:"name"`
	Frequency int            `toml:"frequency"`
	Related   map[string]int `toml:"related"`
}

var (
	loadOnce     sync.Once
	defaultIndex *Index
	defaultErr   error
)

// Default returns the process-wide Index backed by the embedded corpus,
// loading it on first use.
func Default() (*Index, error) {
	loadOnce.Do(func() {
		defaultIndex, defaultErr = NewIndex(corpusData)
	})
	return defaultIndex, defaultErr
}

// NewIndex parses a TOML corpus into an immutable Index.
func NewIndex(data []byte) (*Index, error) {
	var file corpusFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tag corpus: %w", err)
	}
	if len(file.Tags) == 0 {
		return nil, fmt.Errorf("tag corpus is empty")
	}

	ix := &Index{entries: make(map[string]*models.TagEntry, len(file.Tags))}
	for _, e := range file.Tags {
		name := strings.ToLower(strings.TrimSpace(e.Name))
		if name == "" {
			continue
		}
		ix.entries[name] = &models.TagEntry{
			Name:         name,
			Frequency:    e.Frequency,
			CoOccurrence: e.Related,
		}
		ix.names = append(ix.names, name)
	}
	sort.Strings(ix.names)

	return ix, nil
}

// Len returns the number of corpus entries.
func (ix *Index) Len() int { return len(ix.names) }

// Names returns all canonical tag names in lexical order. Callers must not
// modify the returned slice.
func (ix *Index) Names() []string { return ix.names }

// Lookup performs a case-insensitive exact match. A token that matches
// resolves to the canonical stored casing (always lowercase).
func (ix *Index) Lookup(name string) (*models.TagEntry, bool) {
	entry, ok := ix.entries[strings.ToLower(strings.TrimSpace(name))]
	return entry, ok
}

// minScore is the floor below which a fuzzy candidate is considered noise.
const minScore = 0.45

// Search returns the corpus entries most similar to query, best first,
// truncated to limit.
//
// The score blends a normalized Levenshtein ratio (weight 0.6) with token
// Jaccard overlap (weight 0.4), plus a small bonus when the query is a
// character subsequence of the candidate. Exact scores are not a
// compatibility surface, only the ranking is: ties break by corpus frequency
// descending, then lexical order.
func (ix *Index) Search(query string, limit int) []models.Suggestion {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = 5
	}

	subseq := make(map[string]bool)
	for _, m := range fuzzy.FindFrom(query, nameSource(ix.names)) {
		subseq[ix.names[m.Index]] = true
	}

	var out []models.Suggestion
	for _, name := range ix.names {
		s := similarity(query, name)
		if subseq[name] {
			s += 0.15
			if s > 1 {
				s = 1
			}
		}
		if s < minScore {
			continue
		}
		out = append(out, models.Suggestion{Entry: ix.entries[name], Score: s})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Entry.Frequency != out[j].Entry.Frequency {
			return out[i].Entry.Frequency > out[j].Entry.Frequency
		}
		return out[i].Entry.Name < out[j].Entry.Name
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CompatibleWith ranks the entries co-occurring with name by weight
// descending (ties lexical) and returns at most limit of them. The named tag
// itself is never included. An unknown name yields an empty result.
func (ix *Index) CompatibleWith(name string, limit int) []models.WeightedTag {
	entry, ok := ix.Lookup(name)
	if !ok {
		return nil
	}
	if limit <= 0 {
		limit = 5
	}

	out := make([]models.WeightedTag, 0, len(entry.CoOccurrence))
	for other, weight := range entry.CoOccurrence {
		if other == entry.Name {
			continue
		}
		rel, ok := ix.entries[other]
		if !ok {
			continue
		}
		out = append(out, models.WeightedTag{Entry: rel, Weight: weight})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Entry.Name < out[j].Entry.Name
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// similarity computes the blended string similarity in [0, 1].
func similarity(a, b string) float64 {
	lev := 1.0
	if a != b {
		maxLen := len([]rune(a))
		if l := len([]rune(b)); l > maxLen {
			maxLen = l
		}
		if maxLen > 0 {
			lev = 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
		}
	}
	return 0.6*lev + 0.4*tokenOverlap(a, b)
}

// tokenOverlap is the Jaccard coefficient over whitespace-separated tokens.
func tokenOverlap(a, b string) float64 {
	at := strings.Fields(a)
	bt := strings.Fields(b)
	if len(at) == 0 || len(bt) == 0 {
		return 0
	}
	set := make(map[string]bool, len(at))
	for _, t := range at {
		set[t] = true
	}
	shared := 0
	union := len(set)
	seen := make(map[string]bool, len(bt))
	for _, t := range bt {
		if seen[t] {
			continue
		}
		seen[t] = true
		if set[t] {
			shared++
		} else {
			union++
		}
	}
	return float64(shared) / float64(union)
}

// nameSource adapts a name list to [fuzzy.Source].
type nameSource []string

func (s nameSource) String(i int) string { return s[i] }
func (s nameSource) Len() int            { return len(s) }
