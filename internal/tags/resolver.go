package tags

import (
	"fmt"
	"sort"
	"strings"

	"tracksmartin/internal/models"
	"tracksmartin/internal/shared"
)

const (
	maxSuggestions = 3
	enhanceFanout  = 5
	maxEnhanced    = 5
)

// Resolver turns raw comma-separated user tag strings into a
// [models.TagValidationResult] using the corpus index. Unknown tags are a
// normal reportable outcome, never an error.
type Resolver struct {
	index *Index
}

// NewResolver creates a Resolver backed by the given Index.
func NewResolver(ix *Index) *Resolver {
	return &Resolver{index: ix}
}

// Validate partitions the input into recognized and unrecognized tags,
// attaching up to three correction candidates per unknown token. When
// enhance is set, additional compatible tags are proposed for appending.
//
// Empty input yields an empty result, not an error. Input order is preserved
// after trimming, lowercasing and de-duplication.
func (r *Resolver) Validate(raw string, enhance bool) *models.TagValidationResult {
	result := &models.TagValidationResult{}

	tokens := splitTags(raw)
	for _, token := range tokens {
		if entry, ok := r.index.Lookup(token); ok {
			result.Valid = append(result.Valid, entry.Name)
			continue
		}
		result.Unknown = append(result.Unknown, models.UnknownTag{
			Token:       token,
			Suggestions: r.index.Search(token, maxSuggestions),
		})
	}

	if enhance && len(result.Valid) > 0 {
		result.Enhanced = r.enhance(result.Valid)
	}

	return result
}

// enhance unions the strongest co-occurring tags across all valid input tags,
// drops tags already present, and ranks the remainder by summed weight.
func (r *Resolver) enhance(valid []string) []string {
	present := make(map[string]bool, len(valid))
	for _, v := range valid {
		present[v] = true
	}

	summed := make(map[string]int)
	for _, v := range valid {
		for _, wt := range r.index.CompatibleWith(v, enhanceFanout) {
			if present[wt.Entry.Name] {
				continue
			}
			summed[wt.Entry.Name] += wt.Weight
		}
	}
	if len(summed) == 0 {
		return nil
	}

	names := make([]string, 0, len(summed))
	for name := range summed {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if summed[names[i]] != summed[names[j]] {
			return summed[names[i]] > summed[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > maxEnhanced {
		names = names[:maxEnhanced]
	}
	return names
}

// SearchGenre resolves a genre name (exact first, then best fuzzy match) and
// returns its strongest co-occurring tags.
func (r *Resolver) SearchGenre(name string, limit int) ([]models.WeightedTag, error) {
	entry, ok := r.index.Lookup(name)
	if !ok {
		matches := r.index.Search(name, 1)
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: unknown genre %q", shared.ErrInvalidInput, name)
		}
		entry = matches[0].Entry
	}

	return r.index.CompatibleWith(entry.Name, limit), nil
}

// DefaultTagsFor returns a comma-joined default tag string for a genre: the
// genre itself plus its top compatible tags. Used when the user supplies a
// genre but no explicit style tags.
func (r *Resolver) DefaultTagsFor(genre string, count int) string {
	compatible, err := r.SearchGenre(genre, count)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(genre))
	}

	parts := []string{strings.ToLower(strings.TrimSpace(genre))}
	for _, wt := range compatible {
		parts = append(parts, wt.Entry.Name)
	}
	return strings.Join(parts, ", ")
}

// splitTags normalizes a raw comma-separated tag string: trim, lowercase,
// drop empties, de-duplicate preserving first-seen order.
func splitTags(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		out = append(out, token)
	}
	return out
}
