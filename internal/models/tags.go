package models

// TagEntry is one recognized style token in the reference corpus.
//
// Names are canonical lowercase strings. CoOccurrence maps other tag names to
// frequency weights; the corpus is loaded once per process and is immutable
// thereafter, so entries are safe for concurrent reads without locking.
type TagEntry struct {
	Name         string
	Frequency    int
	CoOccurrence map[string]int
}

// Suggestion pairs a corpus entry with a match score in [0, 1].
type Suggestion struct {
	Entry *TagEntry
	Score float64
}

// WeightedTag pairs a corpus entry with a co-occurrence weight.
type WeightedTag struct {
	Entry  *TagEntry
	Weight int
}

// UnknownTag is a user token that did not resolve to a corpus entry, with up
// to a handful of ranked correction candidates. Unknown tags are a normal,
// reportable result, never an error.
type UnknownTag struct {
	Token       string
	Suggestions []Suggestion
}

// TagValidationResult is the outcome of resolving a raw user tag string.
// Valid preserves first-seen input order for display.
type TagValidationResult struct {
	Valid    []string
	Unknown  []UnknownTag
	Enhanced []string
}

// HasUnknown reports whether any input token failed to resolve.
func (r *TagValidationResult) HasUnknown() bool {
	return len(r.Unknown) > 0
}
