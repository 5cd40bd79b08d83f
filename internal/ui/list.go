package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"tracksmartin/internal/models"
)

var (
	_ list.Item = tagItem{}
	_ list.Item = compatItem{}
)

// tagItem wraps [models.TagEntry] to implement [list.Item].
type tagItem struct {
	entry *models.TagEntry
}

func (i tagItem) FilterValue() string { return i.entry.Name }
func (i tagItem) Title() string       { return i.entry.Name }
func (i tagItem) Description() string {
	return fmt.Sprintf("frequency %d • %d related tags", i.entry.Frequency, len(i.entry.CoOccurrence))
}

// compatItem wraps [models.WeightedTag] to implement [list.Item].
type compatItem struct {
	tag models.WeightedTag
}

func (i compatItem) FilterValue() string { return i.tag.Entry.Name }
func (i compatItem) Title() string       { return i.tag.Entry.Name }
func (i compatItem) Description() string {
	return fmt.Sprintf("pairing weight %d • frequency %d", i.tag.Weight, i.tag.Entry.Frequency)
}
