package ui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"tracksmartin/internal/tags"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TagListView ViewState = iota
	CompatView
)

// Model represents the TUI application state.
type Model struct {
	view       ViewState
	index      *tags.Index
	width      int
	height     int
	tagList    list.Model
	compatList list.Model
	selected   []string // drill-down stack of tag names
	err        error
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model over the given tag index.
func NewModel(index *tags.Index) *Model {
	return &Model{
		view:  TagListView,
		index: index,
		help:  help.New(),
		keys:  newKeyMap(),
	}
}

// Init builds the initial tag list, ordered by corpus frequency.
func (m *Model) Init() tea.Cmd {
	names := m.index.Names()
	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		if entry, ok := m.index.Lookup(name); ok {
			items = append(items, tagItem{entry: entry})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].(tagItem).entry.Frequency > items[j].(tagItem).entry.Frequency
	})

	m.tagList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.tagList.Title = fmt.Sprintf("Style Tags (%d)", len(items))
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tagList.SetSize(msg.Width-4, msg.Height-8)
		if m.compatList.Width() != 0 {
			m.compatList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TagListView:
			return m.handleTagListKeys(msg)
		case CompatView:
			return m.handleCompatKeys(msg)
		}
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case TagListView:
		return m.renderTagList()
	case CompatView:
		return m.renderCompat()
	default:
		return ""
	}
}

func (m *Model) handleTagListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tagList.FilterState() != list.Filtering {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if selected, ok := m.tagList.SelectedItem().(tagItem); ok {
				m.drillInto(selected.entry.Name)
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.tagList, cmd = m.tagList.Update(msg)
	return m, cmd
}

func (m *Model) handleCompatKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.selected = m.selected[:len(m.selected)-1]
		if len(m.selected) == 0 {
			m.view = TagListView
		} else {
			m.buildCompatList(m.selected[len(m.selected)-1])
		}
		return m, nil
	case "enter":
		if selected, ok := m.compatList.SelectedItem().(compatItem); ok {
			m.drillInto(selected.tag.Entry.Name)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.compatList, cmd = m.compatList.Update(msg)
	return m, cmd
}

func (m *Model) drillInto(name string) {
	m.selected = append(m.selected, name)
	m.buildCompatList(name)
	m.view = CompatView
}

func (m *Model) buildCompatList(name string) {
	compatible := m.index.CompatibleWith(name, m.index.Len())
	items := make([]list.Item, len(compatible))
	for i, wt := range compatible {
		items[i] = compatItem{tag: wt}
	}

	m.compatList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.compatList.Title = fmt.Sprintf("Pairs well with '%s'", name)
	m.compatList.SetSize(m.width-4, m.height-8)
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case TagListView:
		m.tagList, cmd = m.tagList.Update(msg)
	case CompatView:
		m.compatList, cmd = m.compatList.Update(msg)
	}
	return m, cmd
}

func (m *Model) renderTagList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.tagList.View(), helpView)
}

func (m *Model) renderCompat() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.compatList.View(), helpView)
}
