// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-level workflow for exploring the style tag corpus:
//  1. [TagListView] : Browse all known tags ordered by popularity, with fuzzy filtering
//  2. [CompatView] : Inspect tags that pair well with the selected tag
//
// Selecting a compatible tag drills into its own neighborhood, and esc walks
// back up the selection stack.
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
