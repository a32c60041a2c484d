// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing recommendations:
//  1. [EmotionListView] : Pick one of the display emotions
//  2. [TrackListView] : Browse the tracks recommended for it
//  3. [ConfirmView] : Confirm exporting the recommendation
//  4. [ExportView] : Monitor progress while files are written
//  5. [ResultView] : Show the written files
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Export progress flows through a channel from [tasks.Recommender.BulkExport], so rendering never blocks on the catalog.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
