package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgRecommendationFetched MsgKind = iota
	MsgProgressUpdate
	MsgExportComplete
)

type recommendationFetched struct {
	label string
	rec   *models.Recommendation
	err   error
}

type exportComplete struct {
	result *tasks.BulkExportResult
	err    error
}

// recommendationFetchedMsg is the constructor for [MsgRecommendationFetched]
func recommendationFetchedMsg(label string, rec *models.Recommendation, err error) Msg {
	return Msg{kind: MsgRecommendationFetched, data: recommendationFetched{label, rec, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// exportCompleteMsg is the constructor for [MsgExportComplete]
func exportCompleteMsg(result *tasks.BulkExportResult, err error) Msg {
	return Msg{kind: MsgExportComplete, data: exportComplete{result, err}}
}
