package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchTracks Phase = iota
	ExportRecommendation
)

func (p Phase) String() string {
	switch p {
	case FetchTracks:
		return "fetch_tracks"
	case ExportRecommendation:
		return "export_recommendation"
	default:
		return ""
	}
}

func fetchingTracksUpdate(step, total int, emotion string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %s tracks...", step, total, emotion),
	}
}

func exportCompletedUpdate(step, total int, res EmotionExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportRecommendation,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d tracks, %d files)", step, total, res.Emotion, res.TrackCount, len(res.Files)),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res EmotionExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportRecommendation,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Emotion, res.Error),
		Data:    res,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
