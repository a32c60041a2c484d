package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/moodmix/internal/models"
)

var (
	_ list.Item = emotionItem{}
	_ list.Item = trackItem{}
)

// emotionItem is a display emotion and whether a playlist is configured for it.
type emotionItem struct {
	label      string
	configured bool
}

func (i emotionItem) FilterValue() string { return i.label }
func (i emotionItem) Title() string       { return i.label }
func (i emotionItem) Description() string {
	if !i.configured {
		return "no playlist configured"
	}
	return "playlist configured"
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	desc := i.track.ArtistNames()
	if i.track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album.Name)
	}
	if i.track.PreviewURL == nil {
		desc += " • no preview"
	}
	return desc
}
