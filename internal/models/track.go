package models

import "strings"

const (
	UnknownTitle = "Unknown Title"
	UnknownAlbum = "Unknown Album"
)

// Image is an album cover as returned by the catalog. Height and Width may be unknown.
type Image struct {
	URL    string `json:"url"`
	Height *int   `json:"height"`
	Width  *int   `json:"width"`
}

// Artist is a credited performer.
type Artist struct {
	Name string `json:"name"`
}

// Album holds the album name and every cover image the catalog listed, unfiltered.
type Album struct {
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

// Track is a normalized catalog track. PreviewURL is nil when the catalog has no preview.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	PreviewURL *string  `json:"preview_url"`
}

// ArtistNames joins every artist name with ", ".
func (t Track) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// CoverURL returns the first album image URL, or "" when there is none.
func (t Track) CoverURL() string {
	if len(t.Album.Images) == 0 {
		return ""
	}
	return t.Album.Images[0].URL
}

// Recommendation is the result of mapping a display emotion to catalog tracks.
type Recommendation struct {
	Emotion string  `json:"emotion"`
	Tracks  []Track `json:"tracks"`
}
