// package models defines the data model for the emotion-to-playlist service
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// SongRecommendation records one track served for an emotion.
type SongRecommendation struct {
	id         string
	emotion    string
	trackID    string
	title      string
	artist     string
	albumCover string
	previewURL string
	createdAt  time.Time
}

var _ Model = (*SongRecommendation)(nil)

// NewSongRecommendation creates an unsaved record; the repository assigns the ID.
func NewSongRecommendation(emotion, trackID, title, artist, albumCover, previewURL string) *SongRecommendation {
	return &SongRecommendation{
		emotion:    emotion,
		trackID:    trackID,
		title:      title,
		artist:     artist,
		albumCover: albumCover,
		previewURL: previewURL,
		createdAt:  time.Now().UTC(),
	}
}

// SongRecommendationFromTrack flattens a normalized [Track] into a history record.
func SongRecommendationFromTrack(emotion string, t Track) *SongRecommendation {
	preview := ""
	if t.PreviewURL != nil {
		preview = *t.PreviewURL
	}
	return NewSongRecommendation(emotion, t.ID, t.Name, t.ArtistNames(), t.CoverURL(), preview)
}

// RestoreSongRecommendation rebuilds a record read from storage.
func RestoreSongRecommendation(id, emotion, trackID, title, artist, albumCover, previewURL string, createdAt time.Time) *SongRecommendation {
	return &SongRecommendation{
		id:         id,
		emotion:    emotion,
		trackID:    trackID,
		title:      title,
		artist:     artist,
		albumCover: albumCover,
		previewURL: previewURL,
		createdAt:  createdAt,
	}
}

func (s *SongRecommendation) ID() string           { return s.id }
func (s *SongRecommendation) SetID(id string)      { s.id = id }
func (s *SongRecommendation) Emotion() string      { return s.emotion }
func (s *SongRecommendation) TrackID() string      { return s.trackID }
func (s *SongRecommendation) Title() string        { return s.title }
func (s *SongRecommendation) Artist() string       { return s.artist }
func (s *SongRecommendation) AlbumCover() string   { return s.albumCover }
func (s *SongRecommendation) PreviewURL() string   { return s.previewURL }
func (s *SongRecommendation) CreatedAt() time.Time { return s.createdAt }

// Validate enforces the column limits of the history table.
func (s *SongRecommendation) Validate() error {
	switch {
	case strings.TrimSpace(s.emotion) == "":
		return fmt.Errorf("emotion is required")
	case len(s.emotion) > 50:
		return fmt.Errorf("emotion exceeds 50 characters")
	case strings.TrimSpace(s.title) == "":
		return fmt.Errorf("title is required")
	case len(s.title) > 255:
		return fmt.Errorf("title exceeds 255 characters")
	case len(s.artist) > 255:
		return fmt.Errorf("artist exceeds 255 characters")
	}
	return nil
}

func (s *SongRecommendation) String() string {
	return fmt.Sprintf("%s: %s by %s", s.emotion, s.title, s.artist)
}

// MarshalJSON exposes the stored row using the history table's column names.
func (s *SongRecommendation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string    `json:"id"`
		Emotion    string    `json:"emotion"`
		TrackID    string    `json:"track_id"`
		Title      string    `json:"title"`
		Artist     string    `json:"artist"`
		AlbumCover string    `json:"album_cover"`
		PreviewURL string    `json:"preview_url"`
		CreatedAt  time.Time `json:"created_at"`
	}{s.id, s.emotion, s.trackID, s.title, s.artist, s.albumCover, s.previewURL, s.createdAt})
}
