package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/services"
	"github.com/desertthunder/moodmix/internal/shared"
)

// Recommender maps display emotions to playlist tracks.
type Recommender struct {
	tokens    services.TokenProvider
	catalog   services.PlaylistFetcher
	playlists map[string]string
	logger    *log.Logger
}

// NewRecommender creates a Recommender. playlists maps display labels to catalog playlist IDs and is copied.
func NewRecommender(tokens services.TokenProvider, catalog services.PlaylistFetcher, playlists map[string]string, logger *log.Logger) *Recommender {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	table := make(map[string]string, len(playlists))
	for k, v := range playlists {
		table[k] = v
	}
	return &Recommender{tokens: tokens, catalog: catalog, playlists: table, logger: logger}
}

// PlaylistFor returns the playlist ID configured for label; ok is false when none is set.
func (r *Recommender) PlaylistFor(label string) (id string, ok bool) {
	id = r.playlists[label]
	return id, id != ""
}

// Emotions returns the display labels that have a playlist, in display order.
func (r *Recommender) Emotions() []string {
	var out []string
	for _, e := range models.DisplayEmotions {
		if _, ok := r.PlaylistFor(e); ok {
			out = append(out, e)
		}
	}
	return out
}

// Recommend fetches the tracks for label.
func (r *Recommender) Recommend(ctx context.Context, label string) (*models.Recommendation, error) {
	if !models.IsDisplayEmotion(label) {
		return nil, fmt.Errorf("%w: %q", shared.ErrUnsupportedEmotion, label)
	}

	playlistID, ok := r.PlaylistFor(label)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoRecommendation, label)
	}

	logger := shared.WithLogger(r.logger, "emotion", label, "playlist", playlistID)

	token, err := r.tokens.AcquireToken(ctx)
	if err != nil {
		logger.Error("failed to acquire catalog token", "error", err)
		return nil, fmt.Errorf("%w: %w", shared.ErrRecommendationUnavailable, err)
	}

	tracks, err := r.catalog.PlaylistTracks(ctx, playlistID, token)
	if err != nil {
		logger.Error("failed to fetch playlist", "error", err)
		return nil, fmt.Errorf("%w: %w", shared.ErrRecommendationUnavailable, err)
	}
	if tracks == nil {
		tracks = []models.Track{}
	}

	logger.Debug("recommendation ready", "tracks", len(tracks))
	return &models.Recommendation{Emotion: label, Tracks: tracks}, nil
}
