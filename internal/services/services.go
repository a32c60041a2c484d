package services

import (
	"context"

	"github.com/desertthunder/moodmix/internal/models"
)

// TokenProvider supplies an access token for catalog requests.
type TokenProvider interface {
	AcquireToken(ctx context.Context) (string, error)
}

// PlaylistFetcher lists the tracks of a catalog playlist.
type PlaylistFetcher interface {
	// PlaylistTracks returns the normalized tracks of playlistID in upstream order.
	// An empty playlist is not an error.
	PlaylistTracks(ctx context.Context, playlistID, token string) ([]models.Track, error)
}
