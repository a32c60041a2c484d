// Spotify Web API implementation of [PlaylistFetcher]
//
// Response shapes follow https://developer.spotify.com/documentation/web-api/reference/get-playlists-tracks
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
)

// DefaultBaseURL is the Spotify Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

const maxResponseBytes = 8 << 20

// Wire types use pointers so absent and null fields can be told apart from empty ones.
type spotifyImage struct {
	URL    *string `json:"url"`
	Height *int    `json:"height"`
	Width  *int    `json:"width"`
}

type spotifyArtist struct {
	Name *string `json:"name"`
}

type spotifyAlbum struct {
	Name   *string        `json:"name"`
	Images []spotifyImage `json:"images"`
}

type spotifyTrack struct {
	ID         *string         `json:"id"`
	Name       *string         `json:"name"`
	Artists    []spotifyArtist `json:"artists"`
	Album      *spotifyAlbum   `json:"album"`
	PreviewURL *string         `json:"preview_url"`
}

type spotifyPlaylistItem struct {
	Track json.RawMessage `json:"track"`
}

type spotifyPlaylistTracks struct {
	Items json.RawMessage `json:"items"`
}

// SpotifyCatalog lists playlist tracks from the Spotify Web API.
type SpotifyCatalog struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewSpotifyCatalog creates a catalog client. An empty baseURL uses [DefaultBaseURL].
func NewSpotifyCatalog(baseURL string, client *http.Client, logger *log.Logger) *SpotifyCatalog {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SpotifyCatalog{baseURL: strings.TrimRight(baseURL, "/"), httpClient: client, logger: logger}
}

// PlaylistTracks implements [PlaylistFetcher]. Only the first page of items is read.
func (s *SpotifyCatalog) PlaylistTracks(ctx context.Context, playlistID, token string) ([]models.Track, error) {
	endpoint := fmt.Sprintf("%s/playlists/%s/tracks", s.baseURL, url.PathEscape(playlistID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("playlist request failed", "playlist", playlistID, "status", resp.StatusCode, "body", shared.Truncate(body))
		return nil, fmt.Errorf("%w: status %d", shared.ErrUpstream, resp.StatusCode)
	}

	tracks, err := s.parseTracks(body)
	if err != nil {
		s.logger.Error("unexpected playlist response", "playlist", playlistID, "error", err, "body", shared.Truncate(body))
		return nil, err
	}

	s.logger.Debug("fetched playlist", "playlist", playlistID, "tracks", len(tracks))
	return tracks, nil
}

func (s *SpotifyCatalog) parseTracks(body []byte) ([]models.Track, error) {
	var page spotifyPlaylistTracks
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: response is not a JSON object: %v", shared.ErrUpstream, err)
	}
	if isNull(page.Items) {
		return nil, fmt.Errorf("%w: response has no items", shared.ErrUpstream)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(page.Items, &items); err != nil {
		return nil, fmt.Errorf("%w: items is not an array: %v", shared.ErrUpstream, err)
	}

	tracks := make([]models.Track, 0, len(items))
	for i, raw := range items {
		var item spotifyPlaylistItem
		if err := json.Unmarshal(raw, &item); err != nil {
			s.logger.Debug("skipping malformed item", "index", i, "error", err)
			continue
		}
		if isNull(item.Track) {
			s.logger.Debug("skipping item without track", "index", i)
			continue
		}

		var wire spotifyTrack
		if err := json.Unmarshal(item.Track, &wire); err != nil {
			s.logger.Debug("skipping malformed track", "index", i, "error", err)
			continue
		}
		tracks = append(tracks, normalizeTrack(wire))
	}

	return tracks, nil
}

// normalizeTrack applies catalog defaults: missing title and album names become
// [models.UnknownTitle] and [models.UnknownAlbum], unnamed artists are dropped.
func normalizeTrack(w spotifyTrack) models.Track {
	t := models.Track{
		Name:       models.UnknownTitle,
		Artists:    []models.Artist{},
		Album:      models.Album{Name: models.UnknownAlbum, Images: []models.Image{}},
		PreviewURL: w.PreviewURL,
	}
	if w.ID != nil {
		t.ID = *w.ID
	}
	if w.Name != nil {
		t.Name = *w.Name
	}

	for _, a := range w.Artists {
		if a.Name == nil {
			continue
		}
		t.Artists = append(t.Artists, models.Artist{Name: *a.Name})
	}

	if w.Album != nil {
		if w.Album.Name != nil {
			t.Album.Name = *w.Album.Name
		}
		for _, img := range w.Album.Images {
			image := models.Image{Height: img.Height, Width: img.Width}
			if img.URL != nil {
				image.URL = *img.URL
			}
			t.Album.Images = append(t.Album.Images, image)
		}
	}

	return t
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
