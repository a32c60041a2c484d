// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/moodmix/internal/models"
)

// StaticToken is a test double for services.TokenProvider
type StaticToken struct {
	Token string
	Err   error
}

func (s *StaticToken) AcquireToken(context.Context) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return s.Token, nil
}

// StaticPlaylists is a test double for services.PlaylistFetcher keyed by playlist ID
type StaticPlaylists struct {
	mu     sync.Mutex
	Tracks map[string][]models.Track
	Err    error
	Seen   []string
}

func (s *StaticPlaylists) PlaylistTracks(_ context.Context, playlistID, _ string) ([]models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Seen = append(s.Seen, playlistID)
	if s.Err != nil {
		return nil, s.Err
	}
	tracks, ok := s.Tracks[playlistID]
	if !ok {
		return []models.Track{}, nil
	}
	return tracks, nil
}

// SampleTrack builds a fully populated track for fixtures.
func SampleTrack(id, name, artist string) models.Track {
	preview := "https://p.scdn.co/mp3-preview/" + id
	height, width := 640, 640
	return models.Track{
		ID:      id,
		Name:    name,
		Artists: []models.Artist{{Name: artist}},
		Album: models.Album{
			Name:   name + " (Album)",
			Images: []models.Image{{URL: "https://i.scdn.co/image/" + id, Height: &height, Width: &width}},
		},
		PreviewURL: &preview,
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing and counts calls
type MockRoundTripper struct {
	mu       sync.Mutex
	response *http.Response
	err      error
	calls    int
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.response, m.err
}

// Calls reports how many requests reached the round tripper.
func (m *MockRoundTripper) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
