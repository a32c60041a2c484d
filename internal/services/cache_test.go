package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
)

type memoryCache struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
	ttl    time.Duration
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string][]byte{}} }

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.sets++
	m.ttl = ttl
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

type countingFetcher struct {
	tracks []models.Track
	err    error
	calls  int
}

func (c *countingFetcher) PlaylistTracks(context.Context, string, string) ([]models.Track, error) {
	c.calls++
	return c.tracks, c.err
}

func TestCachedCatalog(t *testing.T) {
	ctx := context.Background()
	tracks := []models.Track{{ID: "t1", Name: "Song", Artists: []models.Artist{{Name: "A"}}, Album: models.Album{Name: "Alb", Images: []models.Image{}}}}

	t.Run("Miss Then Hit", func(t *testing.T) {
		cache := newMemoryCache()
		next := &countingFetcher{tracks: tracks}
		catalog := NewCachedCatalog(next, cache, time.Minute, nil)

		for range 2 {
			got, err := catalog.PlaylistTracks(ctx, "p1", "tok")
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 1 || got[0].ID != "t1" {
				t.Errorf("unexpected tracks %+v", got)
			}
		}
		if next.calls != 1 {
			t.Errorf("expected one upstream call, got %d", next.calls)
		}
		if _, ok := cache.data["moodmix:playlist:p1"]; !ok {
			t.Error("expected entry under moodmix:playlist:p1")
		}
		if cache.ttl != time.Minute {
			t.Errorf("expected ttl 1m, got %v", cache.ttl)
		}
	})

	t.Run("Read Failure Falls Through", func(t *testing.T) {
		cache := newMemoryCache()
		cache.getErr = errors.New("redis down")
		next := &countingFetcher{tracks: tracks}

		got, err := NewCachedCatalog(next, cache, time.Minute, nil).PlaylistTracks(ctx, "p1", "tok")
		if err != nil || len(got) != 1 {
			t.Errorf("expected upstream result, got %v, %v", got, err)
		}
	})

	t.Run("Write Failure Is Swallowed", func(t *testing.T) {
		cache := newMemoryCache()
		cache.setErr = errors.New("redis read-only")

		got, err := NewCachedCatalog(&countingFetcher{tracks: tracks}, cache, time.Minute, nil).PlaylistTracks(ctx, "p1", "tok")
		if err != nil || len(got) != 1 {
			t.Errorf("expected upstream result, got %v, %v", got, err)
		}
	})

	t.Run("Errors Are Not Cached", func(t *testing.T) {
		cache := newMemoryCache()
		next := &countingFetcher{err: shared.ErrUpstream}

		_, err := NewCachedCatalog(next, cache, time.Minute, nil).PlaylistTracks(ctx, "p1", "tok")
		if !errors.Is(err, shared.ErrUpstream) {
			t.Errorf("expected ErrUpstream, got %v", err)
		}
		if cache.sets != 0 {
			t.Error("failed lookups must not be cached")
		}
	})

	t.Run("Corrupt Entry Refetches", func(t *testing.T) {
		cache := newMemoryCache()
		cache.data["moodmix:playlist:p1"] = []byte("{not json")
		next := &countingFetcher{tracks: tracks}

		got, err := NewCachedCatalog(next, cache, time.Minute, nil).PlaylistTracks(ctx, "p1", "tok")
		if err != nil || len(got) != 1 || next.calls != 1 {
			t.Errorf("expected refetch, got %v, %v (calls=%d)", got, err, next.calls)
		}
	})

	t.Run("Nil Cache Passes Through", func(t *testing.T) {
		next := &countingFetcher{tracks: tracks}
		catalog := NewCachedCatalog(next, nil, time.Minute, nil)
		catalog.PlaylistTracks(ctx, "p1", "tok")
		catalog.PlaylistTracks(ctx, "p1", "tok")
		if next.calls != 2 {
			t.Errorf("expected 2 upstream calls, got %d", next.calls)
		}
	})
}
