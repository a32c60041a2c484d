package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "moodmix:playlist:"

// TrackCache stores serialized playlist tracks. ok is false on a miss.
type TrackCache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache implements [TrackCache] on a Redis client.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis instance at redisURL (redis://host:port/db).
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%w: redis url: %v", shared.ErrInvalidConfig, err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return &RedisCache{client: client}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// CachedCatalog serves playlist tracks from a [TrackCache] before falling back to the wrapped fetcher.
// Cache failures are logged and never returned.
type CachedCatalog struct {
	next   PlaylistFetcher
	cache  TrackCache
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedCatalog decorates next. A nil cache disables caching.
func NewCachedCatalog(next PlaylistFetcher, cache TrackCache, ttl time.Duration, logger *log.Logger) *CachedCatalog {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CachedCatalog{next: next, cache: cache, ttl: ttl, logger: logger}
}

// PlaylistTracks implements [PlaylistFetcher].
func (c *CachedCatalog) PlaylistTracks(ctx context.Context, playlistID, token string) ([]models.Track, error) {
	if c.cache == nil {
		return c.next.PlaylistTracks(ctx, playlistID, token)
	}

	key := cacheKeyPrefix + playlistID
	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("track cache read failed", "key", key, "error", err)
	} else if ok {
		var tracks []models.Track
		if err := json.Unmarshal(data, &tracks); err == nil && tracks != nil {
			c.logger.Debug("track cache hit", "key", key, "tracks", len(tracks))
			return tracks, nil
		}
		c.logger.Warn("discarding unreadable cache entry", "key", key)
	}

	tracks, err := c.next.PlaylistTracks(ctx, playlistID, token)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(tracks); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn("track cache write failed", "key", key, "error", err)
		}
	}
	return tracks, nil
}
