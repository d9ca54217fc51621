// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache memoizes translations. Misses and store failures are never fatal.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// cacheKey identifies a translation by direction and text.
func cacheKey(source, target, text string) string {
	sum := sha1.Sum([]byte(text))
	return fmt.Sprintf("bookshelf:tr:%s:%s:%s", source, target, hex.EncodeToString(sum[:]))
}

// MemoryCache keeps translations in process with a TTL.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache returns a cache whose entries expire after ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MemoryCache{c: gocache.New(ttl, 2*ttl)}
}

// Get returns the cached translation for key.
func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Set stores value under key with the default TTL.
func (m *MemoryCache) Set(_ context.Context, key, value string) {
	m.c.SetDefault(key, value)
}

// RedisCache shares translations across processes through Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache connects lazily to the Redis server at url
// (redis://host:port/db). A non-empty password overrides the URL's.
func NewRedisCache(url, password string, ttl time.Duration, logger *zap.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: redis.NewClient(opts), ttl: ttl, logger: logger}, nil
}

// Get returns the cached translation for key. Connection errors count as misses.
func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	v, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("translation cache read failed", zap.Error(err))
		}
		return "", false
	}
	return v, true
}

// Set stores value under key.
func (r *RedisCache) Set(ctx context.Context, key, value string) {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		r.logger.Warn("translation cache write failed", zap.Error(err))
	}
}

// Close releases the Redis connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
