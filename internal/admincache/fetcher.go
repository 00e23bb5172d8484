package admincache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gerai-be/internal/logger"
)

// FetchFunc loads the authoritative value for a cache key.
type FetchFunc func(ctx context.Context) (any, error)

// Fetcher reads through the cache: a fresh entry is served as-is,
// otherwise the fetch runs and its result is stored under the key.
type Fetcher struct {
	cache *Cache
	key   string
	ttl   time.Duration
	fetch FetchFunc
}

func NewFetcher(cache *Cache, key string, ttl time.Duration, fetch FetchFunc) *Fetcher {
	return &Fetcher{cache: cache, key: key, ttl: ttl, fetch: fetch}
}

func (f *Fetcher) Get(ctx context.Context) (any, error) {
	if v := f.cache.Get(f.key); v != nil {
		return v, nil
	}
	return f.Refresh(ctx)
}

// Refresh bypasses the cache, fetches fresh data and stores it.
func (f *Fetcher) Refresh(ctx context.Context) (any, error) {
	v, err := f.fetch(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("cache refresh failed",
			zap.String("layer", "admincache"),
			zap.String("key", f.key),
			zap.Error(err),
		)
		return nil, err
	}
	f.cache.Set(f.key, v, f.ttl)
	return v, nil
}

func (f *Fetcher) Invalidate() {
	f.cache.Invalidate(f.key)
}
