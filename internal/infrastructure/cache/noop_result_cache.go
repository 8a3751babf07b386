package cache

import (
	"context"
	"time"

	"github.com/shopscout/backend/internal/domain/search"
)

// NoopResultCache always misses. Used when caching is disabled.
type NoopResultCache struct {
	stats counters
}

// NewNoopResultCache creates a cache that stores nothing
func NewNoopResultCache() *NoopResultCache {
	return &NoopResultCache{}
}

func (c *NoopResultCache) Get(context.Context, string) (*search.CompositeResult, error) {
	c.stats.misses.Add(1)
	return nil, nil
}

func (c *NoopResultCache) Set(context.Context, string, *search.CompositeResult, time.Duration) error {
	return nil
}

func (c *NoopResultCache) Ping(context.Context) error { return nil }

func (c *NoopResultCache) Stats() search.CacheStats {
	return c.stats.snapshot(BackendNone, 0)
}

var _ search.ResultCache = (*NoopResultCache)(nil)
