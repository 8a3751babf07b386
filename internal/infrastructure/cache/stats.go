package cache

import (
	"sync/atomic"

	"github.com/shopscout/backend/internal/domain/search"
)

// counters tracks cache activity for Stats
type counters struct {
	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
	errors atomic.Int64
}

func (c *counters) snapshot(backend string, size int64) search.CacheStats {
	return search.CacheStats{
		Backend: backend,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Sets:    c.sets.Load(),
		Errors:  c.errors.Load(),
		Size:    size,
	}
}

// Backend names reported in CacheStats
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)
