package search

import (
	"context"
	"time"
)

// CacheStats holds provider-agnostic cache counters
type CacheStats struct {
	Backend string `json:"backend"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	Sets    int64  `json:"sets"`
	Errors  int64  `json:"errors"`
	Size    int64  `json:"size"`
}

// HitRate returns the hit ratio in [0, 1]
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// ResultCache is the advisory cache for composite results.
// Callers treat every error as a miss.
type ResultCache interface {
	// Get returns the cached result or nil, nil on a miss
	Get(ctx context.Context, fingerprint string) (*CompositeResult, error)

	// Set stores a value copy of the result with a TTL
	Set(ctx context.Context, fingerprint string, result *CompositeResult, ttl time.Duration) error

	// Ping checks that the backing store is reachable
	Ping(ctx context.Context) error

	// Stats returns counters since process start
	Stats() CacheStats
}
