package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopscout/backend/internal/domain/search"
	"go.uber.org/zap"
)

const (
	defaultCleanupInterval = 30 * time.Second
	defaultMemoryTTL       = 5 * time.Minute
)

// InMemoryResultCache keeps serialized results in process memory.
// Entries are stored encoded so callers never share state with the cache.
type InMemoryResultCache struct {
	entries sync.Map // map[string]*cacheEntry
	logger  *zap.Logger
	stats   counters

	cleanupInterval time.Duration
	stopCh          chan struct{}
	stopped         atomic.Bool
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e *cacheEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemoryOption is a functional option for configuring the cache
type InMemoryOption func(*InMemoryResultCache)

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryOption {
	return func(c *InMemoryResultCache) {
		c.logger = logger
	}
}

// WithCleanupInterval sets how often expired entries are purged
func WithCleanupInterval(d time.Duration) InMemoryOption {
	return func(c *InMemoryResultCache) {
		if d > 0 {
			c.cleanupInterval = d
		}
	}
}

// NewInMemoryResultCache creates the cache and starts its cleanup goroutine.
// Call Close to stop the goroutine.
func NewInMemoryResultCache(opts ...InMemoryOption) *InMemoryResultCache {
	c := &InMemoryResultCache{
		logger:          zap.NewNop(),
		cleanupInterval: defaultCleanupInterval,
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupExpired()

	return c
}

// Get returns a fresh copy of the cached result, or nil, nil on a miss
func (c *InMemoryResultCache) Get(ctx context.Context, fingerprint string) (*search.CompositeResult, error) {
	if value, ok := c.entries.Load(fingerprint); ok {
		entry := value.(*cacheEntry)
		if !entry.isExpired(time.Now()) {
			var result search.CompositeResult
			if err := json.Unmarshal(entry.data, &result); err != nil {
				c.stats.errors.Add(1)
				return nil, fmt.Errorf("failed to decode cached result: %w", err)
			}
			c.stats.hits.Add(1)
			return &result, nil
		}
		c.entries.CompareAndDelete(fingerprint, value)
	}

	c.stats.misses.Add(1)
	return nil, nil
}

// Set stores an encoded copy of the result. A zero TTL uses the default.
func (c *InMemoryResultCache) Set(ctx context.Context, fingerprint string, result *search.CompositeResult, ttl time.Duration) error {
	if result == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultMemoryTTL
	}

	data, err := json.Marshal(result)
	if err != nil {
		c.stats.errors.Add(1)
		return fmt.Errorf("failed to encode result: %w", err)
	}

	c.entries.Store(fingerprint, &cacheEntry{data: data, expiresAt: time.Now().Add(ttl)})
	c.stats.sets.Add(1)
	return nil
}

// Ping always succeeds while the cache is open
func (c *InMemoryResultCache) Ping(ctx context.Context) error {
	if c.stopped.Load() {
		return fmt.Errorf("in-memory cache closed")
	}
	return nil
}

// Stats returns counters and the current entry count
func (c *InMemoryResultCache) Stats() search.CacheStats {
	return c.stats.snapshot(BackendMemory, int64(c.Len()))
}

// Len returns the number of stored entries, expired or not
func (c *InMemoryResultCache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close stops the cleanup goroutine
func (c *InMemoryResultCache) Close() error {
	if c.stopped.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	return nil
}

func (c *InMemoryResultCache) cleanupExpired() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			if removed := c.purge(time.Now()); removed > 0 {
				c.logger.Debug("Purged expired search results", zap.Int("removed", removed))
			}
		}
	}
}

// purge removes entries expired at now and returns how many were removed
func (c *InMemoryResultCache) purge(now time.Time) int {
	removed := 0
	c.entries.Range(func(key, value any) bool {
		if value.(*cacheEntry).isExpired(now) {
			if c.entries.CompareAndDelete(key, value) {
				removed++
			}
		}
		return true
	})
	return removed
}

var _ search.ResultCache = (*InMemoryResultCache)(nil)
