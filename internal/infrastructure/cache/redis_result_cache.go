package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopscout/backend/internal/domain/search"
)

const defaultKeyPrefix = "shopscout:"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	DB          int
	DialTimeout time.Duration
}

// RedisResultCache stores composite results as JSON in Redis.
// It is shared by every instance of the service.
type RedisResultCache struct {
	client    *redis.Client
	keyPrefix string
	stats     counters
}

// NewRedisResultCache connects to Redis and verifies the connection with a ping
func NewRedisResultCache(cfg RedisConfig, keyPrefix string) (*RedisResultCache, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 2 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
		MaxRetries:  1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisResultCacheWithClient(client, keyPrefix), nil
}

// NewRedisResultCacheWithClient creates a cache around an existing client
func NewRedisResultCacheWithClient(client *redis.Client, keyPrefix string) *RedisResultCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisResultCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached result, or nil, nil on a miss
func (c *RedisResultCache) Get(ctx context.Context, fingerprint string) (*search.CompositeResult, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		c.stats.misses.Add(1)
		return nil, nil
	}
	if err != nil {
		c.stats.errors.Add(1)
		return nil, fmt.Errorf("failed to get cached result: %w", err)
	}

	var result search.CompositeResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.stats.errors.Add(1)
		return nil, fmt.Errorf("failed to decode cached result: %w", err)
	}

	c.stats.hits.Add(1)
	return &result, nil
}

// Set stores the result with a TTL
func (c *RedisResultCache) Set(ctx context.Context, fingerprint string, result *search.CompositeResult, ttl time.Duration) error {
	if result == nil {
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		c.stats.errors.Add(1)
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+fingerprint, data, ttl).Err(); err != nil {
		c.stats.errors.Add(1)
		return fmt.Errorf("failed to cache result: %w", err)
	}
	c.stats.sets.Add(1)
	return nil
}

// Ping checks the Redis connection
func (c *RedisResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Stats returns counters since the cache was created
func (c *RedisResultCache) Stats() search.CacheStats {
	return c.stats.snapshot(BackendRedis, 0)
}

// Close closes the Redis client
func (c *RedisResultCache) Close() error {
	return c.client.Close()
}

var _ search.ResultCache = (*RedisResultCache)(nil)
