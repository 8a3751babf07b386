package cache

import (
	"fmt"

	"github.com/shopscout/backend/internal/domain/search"
	"github.com/shopscout/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ResultCacheFactory creates the configured result cache backend
type ResultCacheFactory struct {
	redisConfig           config.RedisConfig
	keyPrefix             string
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*ResultCacheFactory)

// WithLogger sets the logger for the factory and the caches it creates
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *ResultCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// an in-memory cache. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *ResultCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithKeyPrefix sets the Redis key prefix
func WithKeyPrefix(prefix string) FactoryOption {
	return func(f *ResultCacheFactory) {
		f.keyPrefix = prefix
	}
}

// NewResultCacheFactory creates a new factory
func NewResultCacheFactory(cfg config.RedisConfig, opts ...FactoryOption) *ResultCacheFactory {
	f := &ResultCacheFactory{
		redisConfig:           cfg,
		keyPrefix:             defaultKeyPrefix,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds the cache for a backend name: redis, memory or none.
// An unreachable Redis falls back to memory when allowed.
func (f *ResultCacheFactory) Create(backend string) (search.ResultCache, error) {
	switch backend {
	case BackendNone:
		f.logger.Info("Search result cache disabled")
		return NewNoopResultCache(), nil
	case BackendMemory:
		f.logger.Info("Using in-memory search result cache")
		return f.createInMemory(), nil
	case BackendRedis, "":
		store, err := NewRedisResultCache(RedisConfig{
			Host:     f.redisConfig.Host,
			Port:     f.redisConfig.Port,
			Password: f.redisConfig.Password,
			DB:       f.redisConfig.DB,
		}, f.keyPrefix)
		if err == nil {
			f.logger.Info("Using Redis search result cache",
				zap.String("host", f.redisConfig.Host),
				zap.Int("port", f.redisConfig.Port))
			return store, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis result cache unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory search result cache. "+
			"Cached results will not be shared across instances.",
			zap.Error(err),
		)
		return f.createInMemory(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

func (f *ResultCacheFactory) createInMemory() *InMemoryResultCache {
	return NewInMemoryResultCache(WithInMemoryLogger(f.logger.Named("result_cache")))
}
