package cache

import (
	"testing"

	"github.com/shopscout/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestResultCacheFactory_Create(t *testing.T) {
	unreachable := config.RedisConfig{Host: "127.0.0.1", Port: 1}

	t.Run("none", func(t *testing.T) {
		c, err := NewResultCacheFactory(unreachable).Create(BackendNone)
		require.NoError(t, err)
		assert.IsType(t, &NoopResultCache{}, c)
	})

	t.Run("memory", func(t *testing.T) {
		c, err := NewResultCacheFactory(unreachable).Create(BackendMemory)
		require.NoError(t, err)
		require.IsType(t, &InMemoryResultCache{}, c)
		_ = c.(*InMemoryResultCache).Close()
	})

	t.Run("redis falls back to memory", func(t *testing.T) {
		f := NewResultCacheFactory(unreachable, WithLogger(zaptest.NewLogger(t)), WithKeyPrefix("t:"))
		c, err := f.Create(BackendRedis)
		require.NoError(t, err)
		require.IsType(t, &InMemoryResultCache{}, c)
		_ = c.(*InMemoryResultCache).Close()
	})

	t.Run("redis without fallback fails", func(t *testing.T) {
		_, err := NewResultCacheFactory(unreachable, WithInMemoryFallback(false)).Create(BackendRedis)
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := NewResultCacheFactory(unreachable).Create("memcached")
		assert.Error(t, err)
	})
}
