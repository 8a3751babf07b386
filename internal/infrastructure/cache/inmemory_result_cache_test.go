package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryResultCache_RoundTrip(t *testing.T) {
	c := NewInMemoryResultCache()
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	got, err := c.Get(ctx, "fp")
	require.NoError(t, err)
	assert.Nil(t, got)

	want := newTestResult(1, 3)
	require.NoError(t, c.Set(ctx, "fp", want, time.Minute))

	got, err = c.Get(ctx, "fp")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 3)
	assert.Equal(t, want.Items[0].ID, got.Items[0].ID)
	assert.True(t, want.Items[0].Price.Equal(*got.Items[0].Price))
	assert.Equal(t, want.Outcomes, got.Outcomes)
	assert.Equal(t, 1, got.Succeeded)
	assert.Equal(t, 1, got.Failed)

	stats := c.Stats()
	assert.Equal(t, BackendMemory, stats.Backend)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.Equal(t, int64(1), stats.Size)
}

func TestInMemoryResultCache_ValueCopies(t *testing.T) {
	c := NewInMemoryResultCache()
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	original := newTestResult(2, 1)
	require.NoError(t, c.Set(ctx, "fp", original, time.Minute))

	original.Items[0].Title = "mutated after set"

	first, err := c.Get(ctx, "fp")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated after set", first.Items[0].Title)

	first.Items[0].Title = "mutated after get"
	second, err := c.Get(ctx, "fp")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated after get", second.Items[0].Title)
}

func TestInMemoryResultCache_Expiry(t *testing.T) {
	c := NewInMemoryResultCache()
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", newTestResult(3, 1), 10*time.Millisecond))
	require.NoError(t, c.Set(ctx, "long", newTestResult(4, 1), time.Hour))

	time.Sleep(30 * time.Millisecond)

	got, err := c.Get(ctx, "short")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "short2", newTestResult(5, 1), time.Millisecond))
	removed := c.purge(time.Now().Add(time.Second))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Len())
}

func TestInMemoryResultCache_CleanupGoroutine(t *testing.T) {
	c := NewInMemoryResultCache(WithCleanupInterval(10 * time.Millisecond))
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(context.Background(), "fp", newTestResult(6, 1), 5*time.Millisecond))

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestInMemoryResultCache_NilAndClose(t *testing.T) {
	c := NewInMemoryResultCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "nil", nil, time.Minute))
	assert.Equal(t, 0, c.Len())

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Error(t, c.Ping(ctx))
}
