package authcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheGrantAndExpiry(t *testing.T) {
	cache := NewMemoryCache(30 * time.Millisecond)
	ctx := context.Background()

	ok, err := cache.IsAuthorized(ctx, "peer-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Grant(ctx, "peer-1"))
	ok, err = cache.IsAuthorized(ctx, "peer-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// Expired entries count as absent even before Purge runs.
	time.Sleep(40 * time.Millisecond)
	ok, err = cache.IsAuthorized(ctx, "peer-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheGrantRefreshes(t *testing.T) {
	cache := NewMemoryCache(50 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, cache.Grant(ctx, "peer-1"))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, cache.Grant(ctx, "peer-1"))
	time.Sleep(30 * time.Millisecond)

	ok, err := cache.IsAuthorized(ctx, "peer-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCachePurge(t *testing.T) {
	cache := NewMemoryCache(20 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, cache.Grant(ctx, "peer-1"))
	require.NoError(t, cache.Grant(ctx, "peer-2"))

	removed, err := cache.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, cache.Grant(ctx, "peer-3"))

	removed, err = cache.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	ok, err := cache.IsAuthorized(ctx, "peer-3")
	require.NoError(t, err)
	assert.True(t, ok)
}
