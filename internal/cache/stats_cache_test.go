package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

func setupCache(t *testing.T, ttl time.Duration) (*StatsCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewWithClient(client, ttl)
	t.Cleanup(func() { _ = c.Close() })

	return c, mr
}

func TestStatsCache_MissThenHit(t *testing.T) {
	c, _ := setupCache(t, time.Minute)
	ctx := context.Background()

	var got snapshot
	version, ok, err := c.Get(ctx, "library", &got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, version)

	require.NoError(t, c.Set(ctx, version, "library", snapshot{Total: 5, Percent: 40}))

	_, ok, err = c.Get(ctx, "library", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, snapshot{Total: 5, Percent: 40}, got)
}

func TestStatsCache_InvalidateHidesOldSnapshots(t *testing.T) {
	c, mr := setupCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, "library", snapshot{Total: 1}))
	require.NoError(t, c.Invalidate(ctx))

	var got snapshot
	version, ok, err := c.Get(ctx, "library", &got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), version)

	v, err := mr.Get(versionKey)
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	require.NoError(t, c.Set(ctx, version, "library", snapshot{Total: 2}))
	_, ok, err = c.Get(ctx, "library", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, got.Total)
	assert.True(t, mr.Exists("gametracker:stats:v1:library"))
}

func TestStatsCache_SetAfterInvalidateStaysUnreachable(t *testing.T) {
	c, mr := setupCache(t, time.Minute)
	ctx := context.Background()

	// A reader misses, a writer invalidates, then the reader stores what it computed.
	var got snapshot
	version, ok, err := c.Get(ctx, "library", &got)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, version, "library", snapshot{Total: 1}))

	assert.True(t, mr.Exists("gametracker:stats:v0:library"))
	assert.False(t, mr.Exists("gametracker:stats:v1:library"))

	current, ok, err := c.Get(ctx, "library", &got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), current)
}

func TestStatsCache_EntriesExpire(t *testing.T) {
	c, mr := setupCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, "library", snapshot{Total: 3}))
	mr.FastForward(31 * time.Second)

	var got snapshot
	_, ok, err := c.Get(ctx, "library", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatsCache_ConnectionError(t *testing.T) {
	c, mr := setupCache(t, time.Minute)
	mr.Close()

	var got snapshot
	_, _, err := c.Get(context.Background(), "library", &got)
	assert.Error(t, err)
	assert.Error(t, c.Ping(context.Background()))
}
