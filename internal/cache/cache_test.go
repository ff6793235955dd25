package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/ledgerbook/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheExpires(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	c := NewTTLCache[string, int](fake)

	c.Set("a", 1, time.Minute)
	c.Set("skip", 2, 0)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = c.Get("skip")
	assert.False(t, ok)

	fake.Advance(time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestRedisStore(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewStore(client, nil)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "dashboard")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "dashboard", []byte(`{"total":1}`), time.Minute))
	value, ok, err := store.Get(ctx, "dashboard")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"total":1}`, string(value))

	srv.FastForward(2 * time.Minute)
	_, ok, err = store.Get(ctx, "dashboard")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Delete(ctx, "dashboard"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "dashboard|stats", Key(" Dashboard ", "", "STATS"))
}
