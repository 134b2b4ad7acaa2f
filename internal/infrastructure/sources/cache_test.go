package sources

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nft-gate.backend/pkg/redis"
)

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	c.Set(ctx, "k", onePage("a1"), time.Minute)
	page, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "a1", page.Items[0].ID)

	now = now.Add(time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)

	c.Set(ctx, "zero", onePage("a2"), 0)
	_, ok = c.Get(ctx, "zero")
	assert.False(t, ok)
}

func TestRedisCache_RoundTripAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	orig := redis.GetClient()
	t.Cleanup(func() { redis.SetClient(orig) })
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	c := NewRedisCache("test:source")
	ctx := context.Background()

	_, ok := c.Get(ctx, "das:W:1")
	assert.False(t, ok)

	c.Set(ctx, "das:W:1", onePage("a1"), 3*time.Minute)
	page, ok := c.Get(ctx, "das:W:1")
	require.True(t, ok)
	assert.Equal(t, "a1", page.Items[0].ID)

	mr.FastForward(4 * time.Minute)
	_, ok = c.Get(ctx, "das:W:1")
	assert.False(t, ok)
}

func TestRedisCache_BackendDownIsMiss(t *testing.T) {
	orig := redis.GetClient()
	t.Cleanup(func() { redis.SetClient(orig) })
	redis.SetClient(goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:0",
		DialTimeout: 50 * time.Millisecond,
	}))

	c := NewRedisCache("test:source")
	c.Set(context.Background(), "k", onePage("a1"), time.Minute)
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}
