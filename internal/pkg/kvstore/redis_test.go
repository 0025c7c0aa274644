package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *Redis {
	t.Helper()

	if testing.Short() {
		t.Skip("redis integration test skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedis(client)
}

func TestRedis_Operations(t *testing.T) {
	ctx := context.Background()
	store := newRedis(t)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "otp:a", "digest", time.Minute))
	got, err := store.Get(ctx, "otp:a")
	require.NoError(t, err)
	assert.Equal(t, "digest", got)

	require.NoError(t, store.Set(ctx, "otp:attempts:a", "0", time.Minute))
	n, err := store.Incr(ctx, "otp:attempts:a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, store.Expire(ctx, "missing", time.Minute))
	ok, err := store.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err := store.Delete(ctx, "otp:a", "otp:attempts:a", "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	removed, err = store.Delete(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRedis_Expiry(t *testing.T) {
	ctx := context.Background()
	store := newRedis(t)

	require.NoError(t, store.Set(ctx, "short", "v", 200*time.Millisecond))
	assert.Eventually(t, func() bool {
		ok, err := store.Exists(ctx, "short")
		return err == nil && !ok
	}, 5*time.Second, 50*time.Millisecond)
}

func TestRedis_SetIfAbsent(t *testing.T) {
	ctx := context.Background()
	store := newRedis(t)

	guard := Entry{Key: "otp:cooldown:a", Value: "1", TTL: 30 * time.Second}

	ok, err := store.SetIfAbsent(ctx, guard,
		Entry{Key: "otp:a", Value: "first", TTL: time.Minute},
		Entry{Key: "otp:attempts:a", Value: "0", TTL: time.Minute},
		Entry{Key: "forever", Value: "x"},
	)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.SetIfAbsent(ctx, guard, Entry{Key: "otp:a", Value: "second", TTL: time.Minute})
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := store.Get(ctx, "otp:a")
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	ttl, err := store.client.TTL(ctx, "forever").Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl)
}

func TestRedis_CompareAndSwap(t *testing.T) {
	ctx := context.Background()
	store := newRedis(t)

	ok, err := store.CompareAndSwap(ctx, "failed", Entry{Key: "idempotency:m-1", Value: "in_progress", TTL: time.Minute})
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "idempotency:m-1", "failed", time.Hour))

	ok, err = store.CompareAndSwap(ctx, "failed", Entry{Key: "idempotency:m-1", Value: "in_progress", TTL: time.Minute})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.CompareAndSwap(ctx, "failed", Entry{Key: "idempotency:m-1", Value: "in_progress", TTL: time.Minute})
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := store.Get(ctx, "idempotency:m-1")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", got)

	ttl, err := store.client.PTTL(ctx, "idempotency:m-1").Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)
}
