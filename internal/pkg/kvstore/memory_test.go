package kvstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/otpauth/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemory(t *testing.T) (*Memory, *clock.Fake) {
	t.Helper()

	clk := clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	return NewMemory(clk), clk
}

func TestMemory_SetGetExpire(t *testing.T) {
	ctx := context.Background()
	store, clk := newMemory(t)

	require.NoError(t, store.Set(ctx, "otp:a@x.com", "digest", 5*time.Minute))

	got, err := store.Get(ctx, "otp:a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "digest", got)

	clk.Advance(5 * time.Minute)

	_, err = store.Get(ctx, "otp:a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := store.Exists(ctx, "otp:a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_SetWithoutTTL(t *testing.T) {
	ctx := context.Background()
	store, clk := newMemory(t)

	require.NoError(t, store.Set(ctx, "k", "v", 0))
	clk.Advance(24 * 365 * time.Hour)

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	store, clk := newMemory(t)

	require.NoError(t, store.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, store.Set(ctx, "b", "1", time.Second))
	clk.Advance(time.Second)

	n, err := store.Delete(ctx, "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "expired and absent keys are not counted")

	n, err = store.Delete(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemory_Incr(t *testing.T) {
	ctx := context.Background()
	store, clk := newMemory(t)

	n, err := store.Incr(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, store.Set(ctx, "otp:attempts:a", "0", time.Minute))
	for want := int64(1); want <= 3; want++ {
		n, err = store.Incr(ctx, "otp:attempts:a")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	clk.Advance(time.Minute)
	_, err = store.Get(ctx, "otp:attempts:a")
	assert.ErrorIs(t, err, ErrNotFound, "incr keeps the existing ttl")

	require.NoError(t, store.Set(ctx, "text", "abc", 0))
	_, err = store.Incr(ctx, "text")
	assert.Error(t, err)
}

func TestMemory_Expire(t *testing.T) {
	ctx := context.Background()
	store, clk := newMemory(t)

	require.NoError(t, store.Expire(ctx, "absent", time.Minute))
	ok, err := store.Exists(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", "v", time.Second))
	require.NoError(t, store.Expire(ctx, "k", time.Hour))
	clk.Advance(time.Minute)

	ok, err = store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory_SetIfAbsent(t *testing.T) {
	ctx := context.Background()
	store, clk := newMemory(t)

	guard := Entry{Key: "otp:cooldown:a", Value: "1", TTL: 30 * time.Second}
	challenge := Entry{Key: "otp:a", Value: "first", TTL: 5 * time.Minute}

	ok, err := store.SetIfAbsent(ctx, guard, challenge)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.SetIfAbsent(ctx, guard, Entry{Key: "otp:a", Value: "second", TTL: 5 * time.Minute})
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := store.Get(ctx, "otp:a")
	require.NoError(t, err)
	assert.Equal(t, "first", got, "a rejected write leaves entries untouched")

	clk.Advance(30 * time.Second)

	ok, err = store.SetIfAbsent(ctx, guard, Entry{Key: "otp:a", Value: "third", TTL: 5 * time.Minute})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = store.Get(ctx, "otp:a")
	require.NoError(t, err)
	assert.Equal(t, "third", got)
}

func TestMemory_SetIfAbsentConcurrent(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemory(t)

	const workers = 32
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.SetIfAbsent(ctx, Entry{Key: "guard", Value: "1", TTL: time.Minute})
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestMemory_CompareAndSwap(t *testing.T) {
	ctx := context.Background()
	store, clk := newMemory(t)

	ok, err := store.CompareAndSwap(ctx, "failed", Entry{Key: "state", Value: "in_progress", TTL: time.Minute})
	require.NoError(t, err)
	assert.False(t, ok, "absent key")

	require.NoError(t, store.Set(ctx, "state", "failed", time.Hour))

	ok, err = store.CompareAndSwap(ctx, "completed", Entry{Key: "state", Value: "in_progress", TTL: time.Minute})
	require.NoError(t, err)
	assert.False(t, ok, "value mismatch")

	ok, err = store.CompareAndSwap(ctx, "failed", Entry{Key: "state", Value: "in_progress", TTL: time.Minute})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.CompareAndSwap(ctx, "failed", Entry{Key: "state", Value: "in_progress", TTL: time.Minute})
	require.NoError(t, err)
	assert.False(t, ok, "already swapped")

	clk.Advance(time.Minute)
	_, err = store.Get(ctx, "state")
	assert.ErrorIs(t, err, ErrNotFound)
}
