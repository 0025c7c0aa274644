package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/otpauth/internal/auth/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/clock"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/kvstore"
)

func newTestCache(t *testing.T) (*Cache, *kvstore.Memory, *clock.Fake) {
	t.Helper()

	clk := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	store := kvstore.NewMemory(clk)

	return New(store, instrument.NewNoop()), store, clk
}

func TestCache_KeyLayout(t *testing.T) {
	c, store, _ := newTestCache(t)
	ctx := context.Background()

	ok, err := c.CreateChallenge(ctx, entity.Challenge{
		Subject:  "a@x.com",
		Digest:   "digest",
		TTL:      5 * time.Minute,
		Cooldown: 30 * time.Second,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	v, err := store.Get(ctx, "otp:a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "digest", v)

	v, err = store.Get(ctx, "otp:cooldown:a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	v, err = store.Get(ctx, "otp:attempts:a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "0", v)
}

func TestCache_CreateChallengeDuringCooldown(t *testing.T) {
	c, store, clk := newTestCache(t)
	ctx := context.Background()
	ch := entity.Challenge{Subject: "a@x.com", Digest: "d1", TTL: 5 * time.Minute, Cooldown: 30 * time.Second}

	ok, err := c.CreateChallenge(ctx, ch)
	require.NoError(t, err)
	require.True(t, ok)

	ch.Digest = "d2"
	ok, err = c.CreateChallenge(ctx, ch)
	require.NoError(t, err)
	assert.False(t, ok)

	v, _ := store.Get(ctx, "otp:a@x.com")
	assert.Equal(t, "d1", v)

	clk.Advance(30 * time.Second)
	ok, err = c.CreateChallenge(ctx, ch)
	require.NoError(t, err)
	assert.True(t, ok)

	v, _ = store.Get(ctx, "otp:a@x.com")
	assert.Equal(t, "d2", v)
}

func TestCache_AttemptsAndDelete(t *testing.T) {
	c, store, clk := newTestCache(t)
	ctx := context.Background()

	_, found, err := c.GetChallenge(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = c.CreateChallenge(ctx, entity.Challenge{Subject: "a@x.com", Digest: "d", TTL: time.Minute, Cooldown: time.Second})
	require.NoError(t, err)

	n, err := c.IncrAttempts(ctx, "a@x.com", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Counter recreated out of band without a TTL gets one back.
	_, _ = store.Delete(ctx, "otp:attempts:a@x.com")
	n, err = c.IncrAttempts(ctx, "a@x.com", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	clk.Advance(time.Minute)
	ok, _ := store.Exists(ctx, "otp:attempts:a@x.com")
	assert.False(t, ok)

	_, err = c.CreateChallenge(ctx, entity.Challenge{Subject: "b@x.com", Digest: "d", TTL: time.Minute, Cooldown: time.Second})
	require.NoError(t, err)

	removed, err := c.DeleteChallenge(ctx, "b@x.com")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = c.DeleteChallenge(ctx, "b@x.com")
	require.NoError(t, err)
	assert.False(t, removed)
}
