package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CollectsErrors(t *testing.T) {
	m := NewManager(4)
	ctx := context.Background()
	boom := errors.New("boom")

	var ran atomic.Int32
	require.NoError(t, m.Go(ctx, func(context.Context) error { ran.Add(1); return nil }))
	require.NoError(t, m.Go(ctx, func(context.Context) error { ran.Add(1); return boom }))
	require.NoError(t, m.Go(ctx, func(context.Context) error { panic("consumer exploded") }))

	err := m.Wait()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), ran.Load())

	assert.ErrorIs(t, m.Go(ctx, func(context.Context) error { return nil }), ErrClosed)
}

func TestManager_Limit(t *testing.T) {
	m := NewManager(1)
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, m.Go(ctx, func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started

	assert.ErrorIs(t, m.Go(ctx, func(context.Context) error { return nil }), ErrLimitReached)

	close(release)
	assert.NoError(t, m.Wait())
}

func TestManager_CanceledContext(t *testing.T) {
	m := NewManager(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	require.NoError(t, m.Go(ctx, func(context.Context) error { called = true; return nil }))

	assert.NoError(t, m.Wait())
	assert.False(t, called)
}
