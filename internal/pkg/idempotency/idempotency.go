// Package idempotency runs an operation at most once per key.
//
// State lives in a kvstore.Store so the guard is shared by every instance
// pointed at the same Redis.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shandysiswandi/otpauth/internal/pkg/kvstore"
)

var (
	ErrAlreadyInProgress = errors.New("idempotency: operation already in progress")
	ErrAlreadyCompleted  = errors.New("idempotency: operation already completed")
	ErrAlreadyFailed     = errors.New("idempotency: operation already failed")
	ErrInvalidState      = errors.New("idempotency: invalid state")
)

type State string

const (
	StateNone       State = "none"        // operation can proceed
	StateInProgress State = "in_progress" // another worker holds the key
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

func (s State) String() string {
	return string(s)
}

const (
	keyPrefix           = "idempotency:"
	defaultLockDuration = time.Minute
	defaultStateTTL     = 24 * time.Hour
)

type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

// Tracker records operation state per key.
type Tracker struct {
	store kvstore.Store
}

func New(store kvstore.Store) *Tracker {
	return &Tracker{store: store}
}

type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
	retryFailed  bool
}

// WithLockDuration bounds how long an in-progress marker lives if the worker dies.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) { o.lockDuration = d }
}

// WithStateTTL sets how long the completed or failed marker is kept.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) { o.stateTTL = d }
}

// WithRetryFailed lets a key that previously failed run again.
func WithRetryFailed() Option {
	return func(o *execOptions) { o.retryFailed = true }
}

// Acquire marks key in progress when no state exists yet.
func (t *Tracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	fk := keyPrefix + key

	ok, err := t.store.SetIfAbsent(ctx, kvstore.Entry{Key: fk, Value: StateInProgress.String(), TTL: lockDuration})
	if err != nil {
		return "", err
	}
	if ok {
		return StateNone, nil
	}

	current, err := t.store.Get(ctx, fk)
	if errors.Is(err, kvstore.ErrNotFound) {
		// Expired between the two calls.
		return t.Acquire(ctx, key, lockDuration)
	}
	if err != nil {
		return "", err
	}

	switch State(current) {
	case StateInProgress, StateCompleted, StateFailed:
		return State(current), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidState, current)
	}
}

func (t *Tracker) MarkCompleted(ctx context.Context, key string, ttl time.Duration) error {
	return t.store.Set(ctx, keyPrefix+key, StateCompleted.String(), ttl)
}

func (t *Tracker) MarkFailed(ctx context.Context, key string, ttl time.Duration) error {
	return t.store.Set(ctx, keyPrefix+key, StateFailed.String(), ttl)
}

// Exec runs fn unless key was already seen. fn's error is returned as is
// and the key is marked failed.
func (t *Tracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lockDuration <= 0 {
		o.lockDuration = defaultLockDuration
	}
	if o.stateTTL <= 0 {
		o.stateTTL = defaultStateTTL
	}

	state, err := t.Acquire(ctx, key, o.lockDuration)
	if err != nil {
		return err
	}

	switch state {
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	case StateFailed:
		if !o.retryFailed {
			return ErrAlreadyFailed
		}
		ok, err := t.store.CompareAndSwap(ctx, StateFailed.String(), kvstore.Entry{
			Key:   keyPrefix + key,
			Value: StateInProgress.String(),
			TTL:   o.lockDuration,
		})
		if err != nil {
			return err
		}
		if !ok {
			// Another worker took the retry first.
			return ErrAlreadyInProgress
		}
	}

	if err := fn(ctx); err != nil {
		return errors.Join(err, t.MarkFailed(ctx, key, o.stateTTL))
	}

	return t.MarkCompleted(ctx, key, o.stateTTL)
}
