package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or has expired.
var ErrNotFound = errors.New("kvstore: key not found")

// Entry is a key, its value and its own time-to-live.
// A TTL <= 0 stores the key without expiry.
type Entry struct {
	Key   string
	Value string
	TTL   time.Duration
}

// Store is the contract shared by every backend.
type Store interface {
	// Set writes value under key, replacing any previous value and TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns the value under key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Delete removes keys and reports how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)
	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)
	// Incr adds one to the integer under key. An absent key counts from zero.
	Incr(ctx context.Context, key string) (int64, error)
	// Expire resets the TTL of key. It is a no-op when key is absent.
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// SetIfAbsent writes guard and entries in one step when guard.Key is
	// absent and reports whether the write happened. Nothing is written
	// when guard.Key already exists.
	SetIfAbsent(ctx context.Context, guard Entry, entries ...Entry) (bool, error)
	// CompareAndSwap replaces the value of e.Key with e.Value and e.TTL only
	// while it still holds old, and reports whether it did.
	CompareAndSwap(ctx context.Context, old string, e Entry) (bool, error)
}
