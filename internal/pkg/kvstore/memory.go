package kvstore

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/shandysiswandi/otpauth/internal/pkg/clock"
)

type memoryItem struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && !now.Before(i.expiresAt)
}

// Memory is an in-process Store. Expiry is evaluated lazily against clk,
// which makes it deterministic under clock.Fake.
type Memory struct {
	mu    sync.Mutex
	clk   clock.Clocker
	items map[string]memoryItem
}

// NewMemory returns an empty in-memory store. A nil clk uses the wall clock.
func NewMemory(clk clock.Clocker) *Memory {
	if clk == nil {
		clk = clock.New()
	}

	return &Memory{clk: clk, items: make(map[string]memoryItem)}
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = memoryItem{value: value, expiresAt: m.deadline(ttl)}

	return nil
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	if !ok {
		return "", ErrNotFound
	}

	return item.value, nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, key := range keys {
		if _, ok := m.lookup(key); ok {
			delete(m.items, key)
			n++
		}
	}

	return n, nil
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.lookup(key)

	return ok, nil
}

func (m *Memory) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	if !ok {
		m.items[key] = memoryItem{value: "1"}
		return 1, nil
	}

	n, err := strconv.ParseInt(item.value, 10, 64)
	if err != nil {
		return 0, err
	}
	n++
	item.value = strconv.FormatInt(n, 10)
	m.items[key] = item

	return n, nil
}

func (m *Memory) Expire(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	if !ok {
		return nil
	}
	item.expiresAt = m.deadline(ttl)
	m.items[key] = item

	return nil
}

func (m *Memory) SetIfAbsent(_ context.Context, guard Entry, entries ...Entry) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookup(guard.Key); ok {
		return false, nil
	}

	for _, e := range append([]Entry{guard}, entries...) {
		m.items[e.Key] = memoryItem{value: e.Value, expiresAt: m.deadline(e.TTL)}
	}

	return true, nil
}

func (m *Memory) CompareAndSwap(_ context.Context, old string, e Entry) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(e.Key)
	if !ok || item.value != old {
		return false, nil
	}
	m.items[e.Key] = memoryItem{value: e.Value, expiresAt: m.deadline(e.TTL)}

	return true, nil
}

// lookup returns a live item and evicts an expired one. Callers hold mu.
func (m *Memory) lookup(key string) (memoryItem, bool) {
	item, ok := m.items[key]
	if !ok {
		return memoryItem{}, false
	}
	if item.expired(m.clk.Now()) {
		delete(m.items, key)
		return memoryItem{}, false
	}

	return item, true
}

func (m *Memory) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}

	return m.clk.Now().Add(ttl)
}
