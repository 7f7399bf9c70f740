package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a concurrency-safe in-process Store. Entries are evicted lazily
// on Get; SweepExpired exists only to bound memory between reads.
type Memory struct {
	mu   sync.RWMutex
	data map[string]entry

	// now is stubbed in tests
	now func() time.Time
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Get returns the cached value for key, evicting and missing when the entry
// has expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have refreshed it.
		if cur, ok := m.data[key]; ok && m.now().After(cur.expiresAt) {
			delete(m.data, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the given TTL, overwriting any existing entry.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = entry{value: value, expiresAt: m.now().Add(ttl)}
}

// SweepExpired removes all expired entries and returns how many were dropped.
func (m *Memory) SweepExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k, e := range m.data {
		if now.After(e.expiresAt) {
			delete(m.data, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently held, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
