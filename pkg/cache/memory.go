package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMemoryEntries bounds a Memory cache created with a non-positive size.
const DefaultMemoryEntries = 256

// Memory is a bounded in-process cache. When full, expired entries are
// dropped first, then the least recently used one.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	max     int
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
	usedAt    time.Time
}

// NewMemory creates a cache holding at most maxEntries values.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &Memory{
		entries: make(map[string]*memoryEntry),
		max:     maxEntries,
		now:     time.Now,
	}
}

// Get retrieves a value from the cache.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	now := m.now()
	if e.expired(now) {
		delete(m.entries, key)
		return nil, false, nil
	}
	e.usedAt = now
	return e.data, true, nil
}

// Set stores a value in the cache, evicting if it is full.
func (m *Memory) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	e := &memoryEntry{data: data, usedAt: now}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.max {
		m.evict(now)
	}
	m.entries[key] = e
	return nil
}

// Delete removes a value from the cache.
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Close empties the cache.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
	return nil
}

// evict makes room for one entry. Callers hold m.mu.
func (m *Memory) evict(now time.Time) {
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
		}
	}
	if len(m.entries) < m.max {
		return
	}
	var (
		oldest  string
		oldestT time.Time
		found   bool
	)
	for k, e := range m.entries {
		if !found || e.usedAt.Before(oldestT) {
			oldest, oldestT, found = k, e.usedAt, true
		}
	}
	delete(m.entries, oldest)
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Ensure Memory implements Cache.
var _ Cache = (*Memory)(nil)
