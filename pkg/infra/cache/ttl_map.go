package cache

import (
	"sync"
	"time"
)

type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLMap is a thread-safe map whose entries expire after TTL without access.
type TTLMap[V any] struct {
	mu   sync.RWMutex
	data map[string]*ttlEntry[V]
	ttl  time.Duration
	now  func() time.Time
}

func NewTTLMap[V any](ttl time.Duration, now func() time.Time) *TTLMap[V] {
	if now == nil {
		now = time.Now
	}
	return &TTLMap[V]{
		data: make(map[string]*ttlEntry[V]),
		ttl:  ttl,
		now:  now,
	}
}

// GetOrCreate returns the live value of key, creating it with create when
// absent or expired. Every call refreshes the entry's expiry.
func (m *TTLMap[V]) GetOrCreate(key string, create func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	entry, ok := m.data[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &ttlEntry[V]{value: create()}
		m.data[key] = entry
	}
	entry.expiresAt = now.Add(m.ttl)
	return entry.value
}

// Sweep removes expired entries and returns how many were removed.
func (m *TTLMap[V]) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for key, entry := range m.data {
		if now.After(entry.expiresAt) {
			delete(m.data, key)
			removed++
		}
	}
	return removed
}

func (m *TTLMap[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
