package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
)

// Defaults for the in-process cache
const (
	DefaultMemoryCacheSize   = 1000
	DefaultMemoryCacheMaxTTL = time.Hour
)

// MemoryAdapter is an in-process CacheProvider used when Redis is unavailable.
// It holds at most size entries, evicting the least recently used, and no
// entry outlives maxTTL even when Set asked for longer or for no expiry.
type MemoryAdapter struct {
	entries *expirable.LRU[string, memoryEntry]
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryAdapter creates a cache with the default size and lifetime
func NewMemoryAdapter() *MemoryAdapter {
	return NewBoundedMemoryAdapter(DefaultMemoryCacheSize, DefaultMemoryCacheMaxTTL)
}

// NewBoundedMemoryAdapter creates a cache holding at most size entries for at
// most maxTTL each
func NewBoundedMemoryAdapter(size int, maxTTL time.Duration) *MemoryAdapter {
	if size <= 0 {
		size = DefaultMemoryCacheSize
	}
	if maxTTL <= 0 {
		maxTTL = DefaultMemoryCacheMaxTTL
	}
	return &MemoryAdapter{
		entries: expirable.NewLRU[string, memoryEntry](size, nil, maxTTL),
		now:     time.Now,
	}
}

// Len returns the number of entries currently held
func (m *MemoryAdapter) Len() int {
	return m.entries.Len()
}

func (m *MemoryAdapter) live(key string) (memoryEntry, bool) {
	entry, ok := m.entries.Get(key)
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.entries.Remove(key)
		return memoryEntry{}, false
	}
	return entry, true
}

// Get retrieves a copy of the cached value
func (m *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	entry, ok := m.live(key)
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return append([]byte(nil), entry.value...), nil
}

// Set stores value; a zero ttl lasts as long as the cache allows
func (m *MemoryAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries.Add(key, entry)
	return nil
}

// Delete removes keys
func (m *MemoryAdapter) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		m.entries.Remove(k)
	}
	return nil
}

// Exists reports whether a live entry exists
func (m *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.live(key)
	return ok, nil
}
