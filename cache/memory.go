package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryBackend stores entries in-process. Expired entries are treated as
// misses on read and swept by the janitor; the cache is not shared across
// processes and is discarded on Close.
type memoryBackend struct {
	store *gocache.Cache
}

// NewMemoryBackend creates an in-process backend. defaultTTL applies when a
// Set passes a non-positive TTL.
func NewMemoryBackend(defaultTTL time.Duration) Backend {
	return &memoryBackend{
		store: gocache.New(defaultTTL, 2*defaultTTL),
	}
}

func (m *memoryBackend) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, nil
	}
	return s, true, nil
}

func (m *memoryBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}

// DeletePrefix scans the whole map; invalidation cost is O(entries), which
// is acceptable for an in-process cache.
func (m *memoryBackend) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	deleted := 0
	for key := range m.store.Items() {
		if strings.HasPrefix(key, prefix) {
			m.store.Delete(key)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memoryBackend) Close() error {
	m.store.Flush()
	return nil
}
