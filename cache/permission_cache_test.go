package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/permsdk/cache"
)

// failingBackend simulates a broken cache deployment: every operation errors.
type failingBackend struct{}

func (failingBackend) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("backend down")
}

func (failingBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.New("backend down")
}

func (failingBackend) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	return 0, errors.New("backend down")
}

func (failingBackend) Close() error { return nil }

func newTestCache(t *testing.T) *cache.PermissionCache {
	t.Helper()
	return cache.NewPermissionCache(cache.NewMemoryBackend(time.Minute), "permsdk", nil, nil)
}

func TestPermissionCacheStoreLookup(t *testing.T) {
	ctx := context.Background()
	pc := newTestCache(t)
	defer pc.Close()

	fp := cache.NewFingerprint([]string{"user:1"}, "documents", "read", "", "")

	_, ok := pc.Lookup(ctx, fp)
	assert.False(t, ok)

	pc.Store(ctx, fp, true, time.Minute)
	allowed, ok := pc.Lookup(ctx, fp)
	assert.True(t, ok)
	assert.True(t, allowed)

	pc.Store(ctx, fp, false, time.Minute)
	allowed, ok = pc.Lookup(ctx, fp)
	assert.True(t, ok)
	assert.False(t, allowed, "last store wins")
}

func TestPermissionCacheEquivalentRequestsShareEntry(t *testing.T) {
	ctx := context.Background()
	pc := newTestCache(t)
	defer pc.Close()

	a := cache.NewFingerprint([]string{"user:1", "role:editor"}, "documents", "read", "", "")
	b := cache.NewFingerprint([]string{"role:editor", "user:1"}, "documents", "read", "", "")

	pc.Store(ctx, a, true, time.Minute)
	allowed, ok := pc.Lookup(ctx, b)
	assert.True(t, ok)
	assert.True(t, allowed)
}

func TestPermissionCacheInvalidateAnySubject(t *testing.T) {
	ctx := context.Background()
	pc := newTestCache(t)
	defer pc.Close()

	multi := cache.NewFingerprint([]string{"user:1", "role:editor"}, "documents", "read", "", "")
	other := cache.NewFingerprint([]string{"user:2"}, "documents", "read", "", "")
	pc.Store(ctx, multi, true, time.Minute)
	pc.Store(ctx, other, true, time.Minute)

	// Invalidating the second subject of a multi-subject check must drop
	// the shared entry, and only that entry.
	pc.InvalidateSubjects(ctx, []string{"role:editor"})

	_, ok := pc.Lookup(ctx, multi)
	assert.False(t, ok)
	_, ok = pc.Lookup(ctx, other)
	assert.True(t, ok)
}

func TestPermissionCacheInvalidateIdempotent(t *testing.T) {
	ctx := context.Background()
	pc := newTestCache(t)
	defer pc.Close()

	pc.InvalidateSubjects(ctx, []string{"user:absent"})
	pc.InvalidateSubjects(ctx, []string{"user:absent"})
}

func TestPermissionCacheInvalidateAll(t *testing.T) {
	ctx := context.Background()
	pc := newTestCache(t)
	defer pc.Close()

	a := cache.NewFingerprint([]string{"user:1"}, "documents", "read", "", "")
	b := cache.NewFingerprint([]string{"user:2"}, "billing", "write", "", "")
	pc.Store(ctx, a, true, time.Minute)
	pc.Store(ctx, b, false, time.Minute)

	pc.InvalidateAll(ctx)

	_, ok := pc.Lookup(ctx, a)
	assert.False(t, ok)
	_, ok = pc.Lookup(ctx, b)
	assert.False(t, ok)
}

func TestPermissionCacheDegradesOnBackendFailure(t *testing.T) {
	ctx := context.Background()
	pc := cache.NewPermissionCache(failingBackend{}, "permsdk", nil, nil)

	fp := cache.NewFingerprint([]string{"user:1"}, "documents", "read", "", "")

	// None of these may panic or surface the backend error.
	pc.Store(ctx, fp, true, time.Minute)
	_, ok := pc.Lookup(ctx, fp)
	assert.False(t, ok, "failed read degrades to a miss")
	pc.InvalidateSubjects(ctx, []string{"user:1"})
	pc.InvalidateAll(ctx)
}
