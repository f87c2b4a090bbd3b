package cache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/permsdk/cache"
)

func TestMemoryBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := cache.NewMemoryBackend(time.Minute)
	defer backend.Close()

	_, ok, err := backend.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, backend.Set(ctx, "k", "1", time.Minute))
	v, ok, err := backend.Get(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestMemoryBackendTTLExpiry(t *testing.T) {
	ctx := context.Background()
	backend := cache.NewMemoryBackend(time.Minute)
	defer backend.Close()

	assert.NoError(t, backend.Set(ctx, "k", "1", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)

	_, ok, err := backend.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryBackendDeletePrefix(t *testing.T) {
	ctx := context.Background()
	backend := cache.NewMemoryBackend(time.Minute)
	defer backend.Close()

	assert.NoError(t, backend.Set(ctx, "p:v1:check:user:1:aaaa", "1", time.Minute))
	assert.NoError(t, backend.Set(ctx, "p:v1:check:user:1:bbbb", "0", time.Minute))
	assert.NoError(t, backend.Set(ctx, "p:v1:check:user:12:cccc", "1", time.Minute))

	deleted, err := backend.DeletePrefix(ctx, "p:v1:check:user:1:")
	assert.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, ok, _ := backend.Get(ctx, "p:v1:check:user:12:cccc")
	assert.True(t, ok, "longer subject must survive shorter subject's invalidation")

	deleted, err = backend.DeletePrefix(ctx, "p:v1:check:user:1:")
	assert.NoError(t, err)
	assert.Equal(t, 0, deleted, "repeat invalidation must be a no-op")
}

func TestMemoryBackendConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	backend := cache.NewMemoryBackend(time.Minute)
	defer backend.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("p:v1:check:user:%d:hash", i)
			for j := 0; j < 100; j++ {
				_ = backend.Set(ctx, key, "1", time.Minute)
				_, _, _ = backend.Get(ctx, key)
				_, _ = backend.DeletePrefix(ctx, "p:v1:check:user:3:")
			}
		}(i)
	}
	wg.Wait()
}
