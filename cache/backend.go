// Package cache implements the permission-check result cache: the raw
// backend abstraction (in-process, Redis, disabled), the cache key scheme,
// and the result cache that shadows check results with subject-scoped
// invalidation.
package cache

import (
	"context"
	"time"
)

// Backend is the capability set every cache backend provides. Implementations
// must be safe for concurrent callers.
//
// A Backend reports failures to its caller; the result cache above it decides
// that those failures degrade to a miss rather than surfacing to application
// code.
type Backend interface {
	// Get returns the value for key. ok is false on a miss, including for
	// entries whose TTL has elapsed.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key with the given TTL, overwriting any
	// existing entry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// DeletePrefix removes every key starting with prefix and returns the
	// number of keys removed. Deleting an absent prefix is a no-op.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Close releases backend resources.
	Close() error
}

type noopBackend struct{}

// NewNoopBackend returns a backend for disabled caching: every Get misses,
// Set and DeletePrefix succeed without effect.
func NewNoopBackend() Backend {
	return noopBackend{}
}

func (noopBackend) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (noopBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

func (noopBackend) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	return 0, nil
}

func (noopBackend) Close() error { return nil }
