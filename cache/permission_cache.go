package cache

import (
	"context"
	"time"

	"github.com/turtacn/permsdk/pkg/logger"
	"github.com/turtacn/permsdk/pkg/metrics"
)

const (
	valueAllowed = "1"
	valueDenied  = "0"
)

// PermissionCache shadows permission-check results. It owns every cache
// entry: entries are created when a miss is resolved over the network,
// replaced on store, and destroyed by TTL expiry or subject invalidation.
//
// Backend failures never propagate: a failed read is a miss, a failed write
// or invalidation is logged and counted. The cache must never become a new
// source of request failure.
type PermissionCache struct {
	backend Backend
	scheme  KeyScheme
	log     logger.Logger
	metrics *metrics.Metrics
}

// NewPermissionCache wraps a backend with the key scheme under prefix.
func NewPermissionCache(backend Backend, prefix string, log logger.Logger, m *metrics.Metrics) *PermissionCache {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	return &PermissionCache{
		backend: backend,
		scheme:  NewKeyScheme(prefix),
		log:     log.WithComponent("permission_cache"),
		metrics: m,
	}
}

// Lookup returns the cached boolean for fp. ok is false on a miss, which
// covers absent entries, expired entries, and backend failures alike.
func (c *PermissionCache) Lookup(ctx context.Context, fp Fingerprint) (allowed, ok bool) {
	keys := c.scheme.CheckKeys(fp)
	if len(keys) == 0 {
		return false, false
	}

	// Rows are duplicated per subject with identical values; reading the
	// first sorted subject's row is deterministic and sufficient.
	value, ok, err := c.backend.Get(ctx, keys[0])
	if err != nil {
		c.metrics.RecordCacheError("get")
		c.log.Warn(ctx, "cache get failed, treating as miss", logger.Fields{"key": keys[0], "error": err.Error()})
		return false, false
	}
	if !ok {
		c.metrics.RecordCacheMiss()
		return false, false
	}

	c.metrics.RecordCacheHit()
	return value == valueAllowed, true
}

// Store caches a resolved check result under every subject's row. Entries
// are immutable point values; last store wins.
func (c *PermissionCache) Store(ctx context.Context, fp Fingerprint, allowed bool, ttl time.Duration) {
	value := valueDenied
	if allowed {
		value = valueAllowed
	}
	for _, key := range c.scheme.CheckKeys(fp) {
		if err := c.backend.Set(ctx, key, value, ttl); err != nil {
			c.metrics.RecordCacheError("set")
			c.log.Warn(ctx, "cache set failed, entry not stored", logger.Fields{"key": key, "error": err.Error()})
		}
	}
}

// InvalidateSubjects removes every cached check that named any of the given
// subjects. Idempotent: invalidating an absent subject is a no-op.
func (c *PermissionCache) InvalidateSubjects(ctx context.Context, subjects []string) {
	for _, subject := range subjects {
		deleted, err := c.backend.DeletePrefix(ctx, c.scheme.SubjectPrefix(subject))
		if err != nil {
			c.metrics.RecordCacheError("delete_prefix")
			c.log.Warn(ctx, "cache invalidation failed", logger.Fields{"subject": subject, "error": err.Error()})
			continue
		}
		c.metrics.RecordInvalidation()
		c.log.Debug(ctx, "invalidated cached checks for subject",
			logger.Fields{"subject": subject, "keys_deleted": deleted})
	}
}

// InvalidateAll flushes every cached check under this cache's prefix.
func (c *PermissionCache) InvalidateAll(ctx context.Context) {
	deleted, err := c.backend.DeletePrefix(ctx, c.scheme.CheckPrefix())
	if err != nil {
		c.metrics.RecordCacheError("delete_prefix")
		c.log.Warn(ctx, "cache flush failed", logger.Fields{"error": err.Error()})
		return
	}
	c.log.Info(ctx, "flushed all cached permission checks", logger.Fields{"keys_deleted": deleted})
}

// Close releases the backend.
func (c *PermissionCache) Close() error {
	return c.backend.Close()
}
