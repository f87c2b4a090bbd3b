package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisBackend delegates to a Redis deployment shared across processes.
type redisBackend struct {
	client redis.UniversalClient
}

// NewRedisBackend wraps an existing Redis client. The backend takes ownership
// of the client: Close closes it.
func NewRedisBackend(client redis.UniversalClient) Backend {
	return &redisBackend{client: client}
}

func (r *redisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *redisBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// DeletePrefix iterates the keyspace with SCAN rather than KEYS so large
// deployments are not blocked. Redis has no native prefix deletion; this is
// an accepted O(n) cost paid on invalidation, not on the check path.
func (r *redisBackend) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			deleted += int(n)
			if err != nil {
				return deleted, err
			}
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func (r *redisBackend) Close() error {
	return r.client.Close()
}
