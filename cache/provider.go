package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/permsdk/config"
	"github.com/turtacn/permsdk/pkg/logger"
)

// NewBackend selects and constructs a cache backend from configuration.
// A Redis backend that fails its initial ping falls back to the in-process
// backend with a warning, so cache setup can never fail client construction.
func NewBackend(ctx context.Context, cfg config.CacheConfig, log logger.Logger) Backend {
	if log == nil {
		log = logger.NewNoopLogger()
	}

	if !cfg.Enabled || cfg.Backend == config.CacheBackendNone {
		log.Debug(ctx, "caching disabled, using no-op backend")
		return NewNoopBackend()
	}

	switch cfg.Backend {
	case config.CacheBackendRedis:
		if cfg.RedisAddr == "" {
			log.Warn(ctx, "redis cache requested but redis_addr not configured, falling back to memory")
			return NewMemoryBackend(cfg.TTL)
		}

		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			PoolSize: cfg.RedisPoolSize,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Warn(ctx, "redis ping failed, falling back to memory cache",
				logger.Fields{"addr": cfg.RedisAddr, "error": err.Error()})
			_ = client.Close()
			return NewMemoryBackend(cfg.TTL)
		}

		log.Info(ctx, "redis cache backend connected", logger.Fields{"addr": cfg.RedisAddr})
		return NewRedisBackend(client)

	default:
		return NewMemoryBackend(cfg.TTL)
	}
}
