// Package config holds SDK configuration and its loading rules.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/permsdk/pkg/errors"
)

// CacheBackendType selects the cache backend implementation.
type CacheBackendType string

const (
	// CacheBackendMemory is the in-process map backend.
	CacheBackendMemory CacheBackendType = "memory"
	// CacheBackendRedis is the networked Redis backend.
	CacheBackendRedis CacheBackendType = "redis"
	// CacheBackendNone disables caching entirely.
	CacheBackendNone CacheBackendType = "none"
)

// Config holds everything needed to construct a Client.
type Config struct {
	// Connection settings.
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`

	// Retry policy applied by the transport. Conflict and validation
	// failures are never retried regardless of these settings.
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
	RetryMultiplier float64       `mapstructure:"retry_multiplier"`
	RetryOnStatus   []int         `mapstructure:"retry_on_status"`

	// Client-side identifier validation before hitting the network.
	ValidateIdentifiers bool `mapstructure:"validate_identifiers"`

	Cache CacheConfig `mapstructure:"cache"`
	Log   LogConfig   `mapstructure:"log"`
}

// CacheConfig configures the permission-check result cache.
type CacheConfig struct {
	Enabled   bool             `mapstructure:"enabled"`
	Backend   CacheBackendType `mapstructure:"backend"`
	TTL       time.Duration    `mapstructure:"ttl"`
	KeyPrefix string           `mapstructure:"key_prefix"`

	// Redis backend settings; ignored for other backends.
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPoolSize int    `mapstructure:"redis_pool_size"`
}

// LogConfig configures SDK logging.
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Enabled bool   `mapstructure:"enabled"`
}

// Default returns a Config with the SDK defaults applied. BaseURL and APIKey
// still have to be supplied by the caller.
func Default() Config {
	return Config{
		Timeout:             30 * time.Second,
		MaxRetries:          3,
		RetryBackoff:        500 * time.Millisecond,
		RetryMultiplier:     2.0,
		RetryOnStatus:       []int{429, 500, 502, 503, 504},
		ValidateIdentifiers: true,
		Cache: CacheConfig{
			Enabled:   true,
			Backend:   CacheBackendMemory,
			TTL:       5 * time.Minute,
			KeyPrefix: "permsdk",
		},
		Log: LogConfig{Level: "info", Enabled: false},
	}
}

// Validate checks the configuration and returns a configuration error on the
// first violated constraint.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.ErrConfiguration("base_url is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return errors.ErrConfiguration(
			fmt.Sprintf("base_url must start with http:// or https://, got: %s", c.BaseURL))
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if c.APIKey == "" {
		return errors.ErrConfiguration("api_key is required")
	}
	if c.Timeout <= 0 {
		return errors.ErrConfiguration(fmt.Sprintf("timeout must be positive, got: %s", c.Timeout))
	}
	if c.MaxRetries < 0 {
		return errors.ErrConfiguration(fmt.Sprintf("max_retries must be non-negative, got: %d", c.MaxRetries))
	}
	if c.RetryBackoff < 0 {
		return errors.ErrConfiguration(fmt.Sprintf("retry_backoff must be non-negative, got: %s", c.RetryBackoff))
	}
	if c.RetryMultiplier < 1 {
		return errors.ErrConfiguration(fmt.Sprintf("retry_multiplier must be >= 1, got: %g", c.RetryMultiplier))
	}

	if c.Cache.Enabled {
		switch c.Cache.Backend {
		case CacheBackendMemory, CacheBackendRedis, CacheBackendNone:
		default:
			return errors.ErrConfiguration(
				fmt.Sprintf("unknown cache backend: %q (use memory, redis, or none)", c.Cache.Backend))
		}
		if c.Cache.TTL <= 0 {
			return errors.ErrConfiguration(fmt.Sprintf("cache ttl must be positive, got: %s", c.Cache.TTL))
		}
		if c.Cache.KeyPrefix == "" {
			return errors.ErrConfiguration("cache key_prefix is required when caching is enabled")
		}
	}

	return nil
}
