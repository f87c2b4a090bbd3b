package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/turtacn/permsdk/pkg/errors"
)

// EnvPrefix is the prefix for environment variable configuration,
// e.g. PERMSDK_BASE_URL, PERMSDK_CACHE_TTL.
const EnvPrefix = "PERMSDK"

// Load builds a Config from defaults, an optional YAML file, and PERMSDK_*
// environment variables, in increasing precedence. configFile may be empty.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("max_retries", defaults.MaxRetries)
	v.SetDefault("retry_backoff", defaults.RetryBackoff)
	v.SetDefault("retry_multiplier", defaults.RetryMultiplier)
	v.SetDefault("retry_on_status", defaults.RetryOnStatus)
	v.SetDefault("validate_identifiers", defaults.ValidateIdentifiers)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.backend", string(defaults.Cache.Backend))
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("cache.key_prefix", defaults.Cache.KeyPrefix)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.enabled", defaults.Log.Enabled)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.ErrConfiguration("failed to read config file").WithCause(err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so the
	// required keys are bound explicitly.
	for _, key := range []string{
		"base_url", "api_key",
		"cache.redis_addr", "cache.redis_password", "cache.redis_db", "cache.redis_pool_size",
	} {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.ErrConfiguration("failed to unmarshal config").WithCause(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
