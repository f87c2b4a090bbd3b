package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/permsdk/config"
	"github.com/turtacn/permsdk/pkg/errors"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{
			name:   "Valid",
			mutate: func(c *config.Config) {},
		},
		{
			name:    "MissingBaseURL",
			mutate:  func(c *config.Config) { c.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "BadScheme",
			mutate:  func(c *config.Config) { c.BaseURL = "ftp://perm.example.com" },
			wantErr: true,
		},
		{
			name:    "MissingAPIKey",
			mutate:  func(c *config.Config) { c.APIKey = "" },
			wantErr: true,
		},
		{
			name:    "NegativeTimeout",
			mutate:  func(c *config.Config) { c.Timeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "NegativeRetries",
			mutate:  func(c *config.Config) { c.MaxRetries = -1 },
			wantErr: true,
		},
		{
			name:    "MultiplierBelowOne",
			mutate:  func(c *config.Config) { c.RetryMultiplier = 0.5 },
			wantErr: true,
		},
		{
			name:    "UnknownCacheBackend",
			mutate:  func(c *config.Config) { c.Cache.Backend = "memcached" },
			wantErr: true,
		},
		{
			name:    "ZeroCacheTTL",
			mutate:  func(c *config.Config) { c.Cache.TTL = 0 },
			wantErr: true,
		},
		{
			name: "CacheDisabledSkipsCacheChecks",
			mutate: func(c *config.Config) {
				c.Cache.Enabled = false
				c.Cache.TTL = 0
				c.Cache.KeyPrefix = ""
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.BaseURL = "https://perm.example.com"
			cfg.APIKey = "key"
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeConfiguration, errors.CodeOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTrimsTrailingSlash(t *testing.T) {
	cfg := config.Default()
	cfg.BaseURL = "https://perm.example.com/"
	cfg.APIKey = "key"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://perm.example.com", cfg.BaseURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PERMSDK_BASE_URL", "https://perm.example.com")
	t.Setenv("PERMSDK_API_KEY", "env-key")
	t.Setenv("PERMSDK_TIMEOUT", "10s")
	t.Setenv("PERMSDK_CACHE_BACKEND", "none")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://perm.example.com", cfg.BaseURL)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, config.CacheBackendNone, cfg.Cache.Backend)

	// Defaults survive where the environment is silent.
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permsdk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://perm.example.com
api_key: file-key
max_retries: 5
cache:
  backend: redis
  redis_addr: localhost:6379
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, config.CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permsdk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://file.example.com
api_key: file-key
`), 0o600))

	t.Setenv("PERMSDK_API_KEY", "env-key")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", cfg.BaseURL)
	assert.Equal(t, "env-key", cfg.APIKey)
}

func TestLoadInvalidConfigFails(t *testing.T) {
	t.Setenv("PERMSDK_BASE_URL", "not-a-url")
	t.Setenv("PERMSDK_API_KEY", "key")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfiguration, errors.CodeOf(err))
}
