// Package permsdk is a Go client for the permission service. It layers a
// TTL-bounded result cache over permission checks, keeps that cache coherent
// with grant/revoke operations through subject-scoped invalidation, and
// interprets resource-limit responses with a pure quota engine.
package permsdk

import (
	"context"
	stderrors "errors"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/permsdk/cache"
	"github.com/turtacn/permsdk/config"
	"github.com/turtacn/permsdk/pkg/logger"
	"github.com/turtacn/permsdk/pkg/metrics"
	"github.com/turtacn/permsdk/transport"
)

// Client is the orchestrator for all permission and quota operations. Cache
// state is scoped to the Client instance; Close releases the transport and
// the cache backend. A Client is safe for concurrent use.
type Client struct {
	cfg       *config.Config
	transport transport.Transport
	cache     *cache.PermissionCache
	log       logger.Logger
	metrics   *metrics.Metrics
	flight    singleflight.Group
}

type options struct {
	log        logger.Logger
	transport  transport.Transport
	backend    cache.Backend
	registerer prometheus.Registerer
}

// Option customizes client construction.
type Option func(*options)

// WithLogger injects a logger. Without it, logging follows cfg.Log.
func WithLogger(log logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithTransport injects a transport, replacing the default HTTP one.
func WithTransport(t transport.Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithCacheBackend injects a cache backend, replacing the configured one.
func WithCacheBackend(b cache.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithMetricsRegisterer registers the client's metrics on reg instead of an
// isolated throwaway registry.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// New validates cfg and constructs a Client.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log := o.log
	if log == nil {
		if cfg.Log.Enabled {
			log = logger.NewZapLogger(cfg.Log.Level)
		} else {
			log = logger.NewNoopLogger()
		}
	}

	var m *metrics.Metrics
	if o.registerer != nil {
		m = metrics.New(o.registerer)
	} else {
		m = metrics.NewNoop()
	}

	t := o.transport
	if t == nil {
		t = transport.NewHTTP(cfg, log, m)
	}

	backend := o.backend
	if backend == nil {
		backend = cache.NewBackend(context.Background(), cfg.Cache, log)
	}

	return &Client{
		cfg:       cfg,
		transport: t,
		cache:     cache.NewPermissionCache(backend, cfg.Cache.KeyPrefix, log, m),
		log:       log.WithComponent("client"),
		metrics:   m,
	}, nil
}

// Close releases the transport and the cache backend. The client must not
// be used afterwards.
func (c *Client) Close() error {
	return stderrors.Join(c.transport.Close(), c.cache.Close())
}

func encodeQuery(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
