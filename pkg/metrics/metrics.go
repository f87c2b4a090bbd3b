// Package metrics exposes Prometheus instrumentation for the SDK.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the SDK's Prometheus collectors. Collectors are registered
// on the registry passed to New, so two clients with separate registries
// never collide.
type Metrics struct {
	CacheLookups      *prometheus.CounterVec
	CacheInvalidation prometheus.Counter
	CacheErrors       *prometheus.CounterVec
	Requests          *prometheus.CounterVec
	RequestLatency    *prometheus.HistogramVec
}

// New creates and registers the SDK metrics. A nil registerer registers on
// the default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "permsdk_cache_lookups_total",
				Help: "Permission cache lookups by outcome (hit, miss).",
			},
			[]string{"outcome"},
		),
		CacheInvalidation: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "permsdk_cache_invalidations_total",
				Help: "Subject invalidations issued against the cache.",
			},
		),
		CacheErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "permsdk_cache_errors_total",
				Help: "Swallowed cache backend errors by operation.",
			},
			[]string{"operation"},
		),
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "permsdk_requests_total",
				Help: "Transport requests by endpoint and result.",
			},
			[]string{"endpoint", "result"},
		),
		RequestLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "permsdk_request_latency_seconds",
				Help:    "Transport request latency by endpoint.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}
}

// NewNoop creates metrics backed by a throwaway registry, for tests and for
// callers that opt out of instrumentation.
func NewNoop() *Metrics {
	return New(prometheus.NewRegistry())
}

// RecordCacheHit records a cache lookup that was served locally.
func (m *Metrics) RecordCacheHit() { m.CacheLookups.WithLabelValues("hit").Inc() }

// RecordCacheMiss records a cache lookup that fell through to the network.
func (m *Metrics) RecordCacheMiss() { m.CacheLookups.WithLabelValues("miss").Inc() }

// RecordCacheError records a swallowed backend failure.
func (m *Metrics) RecordCacheError(operation string) {
	m.CacheErrors.WithLabelValues(operation).Inc()
}

// RecordInvalidation records a subject invalidation.
func (m *Metrics) RecordInvalidation() { m.CacheInvalidation.Inc() }

// RecordRequest records a completed transport request.
func (m *Metrics) RecordRequest(endpoint, result string, elapsed time.Duration) {
	m.Requests.WithLabelValues(endpoint, result).Inc()
	m.RequestLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
