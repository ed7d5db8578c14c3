// Package observability provides Prometheus metrics for the market-data gateway.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gateway's Prometheus collectors. A nil *Metrics is
// valid and records nothing, so metrics stay optional in tests.
type Metrics struct {
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	upstreamRequests *prometheus.CounterVec
	upstreamErrors   *prometheus.CounterVec
}

// New creates the gateway metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stockd_cache_hits_total",
			Help: "Cache hits per operation.",
		}, []string{"operation"}),
		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stockd_cache_misses_total",
			Help: "Cache misses per operation.",
		}, []string{"operation"}),
		upstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stockd_upstream_requests_total",
			Help: "Upstream fetches per provider and operation.",
		}, []string{"provider", "operation"}),
		upstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stockd_upstream_errors_total",
			Help: "Failed upstream fetches per provider and operation.",
		}, []string{"provider", "operation"}),
	}
}

// RecordCacheHit counts a cache hit for an operation.
func (m *Metrics) RecordCacheHit(operation string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(operation).Inc()
}

// RecordCacheMiss counts a cache miss for an operation.
func (m *Metrics) RecordCacheMiss(operation string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(operation).Inc()
}

// RecordUpstream counts an upstream fetch and, when err is non-nil, an
// upstream failure.
func (m *Metrics) RecordUpstream(provider, operation string, err error) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(provider, operation).Inc()
	if err != nil {
		m.upstreamErrors.WithLabelValues(provider, operation).Inc()
	}
}
