package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeFound   = "found"
	OutcomeNoPath  = "no_path"
	OutcomeFailure = "error"
)

// Metrics groups every collector the service exports. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	PathResolutionsTotal *prometheus.CounterVec
	PathHops             prometheus.Histogram
	ConnectionsCreated   prometheus.Counter
}

// New registers the collectors on a fresh registry, so several instances can
// coexist in one process (tests, CLI).
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits by key",
			},
			[]string{"key"},
		),
		CacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses by key",
			},
			[]string{"key"},
		),
		PathResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "path_resolutions_total",
				Help: "Total number of shortest-path resolutions by outcome",
			},
			[]string{"outcome"},
		),
		PathHops: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "path_hops",
				Help:    "Number of hops in resolved conversion paths",
				Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
			},
		),
		ConnectionsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "connections_created_total",
				Help: "Total number of exchange edges accepted, including synthesized inverses",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.PathResolutionsTotal,
		m.PathHops,
		m.ConnectionsCreated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) CacheHit(key string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(key).Inc()
}

func (m *Metrics) CacheMiss(key string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(key).Inc()
}

func (m *Metrics) PathResolved(outcome string, hops int) {
	if m == nil {
		return
	}
	m.PathResolutionsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeFound {
		m.PathHops.Observe(float64(hops))
	}
}

func (m *Metrics) ConnectionsAdded(count int) {
	if m == nil {
		return
	}
	m.ConnectionsCreated.Add(float64(count))
}
