// Package metrics exposes Prometheus instrumentation for the orbit server
// and registers it as observability hooks so that library code stays free
// of backend dependencies.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/orbitviz/orbit/pkg/observability"
)

var (
	fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orbit_graph_fetches_total",
		Help: "Total number of inventory graph fetches, labelled by outcome.",
	}, []string{"status"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "orbit_graph_fetch_duration_seconds",
		Help:    "Inventory fetch latency in seconds.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	layoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "orbit_layout_duration_seconds",
		Help:    "Radial layout computation time in seconds.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	layoutNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "orbit_layout_nodes",
		Help:    "Number of nodes per layout pass.",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000},
	})

	staleResults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbit_stale_fetches_total",
		Help: "Total number of superseded fetch results that were discarded.",
	})

	cacheOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orbit_cache_operations_total",
		Help: "Total cache operations, labelled by operation and key type.",
	}, []string{"op", "key_type"})

	// HTTPRequestDuration tracks API request latency. Used directly by the
	// API middleware rather than through hooks.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orbit_http_request_duration_seconds",
		Help:    "HTTP API request latency in seconds, labelled by route and status.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"route", "status"})
)

// Register installs the Prometheus implementations of the session and
// cache hooks. Call once at server startup.
func Register() {
	observability.SetSessionHooks(sessionHooks{})
	observability.SetCacheHooks(cacheHooks{})
}

type sessionHooks struct{}

func (sessionHooks) OnFetchStart(context.Context, string, int) {}

func (sessionHooks) OnFetchComplete(_ context.Context, _ string, _ int, _ int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	fetchesTotal.WithLabelValues(status).Inc()
	fetchDuration.Observe(d.Seconds())
}

func (sessionHooks) OnLayoutStart(_ context.Context, _ string, nodeCount int) {
	layoutNodes.Observe(float64(nodeCount))
}

func (sessionHooks) OnLayoutComplete(_ context.Context, _ string, d time.Duration, err error) {
	if err == nil {
		layoutDuration.Observe(d.Seconds())
	}
}

func (sessionHooks) OnStaleResult(context.Context, string) {
	staleResults.Inc()
}

type cacheHooks struct{}

func (cacheHooks) OnCacheHit(_ context.Context, keyType string) {
	cacheOps.WithLabelValues("hit", keyType).Inc()
}

func (cacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	cacheOps.WithLabelValues("miss", keyType).Inc()
}

func (cacheHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	cacheOps.WithLabelValues("set", keyType).Inc()
}
