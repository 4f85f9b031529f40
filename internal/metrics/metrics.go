// Package metrics holds the Prometheus collectors of the catalog.  They
// register on the default registry and are served at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OutcomeOK labels a successful tool call; failures are labelled with
// their error kind.
const OutcomeOK = "ok"

var (
	// Tool contract
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_tool_calls_total",
			Help: "Total number of tool invocations by tool and outcome",
		},
		[]string{"tool", "outcome"},
	)

	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_tool_duration_seconds",
			Help:    "Duration of tool invocations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool"},
	)

	// Response cache
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Total number of read-tool responses served from cache",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Total number of cacheable requests that missed the cache",
		},
	)

	CacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_invalidations_total",
			Help: "Total number of cache flushes triggered by mutations",
		},
	)

	// Rate limiting
	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"backend"}, // "redis", "local"
	)

	// Change events
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_events_published_total",
			Help: "Total number of movie change events by action and result",
		},
		[]string{"action", "result"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordToolCall records one finished tool invocation.
func RecordToolCall(tool, outcome string, d time.Duration) {
	ToolCalls.WithLabelValues(tool, outcome).Inc()
	ToolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// RecordEvent records the publication result of one change event.
func RecordEvent(action string, err error) {
	result := "published"
	if err != nil {
		result = "failed"
	}
	EventsPublished.WithLabelValues(action, result).Inc()
}
