package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchDurationHistogram tracks the duration of single fetch attempts
	FetchDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "asset_fetch_duration_seconds",
			Help: "Time taken by one network retrieval attempt",
		},
		[]string{"method", "status"},
	)

	// HTTPRequestsTotal counts fetch attempts by outcome
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_http_requests_total",
			Help: "Fetch attempts by outcome (success, client_error, error)",
		},
		[]string{"service", "status"},
	)

	// HTTPRetriesTotal counts scheduled retries after transient
	// failures, by asset kind
	HTTPRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_http_retries_total",
			Help: "Retries scheduled after transient fetch failures",
		},
		[]string{"kind"},
	)

	// ActiveJobsGauge tracks the number of items inside their fetch pipeline
	ActiveJobsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_active_jobs",
			Help: "Items currently inside their fetch/decode pipeline",
		},
	)

	// QueueDepthGauge tracks the number of pending queue entries
	QueueDepthGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_queue_depth",
			Help: "Pending entries in the request queue",
		},
	)

	// CacheSizeGauge tracks the number of ready items in the cache store
	CacheSizeGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_cache_items",
			Help: "Ready items held by the cache store",
		},
	)

	// InteractionWaitersGauge tracks sound items gated on a user gesture
	InteractionWaitersGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_interaction_waiters",
			Help: "Sound items waiting for a user interaction signal",
		},
	)
)

// RecordHTTPRequest records a fetch attempt with its outcome
func RecordHTTPRequest(service, status string) {
	HTTPRequestsTotal.WithLabelValues(service, status).Inc()
}

// RecordHTTPRetry records a scheduled retry attempt for an asset kind
func RecordHTTPRetry(kind string) {
	HTTPRetriesTotal.WithLabelValues(kind).Inc()
}

// RecordFetchDuration records the duration of one fetch attempt
func RecordFetchDuration(method, status string, start time.Time) {
	FetchDurationHistogram.WithLabelValues(method, status).Observe(time.Since(start).Seconds())
}

// SetActiveJobs records the current active-set size
func SetActiveJobs(n int) {
	ActiveJobsGauge.Set(float64(n))
}

// SetQueueDepth records the current queue length
func SetQueueDepth(n int) {
	QueueDepthGauge.Set(float64(n))
}

// SetCacheSize records the current cache item count
func SetCacheSize(n int) {
	CacheSizeGauge.Set(float64(n))
}

// SetInteractionWaiters records the number of gesture-gated sound items
func SetInteractionWaiters(n int) {
	InteractionWaitersGauge.Set(float64(n))
}
