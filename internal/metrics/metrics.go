package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the flight log
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Business Metrics
	TripsSavedTotal   prometheus.Counter
	TripsDeletedTotal prometheus.Counter
	BlobsWrittenTotal prometheus.Counter
	BlobsRemovedTotal prometheus.Counter
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aviablog_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aviablog_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "aviablog_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aviablog_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aviablog_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		TripsSavedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "aviablog_trips_saved_total",
				Help: "Total composite trip saves that committed",
			},
		),
		TripsDeletedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "aviablog_trips_deleted_total",
				Help: "Total trips removed through the delete endpoint",
			},
		),
		BlobsWrittenTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "aviablog_blobs_written_total",
				Help: "Total media files written to the blob store",
			},
		),
		BlobsRemovedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "aviablog_blobs_removed_total",
				Help: "Total media files removed from the blob store",
			},
		),
	}
}
