package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Emit metrics
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hunch_events_total",
			Help: "Total number of events emitted",
		},
		[]string{"level", "status"},
	)

	InvalidEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hunch_invalid_events_total",
			Help: "Total number of events rejected by validation",
		},
	)

	// Store metrics
	StoreWriteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hunch_store_write_duration_seconds",
			Help:    "Duration of event appends in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	StoreWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hunch_store_write_errors_total",
			Help: "Total number of failed event appends",
		},
	)

	StoreBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hunch_store_bytes_total",
			Help: "Total bytes appended to the event store",
		},
	)

	// Ingest metrics
	IngestRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hunch_ingest_requests_total",
			Help: "Total number of ingest HTTP requests",
		},
		[]string{"status"},
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hunch_ingest_request_duration_seconds",
			Help:    "Duration of ingest requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Event status labels.
const (
	StatusWritten    = "written"
	StatusSuppressed = "suppressed"
	StatusFailed     = "failed"
)
