// Package metrics declares the prometheus collectors of the search engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GovernorPermits counts permits granted by the rate governor
	GovernorPermits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flexsearch_governor_permits_total",
			Help: "Total number of lookup permits granted by the rate governor",
		},
	)

	// GovernorWaits counts suspensions by the window that forced them
	GovernorWaits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flexsearch_governor_waits_total",
			Help: "Total number of times the rate governor suspended a caller",
		},
		[]string{"window"}, // "minute", "hour"
	)

	// GovernorWaitSeconds observes how long callers were suspended
	GovernorWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flexsearch_governor_wait_seconds",
			Help:    "Time spent waiting for a lookup permit",
			Buckets: []float64{0.1, 1, 5, 15, 30, 60, 300, 900, 3600},
		},
	)

	// Lookups counts lookups by outcome
	Lookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flexsearch_lookups_total",
			Help: "Total number of external lookups",
		},
		[]string{"outcome"}, // "success", "no_offers", "failure"
	)

	// LookupDuration observes the latency of external lookups
	LookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flexsearch_lookup_duration_seconds",
			Help:    "Latency of external lookups",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Runs counts finished batch runs by final status
	Runs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flexsearch_runs_total",
			Help: "Total number of finished batch runs",
		},
		[]string{"status"}, // "completed", "cancelled"
	)

	// ActiveRuns tracks batch runs currently executing
	ActiveRuns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flexsearch_active_runs",
			Help: "Number of batch runs currently executing",
		},
	)

	// StoreErrors counts run store failures
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flexsearch_store_errors_total",
			Help: "Total number of run store operation errors",
		},
		[]string{"operation"}, // "save", "get"
	)

	// HTTPRequests counts API requests by route template and status
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flexsearch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration observes API request latency
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flexsearch_http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
