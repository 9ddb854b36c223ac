// Package metrics defines Prometheus metrics for adscout.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "adscout"

// Listing query metrics.
var (
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_total",
		Help:      "Total number of listing queries issued, by endpoint.",
	}, []string{"endpoint"})

	QueryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_errors_total",
		Help:      "Total number of failed listing queries, by endpoint.",
	}, []string{"endpoint"})

	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration_seconds",
		Help:      "Duration of listing queries in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	StaleResultsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_results_dropped_total",
		Help:      "Total number of superseded query results dropped without being applied.",
	})

	DebouncedFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "debounced_fetches_total",
		Help:      "Total number of debounced fetches cancelled before firing.",
	})
)

// Detail resolution metrics.
var (
	DetailResolvedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "detail_resolved_total",
		Help:      "Total number of detail views upgraded from fallback to authoritative data.",
	})

	DetailFallbackRetainedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "detail_fallback_retained_total",
		Help:      "Total number of detail views left on fallback data after a failed fetch.",
	})
)

// Reference-data cache metrics.
var (
	RefDataHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refdata_hits_total",
		Help:      "Total number of reference-data reads served from cache, by kind.",
	}, []string{"kind"})

	RefDataMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refdata_misses_total",
		Help:      "Total number of reference-data reads that required a fetch, by kind.",
	}, []string{"kind"})
)

// Polling metrics.
var (
	PollRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "poll_runs_total",
		Help:      "Total number of polling refresh invocations.",
	})

	PollFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "poll_failures_total",
		Help:      "Total number of polling refresh failures.",
	})
)

// Mock-server HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of handled HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of handled HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Marketplace API metrics.
var (
	APICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_calls_total",
		Help:      "Total cumulative marketplace API calls.",
	})

	APIDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "api_daily_usage",
		Help:      "Current daily API call count within the rolling 24-hour window.",
	})

	APIDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_daily_limit_hits_total",
		Help:      "Total number of times the daily API limit was reached.",
	})
)
