// Package metrics provides Prometheus instrumentation for the application.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProspectsCreated counts new prospect records created from touchpoints.
	ProspectsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prospects_created_total",
			Help: "Total number of prospects created",
		},
	)

	// TouchpointsRecorded counts recorded touchpoints by kind.
	TouchpointsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "touchpoints_recorded_total",
			Help: "Total number of touchpoints recorded",
		},
		[]string{"kind"},
	)

	// ProspectMerges counts duplicate prospect merges performed.
	ProspectMerges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prospect_merges_total",
			Help: "Total number of duplicate prospect merges performed",
		},
	)

	// FollowUpsScheduled counts follow-up reminders scheduled for prospects.
	FollowUpsScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "follow_ups_scheduled_total",
			Help: "Total number of prospect follow-up reminders scheduled",
		},
	)

	// HTTPRequestsTotal counts HTTP requests by method, path and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
