// Package metrics defines the Prometheus collectors exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fraudintake"

//nolint:gochecknoglobals // collectors are registered once with the default registry
var (
	// InboundMessages counts webhook messages by the step that handled them and the outcome.
	InboundMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "inbound_messages_total",
			Help:      "Inbound messages handled by the dialogue engine",
		},
		[]string{"step", "outcome"},
	)

	ActiveConversations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "active_conversations",
			Help:      "Conversations currently held in the conversation store",
		},
	)

	SweptConversations = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "swept_conversations_total",
			Help:      "Idle conversations removed by the sweeper",
		},
	)

	ReportsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reports",
			Name:      "submitted_total",
			Help:      "Reports persisted, by fraud medium",
		},
		[]string{"fraud_medium"},
	)

	SubmissionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reports",
			Name:      "submission_failures_total",
			Help:      "Report submissions that failed to persist",
		},
	)

	MediaFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "media",
			Name:      "fetches_total",
			Help:      "Evidence attachments fetched, by status",
		},
		[]string{"status"},
	)

	BackgroundJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "background",
			Name:      "jobs_total",
			Help:      "Side-channel jobs processed, by job name and status",
		},
		[]string{"job", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route", "status"},
	)
)
