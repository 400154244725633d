package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "heretohelp"

var (
	// StepSubmissions counts posted steps by step id and outcome
	// (invalid, continue, early_exit, complete).
	StepSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wizard",
			Name:      "step_submissions_total",
			Help:      "Total number of step submissions by outcome",
		},
		[]string{"step", "outcome"},
	)

	// ValidationErrors counts failed rules by field.
	ValidationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wizard",
			Name:      "validation_errors_total",
			Help:      "Total number of fields that failed validation",
		},
		[]string{"step", "field"},
	)

	// EarlyExits counts journeys that ended before the last step.
	EarlyExits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wizard",
			Name:      "early_exits_total",
			Help:      "Total number of journeys ended early by reason",
		},
		[]string{"reason"},
	)

	// Submissions counts final submissions by result (accepted, queued, failed).
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "submission",
			Name:      "total",
			Help:      "Total number of final submissions by result",
		},
		[]string{"result"},
	)

	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "submission",
			Name:      "duration_seconds",
			Help:      "Duration of submissions to the support requests api, retries included",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// EmailsSent counts confirmation emails by result (sent, failed, skipped).
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "emails_total",
			Help:      "Total number of confirmation emails by result",
		},
		[]string{"result"},
	)

	OutboxPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "pending",
			Help:      "Number of submissions waiting in the outbox",
		},
	)

	// OutboxDeliveries counts drain attempts by result (sent, retry, failed).
	OutboxDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "deliveries_total",
			Help:      "Total number of outbox delivery attempts by result",
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of inbound HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)
