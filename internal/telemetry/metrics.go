package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ScansStarted counts scans accepted by the driver
	ScansStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wscan",
			Name:      "scans_started_total",
			Help:      "Total number of scans submitted to the driver",
		},
		[]string{"interface"},
	)

	// ScansRejected counts scan requests refused before or at submission
	ScansRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wscan",
			Name:      "scans_rejected_total",
			Help:      "Total number of scan requests rejected",
		},
		[]string{"interface", "reason"},
	)

	// ScansCompleted counts scans that reached end of results
	ScansCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wscan",
			Name:      "scans_completed_total",
			Help:      "Total number of scans that delivered their final batch",
		},
		[]string{"interface"},
	)

	// ResultsForwarded counts results handed to the caller
	ResultsForwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wscan",
			Name:      "results_forwarded_total",
			Help:      "Total number of scan results forwarded to callbacks",
		},
		[]string{"interface"},
	)

	// ResultsCapped counts raw results dropped by the result cap
	ResultsCapped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wscan",
			Name:      "results_capped_total",
			Help:      "Total number of raw scan results dropped because the cap was reached",
		},
		[]string{"interface"},
	)

	// SessionDuration observes runner sessions end to end
	SessionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wscan",
			Name:      "session_duration_seconds",
			Help:      "Duration of scan sessions from start to completion or timeout",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"status"},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry
// This function is idempotent and can be called multiple times safely
func InitMetrics() {
	once.Do(func() {
		// Ignore AlreadyRegistered errors from tests that share the default registry
		prometheus.DefaultRegisterer.Register(ScansStarted)
		prometheus.DefaultRegisterer.Register(ScansRejected)
		prometheus.DefaultRegisterer.Register(ScansCompleted)
		prometheus.DefaultRegisterer.Register(ResultsForwarded)
		prometheus.DefaultRegisterer.Register(ResultsCapped)
		prometheus.DefaultRegisterer.Register(SessionDuration)
	})
}
