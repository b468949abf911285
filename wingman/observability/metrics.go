// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for the wingman session engine.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// SESSION METRICS
// =============================================================================

var (
	sessionExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wingman_session_executions_total",
			Help: "Total number of conversation-processing sessions",
		},
		[]string{"status"}, // status: success, error
	)

	sessionDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wingman_session_duration_seconds",
			Help:    "End-to-end session processing duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)
)

// =============================================================================
// CREW METRICS
// =============================================================================

var (
	crewRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wingman_crew_runs_total",
			Help: "Total number of crew executions",
		},
		[]string{"crew", "status"}, // status: success, error
	)

	crewDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wingman_crew_duration_seconds",
			Help:    "Crew execution duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"crew"},
	)
)

// =============================================================================
// EXTRACTION METRICS
// =============================================================================

var (
	locatorMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wingman_locator_matches_total",
			Help: "Crew result lookups by matched container shape (shape 'none' is a miss)",
		},
		[]string{"shape"},
	)

	recoveryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wingman_recovery_total",
			Help: "Structured recoveries by schema and winning tier (empty, strict, pattern, default, failed)",
		},
		[]string{"schema", "tier"},
	)
)

// RecordSession records one session execution with its status and duration.
func RecordSession(status string, durationSeconds float64) {
	sessionExecutionsTotal.WithLabelValues(status).Inc()
	sessionDurationSeconds.Observe(durationSeconds)
}

// RecordCrewRun records one crew execution.
func RecordCrewRun(crew, status string, durationSeconds float64) {
	crewRunsTotal.WithLabelValues(crew, status).Inc()
	crewDurationSeconds.WithLabelValues(crew).Observe(durationSeconds)
}

// RecordLocatorMatch records which container shape satisfied a lookup.
func RecordLocatorMatch(shape string) {
	locatorMatchesTotal.WithLabelValues(shape).Inc()
}

// RecordRecovery records which tier produced a schema instance.
func RecordRecovery(schemaName, tier string) {
	recoveryTotal.WithLabelValues(schemaName, tier).Inc()
}
