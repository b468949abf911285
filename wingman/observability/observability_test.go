package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSession(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		duration float64
	}{
		{"successful session", "success", 1.5},
		{"failed session", "error", 0.2},
		{"zero duration", "success", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Should not panic
			RecordSession(tt.status, tt.duration)

			count := testutil.ToFloat64(sessionExecutionsTotal.WithLabelValues(tt.status))
			assert.Greater(t, count, 0.0)
		})
	}
}

func TestRecordCrewRun(t *testing.T) {
	RecordCrewRun("ai_wingman_crew", "success", 12.0)
	count := testutil.ToFloat64(crewRunsTotal.WithLabelValues("ai_wingman_crew", "success"))
	assert.Greater(t, count, 0.0)
}

func TestRecordLocatorMatch(t *testing.T) {
	for _, shape := range []string{"task_results", "tasks", "direct", "list", "text", "none"} {
		RecordLocatorMatch(shape)
		count := testutil.ToFloat64(locatorMatchesTotal.WithLabelValues(shape))
		assert.Greater(t, count, 0.0)
	}
}

func TestRecordRecovery(t *testing.T) {
	for _, tier := range []string{"empty", "strict", "pattern", "default", "failed"} {
		RecordRecovery("emotion_analysis", tier)
		count := testutil.ToFloat64(recoveryTotal.WithLabelValues("emotion_analysis", tier))
		assert.Greater(t, count, 0.0)
	}
}
