package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.BallRecorded(1)
	m.BallRecorded(1)
	m.BallRecorded(2)
	m.Rejected("invalid_state")
	m.InningsCompleted("all_out")
	m.SetMatchesLoaded(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ballsRecorded.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ballsRecorded.WithLabelValues("2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("invalid_state")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inningsCompleted.WithLabelValues("all_out")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.matchesInProgress))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.BallRecorded(1)
		m.Rejected("x")
		m.InningsCompleted("declared")
		m.SetMatchesLoaded(1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.BallRecorded(1)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `scorebook_balls_recorded_total{innings="1"} 1`)
}
