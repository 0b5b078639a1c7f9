// Package metrics counts scoring activity for prometheus.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so several instances can coexist, e.g. in tests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ballsRecorded     *prometheus.CounterVec
	rejected          *prometheus.CounterVec
	inningsCompleted  *prometheus.CounterVec
	matchesInProgress prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ballsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scorebook",
			Name:      "balls_recorded_total",
			Help:      "Deliveries accepted, by innings number.",
		}, []string{"innings"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scorebook",
			Name:      "submissions_rejected_total",
			Help:      "Scoring operations rejected, by error kind.",
		}, []string{"reason"}),
		inningsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scorebook",
			Name:      "innings_completed_total",
			Help:      "Innings closed, by completion reason.",
		}, []string{"reason"}),
		matchesInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scorebook",
			Name:      "matches_loaded",
			Help:      "Matches currently held in memory by the scoring service.",
		}),
	}
	m.registry.MustRegister(
		m.ballsRecorded,
		m.rejected,
		m.inningsCompleted,
		m.matchesInProgress,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) BallRecorded(inningsNumber int) {
	if m == nil {
		return
	}
	m.ballsRecorded.WithLabelValues(strconv.Itoa(inningsNumber)).Inc()
}

func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) InningsCompleted(reason string) {
	if m == nil {
		return
	}
	m.inningsCompleted.WithLabelValues(reason).Inc()
}

// SetMatchesLoaded reports the size of the in-memory match cache.
func (m *Metrics) SetMatchesLoaded(n int) {
	if m == nil {
		return
	}
	m.matchesInProgress.Set(float64(n))
}

// Handler serves the /metrics scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
