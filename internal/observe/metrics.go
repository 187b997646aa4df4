package observe

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRecorder counts outcomes and their latency in Prometheus.
type MetricsRecorder struct {
	outcomes *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetricsRecorder registers the session metrics on reg.
func NewMetricsRecorder(reg prometheus.Registerer) *MetricsRecorder {
	m := &MetricsRecorder{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signin_screen_outcomes_total",
			Help: "Session action outcomes by action and result",
		}, []string{"action", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signin_screen_action_duration_seconds",
			Help:    "Time from user action to provider completion",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"action"}),
	}

	reg.MustRegister(m.outcomes, m.latency)
	return m
}

// Record implements Recorder.
func (m *MetricsRecorder) Record(_ context.Context, o Outcome) {
	m.outcomes.WithLabelValues(string(o.Action), o.Result).Inc()
	m.latency.WithLabelValues(string(o.Action)).Observe(o.Duration.Seconds())
}
