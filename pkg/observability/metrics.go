package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/redline/pkg/domain"
)

// Metrics holds the Redline collectors and the registry they live in.
type Metrics struct {
	Registry *prometheus.Registry

	SessionsStarted  prometheus.Counter
	SessionOutcomes  *prometheus.CounterVec
	SubmitRejections *prometheus.CounterVec
	ReviewDuration   prometheus.Histogram
}

// NewMetrics creates and registers the Redline collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redline_sessions_started_total",
			Help: "Total number of review sessions started",
		}),
		SessionOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redline_session_outcomes_total",
				Help: "Terminal review session outcomes",
			},
			[]string{"status"},
		),
		SubmitRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redline_submit_rejections_total",
				Help: "Submissions rejected at the transport boundary",
			},
			[]string{"reason"},
		),
		ReviewDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "redline_review_duration_seconds",
			Help:    "Wall time from session creation to resolution",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
	m.Registry.MustRegister(m.SessionsStarted, m.SessionOutcomes, m.SubmitRejections, m.ReviewDuration)
	return m
}

// ObserveOutcome records a terminal session status.
func (m *Metrics) ObserveOutcome(status domain.SessionStatus) {
	m.SessionOutcomes.WithLabelValues(string(status)).Inc()
}
