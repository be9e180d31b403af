package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	// OutcomeRejected counts report requests refused before any dispatch.
	OutcomeRejected = "rejected"
)

// Metrics groups the arena collectors. A nil *Metrics records nothing.
type Metrics struct {
	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	reportsTotal     *prometheus.CounterVec
}

// New registers the arena collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		dispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arena_dispatch_total",
				Help: "Total number of completion requests sent to models",
			},
			[]string{"model", "outcome"},
		),
		dispatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arena_dispatch_duration_seconds",
				Help:    "Latency of completion requests",
				Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
			},
			[]string{"model"},
		),
		reportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arena_reports_total",
				Help: "Total number of judgement reports produced",
			},
			[]string{"outcome"},
		),
	}
}

func (m *Metrics) ObserveDispatch(model string, failed bool, latency time.Duration) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(model, outcome(failed)).Inc()
	m.dispatchDuration.WithLabelValues(model).Observe(latency.Seconds())
}

func (m *Metrics) ObserveReport(outcome string) {
	if m == nil {
		return
	}
	m.reportsTotal.WithLabelValues(outcome).Inc()
}

func outcome(failed bool) string {
	if failed {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
