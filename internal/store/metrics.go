package store

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dshills/rewind/internal/engine/action"
)

// Dispatch outcomes used as the "outcome" label.
const (
	OutcomeChanged   = "changed"
	OutcomeUnchanged = "unchanged"
	OutcomePanic     = "panic"
	OutcomeError     = "error"
)

// Metrics collects store statistics as Prometheus collectors.
// A nil *Metrics records nothing.
type Metrics struct {
	dispatches   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	replacements prometheus.Counter
	pastLen      prometheus.Gauge
	futureLen    prometheus.Gauge
}

// NewMetrics creates the store collectors and registers them with reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		dispatches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "dispatches_total",
			Help:      "Total dispatched actions by kind and outcome",
		}, []string{"kind", "outcome"}),

		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent in the reducer per dispatch",
			Buckets:   []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3, 1e-2},
		}, []string{"kind"}),

		replacements: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "reducer_replacements_total",
			Help:      "Total reducer replacements",
		}),

		pastLen: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "past_length",
			Help:      "Number of entries in the past",
		}),

		futureLen: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "future_length",
			Help:      "Number of entries in the future",
		}),
	}
}

func (m *Metrics) recordDispatch(a action.Action, unchanged bool, d time.Duration, err error) {
	if m == nil {
		return
	}
	kind := a.Kind.String()

	outcome := OutcomeChanged
	switch {
	case errors.Is(err, ErrPanic):
		outcome = OutcomePanic
	case err != nil:
		outcome = OutcomeError
	case unchanged:
		outcome = OutcomeUnchanged
	}

	m.dispatches.WithLabelValues(kind, outcome).Inc()
	m.duration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) recordReplace() {
	if m == nil {
		return
	}
	m.replacements.Inc()
}

func (m *Metrics) observe(past, future int) {
	if m == nil {
		return
	}
	m.pastLen.Set(float64(past))
	m.futureLen.Set(float64(future))
}
