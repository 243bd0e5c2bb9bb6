package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/logstate/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "logstate"

// DiagnosticsSource is the read side of the controller used by the gauges.
type DiagnosticsSource interface {
	Diagnostics() (domain.Record, error)
}

// DiagnosticsFunc adapts a function to DiagnosticsSource.
type DiagnosticsFunc func() (domain.Record, error)

func (f DiagnosticsFunc) Diagnostics() (domain.Record, error) { return f() }

// Metrics records controller activity.
type Metrics struct {
	operations *prometheus.CounterVec
	changes    *prometheus.CounterVec
}

// NewMetrics registers the controller metrics on reg.
// The calls and active gauges are computed from src at scrape time.
func NewMetrics(reg prometheus.Registerer, src DiagnosticsSource) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "operations_total",
				Help:      "Total number of controller operations by outcome.",
			},
			[]string{"operation", "success"},
		),
		changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "state_changes_total",
				Help:      "Total number of operations that modified the logging state.",
			},
			[]string{"operation"},
		),
	}

	calls := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "calls",
			Help:      "Controller call counter (start, stop and status invocations).",
		},
		func() float64 {
			rec, err := src.Diagnostics()
			if err != nil {
				return -1
			}
			return float64(rec.CallCount)
		},
	)
	active := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active",
			Help:      "1 while a logging session is active.",
		},
		func() float64 {
			rec, err := src.Diagnostics()
			if err != nil || !rec.Active {
				return 0
			}
			return 1
		},
	)

	reg.MustRegister(m.operations, m.changes, calls, active)
	return m
}

// Observe records one transition event.
func (m *Metrics) Observe(e *domain.TransitionEvent) {
	m.operations.WithLabelValues(string(e.Operation), strconv.FormatBool(e.Result.Success)).Inc()
	if e.Changed() {
		m.changes.WithLabelValues(string(e.Operation)).Inc()
	}
}

// Hooks returns controller hooks feeding the metrics.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Observe(e)
		},
	}
}
