package authz

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains authorization decision metrics.
type Metrics struct {
	// decisionTotal counts decisions by level, predicate and outcome.
	decisionTotal *prometheus.CounterVec
}

// NewMetrics creates decision metrics registered on registerer.
// A nil registerer falls back to prometheus.DefaultRegisterer.
func NewMetrics(namespace string, registerer prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "yamdb"
	}
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		decisionTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "authz",
				Name:      "decision_total",
				Help:      "Total number of authorization decisions",
			},
			[]string{"level", "predicate", "decision"},
		),
	}

	m.decisionTotal = registerOrReuse(registerer, m.decisionTotal)
	return m
}

// registerOrReuse returns the collector already registered under the same
// descriptor, so a second Metrics on one registry shares the exported series.
func registerOrReuse[C prometheus.Collector](registerer prometheus.Registerer, c C) C {
	err := registerer.Register(c)
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	return c
}

// RecordDecision records a single decision.
func (m *Metrics) RecordDecision(level Level, predicate string, allowed bool) {
	if m == nil || m.decisionTotal == nil {
		return
	}
	decision := "denied"
	if allowed {
		decision = "allowed"
	}
	m.decisionTotal.WithLabelValues(string(level), predicate, decision).Inc()
}
