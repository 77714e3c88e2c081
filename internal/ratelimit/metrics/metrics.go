package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions    *prometheus.CounterVec
	Fallbacks    prometheus.Counter
	BreakerState prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "estate_ledger_ratelimit_decisions_total",
			Help: "Rate limit decisions, labeled by endpoint class and outcome",
		}, []string{"class", "outcome"}),
		Fallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "estate_ledger_ratelimit_fallback_total",
			Help: "Checks answered by the in-memory store because the shared store failed or its breaker was open",
		}),
		BreakerState: f.NewGauge(prometheus.GaugeOpts{
			Name: "estate_ledger_ratelimit_breaker_open",
			Help: "1 while the shared rate limit store breaker is open",
		}),
	}
}

// RecordDecision is nil-safe, as are the other recorders.
func (m *Metrics) RecordDecision(class string, allowed bool) {
	if m == nil {
		return
	}
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	m.Decisions.WithLabelValues(class, outcome).Inc()
}

func (m *Metrics) RecordFallback() {
	if m == nil {
		return
	}
	m.Fallbacks.Inc()
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerState.Set(1)
		return
	}
	m.BreakerState.Set(0)
}
