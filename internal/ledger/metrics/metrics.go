package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Settlement outcomes used as the "outcome" label.
const (
	OutcomeSettled        = "settled"
	OutcomeAlreadySettled = "already_settled"
	OutcomeNotFound       = "not_found"
	OutcomeRejected       = "rejected"
	OutcomeError          = "error"
)

// Metrics holds Prometheus collectors for the ledger core.
type Metrics struct {
	IssuesCreated    prometheus.Counter
	DuesFannedOut    prometheus.Counter
	FanOutSize       prometheus.Histogram
	Settlements      *prometheus.CounterVec
	SettleLatency    prometheus.Histogram
	TenantsAdded     prometheus.Counter
	ExpensesRecorded *prometheus.CounterVec
}

// New registers ledger collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		IssuesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "estate_ledger_payment_issues_created_total",
			Help: "Total number of payment issues broadcast",
		}),
		DuesFannedOut: f.NewCounter(prometheus.CounterOpts{
			Name: "estate_ledger_dues_created_total",
			Help: "Total number of tenant payment dues created by broadcasts",
		}),
		FanOutSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "estate_ledger_issue_fanout_size",
			Help:    "Number of dues created per broadcast",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		Settlements: f.NewCounterVec(prometheus.CounterOpts{
			Name: "estate_ledger_settlements_total",
			Help: "Payment settlement attempts, labeled by outcome",
		}, []string{"outcome"}),
		SettleLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "estate_ledger_settle_duration_seconds",
			Help:    "Duration of payment settlement including lock wait",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		TenantsAdded: f.NewCounter(prometheus.CounterOpts{
			Name: "estate_ledger_tenants_added_total",
			Help: "Total number of tenants enrolled",
		}),
		ExpensesRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "estate_ledger_expenses_recorded_total",
			Help: "Total number of expenses recorded, labeled by category",
		}, []string{"category"}),
	}
}

func (m *Metrics) ObserveBroadcast(dues int) {
	m.IssuesCreated.Inc()
	m.DuesFannedOut.Add(float64(dues))
	m.FanOutSize.Observe(float64(dues))
}

func (m *Metrics) ObserveSettlement(outcome string, start time.Time) {
	m.Settlements.WithLabelValues(outcome).Inc()
	m.SettleLatency.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementTenantsAdded() {
	m.TenantsAdded.Inc()
}

func (m *Metrics) IncrementExpenseRecorded(category string) {
	m.ExpensesRecorded.WithLabelValues(category).Inc()
}
