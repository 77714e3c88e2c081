package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for account operations.
type Metrics struct {
	EstatesRegistered prometheus.Counter
	MembersAdded      prometheus.Counter
	Logins            *prometheus.CounterVec
	Logouts           prometheus.Counter
	TRLWriteFailures  prometheus.Counter
}

// New registers account collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EstatesRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "estate_ledger_estates_registered_total",
			Help: "Total number of estates registered with an admin account",
		}),
		MembersAdded: f.NewCounter(prometheus.CounterOpts{
			Name: "estate_ledger_members_added_total",
			Help: "Total number of non-admin accounts created",
		}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "estate_ledger_logins_total",
			Help: "Login attempts, labeled by outcome",
		}, []string{"outcome"}),
		Logouts: f.NewCounter(prometheus.CounterOpts{
			Name: "estate_ledger_logouts_total",
			Help: "Total number of tokens revoked by logout",
		}),
		TRLWriteFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "estate_ledger_trl_write_failures_total",
			Help: "Failed writes to the token revocation list",
		}),
	}
}

func (m *Metrics) IncrementLogin(succeeded bool) {
	outcome := "failure"
	if succeeded {
		outcome = "success"
	}
	m.Logins.WithLabelValues(outcome).Inc()
}
