package service

import (
	"context"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	ledgermetrics "estate-ledger/internal/ledger/metrics"
	"estate-ledger/internal/ledger/models"
	"estate-ledger/internal/ledger/store"
	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/sentinel"
	"estate-ledger/pkg/testutil"
)

func (s *LedgerServiceSuite) TestGreenviewScenario() {
	a := s.addTenant(s.admin, "Tenant A")
	b := s.addTenant(s.admin, "Tenant B")
	s.addTenant(s.admin, "Tenant C")

	result := s.broadcast(s.admin, "Security Fee", "500")
	s.Require().Equal(3, result.DuesCreated)
	unpaid, err := s.svc.ListUnpaidDues(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Require().Len(unpaid, 3)
	for _, d := range unpaid {
		s.Equal("500.00", id.FormatMoney(d.AmountDue))
	}

	dueA := s.dueOf(s.admin, a.ID, result.Issue.ID)
	payment, err := s.svc.SettlePayment(s.ctx, s.admin, settleCmd(a.ID, dueA, "500"))
	s.Require().NoError(err)
	s.Equal(dueA, payment.DueID)
	s.Equal(a.ID, payment.TenantID)
	s.Require().NotNil(payment.IssueID)
	s.Equal(result.Issue.ID, *payment.IssueID)
	s.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), payment.Date)

	tenantA := s.tenant(s.admin, a.ID)
	s.Equal("500.00", id.FormatMoney(tenantA.TotalPaid))
	s.Equal("500.00", id.FormatMoney(tenantA.TotalDue))
	s.False(tenantA.IsOwing())
	s.False(tenantA.Owing)

	unpaid, _ = s.svc.ListUnpaidDues(s.ctx, s.admin)
	s.Len(unpaid, 2)

	for _, value := range []string{"500", "200"} {
		_, err = s.svc.SettlePayment(s.ctx, s.admin, settleCmd(a.ID, dueA, value))
		s.requireCode(err, dErrors.CodeAlreadySettled)
		s.Equal(alreadySettledMsg, err.Error())
	}

	payments, err := s.svc.ListPayments(s.ctx, s.member)
	s.Require().NoError(err)
	s.Len(payments, 1)
	again := s.tenant(s.admin, a.ID)
	s.True(again.TotalPaid.Equal(tenantA.TotalPaid))
	s.True(again.TotalDue.Equal(tenantA.TotalDue))

	tenantB := s.tenant(s.admin, b.ID)
	s.True(tenantB.TotalPaid.IsZero())

	s.Equal(float64(1), promtestutil.ToFloat64(s.metrics.Settlements.WithLabelValues(ledgermetrics.OutcomeSettled)))
	s.Equal(float64(2), promtestutil.ToFloat64(s.metrics.Settlements.WithLabelValues(ledgermetrics.OutcomeAlreadySettled)))
}

func (s *LedgerServiceSuite) TestSettlementIsIdempotentUnderConcurrency() {
	t := s.addTenant(s.admin, "Ada")
	issue := s.broadcast(s.admin, "Security Fee", "500").Issue
	due := s.dueOf(s.admin, t.ID, issue.ID)

	const attempts = 12
	result := testutil.RunConcurrent(attempts, func(int) error {
		_, err := s.svc.SettlePayment(s.ctx, s.admin, settleCmd(t.ID, due, "500"))
		return err
	})
	s.Equal(int32(1), result.Successes)
	s.Equal(int32(attempts-1), result.Conflicts)
	s.Zero(result.Errors)

	payments, err := s.svc.ListPayments(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Len(payments, 1)
	s.Equal("500.00", id.FormatMoney(s.tenant(s.admin, t.ID).TotalPaid))
}

func (s *LedgerServiceSuite) TestConcurrentSettlementsOfOneTenantKeepBalanceConsistent() {
	t := s.addTenant(s.admin, "Ada")
	var dues []id.DueID
	for _, title := range []string{"Security Fee", "Diesel levy", "Sanitation", "Water"} {
		issue := s.broadcast(s.admin, title, "250").Issue
		dues = append(dues, s.dueOf(s.admin, t.ID, issue.ID))
	}

	result := testutil.RunConcurrent(len(dues), func(i int) error {
		_, err := s.svc.SettlePayment(s.ctx, s.admin, settleCmd(t.ID, dues[i], "250"))
		return err
	})
	s.Equal(int32(len(dues)), result.Successes)

	got := s.tenant(s.admin, t.ID)
	s.Equal("1000.00", id.FormatMoney(got.TotalPaid))
	s.Equal("1000.00", id.FormatMoney(got.TotalDue))
	s.False(got.IsOwing())
}

func (s *LedgerServiceSuite) TestBalanceConsistency() {
	t := s.addTenant(s.admin, "Ada")
	first := s.broadcast(s.admin, "Security Fee", "500").Issue
	second := s.broadcast(s.admin, "Diesel levy", "300").Issue

	_, err := s.svc.SettlePayment(s.ctx, s.admin, settleCmd(t.ID, s.dueOf(s.admin, t.ID, first.ID), "200"))
	s.Require().NoError(err)
	got := s.tenant(s.admin, t.ID)
	s.Equal("200.00", id.FormatMoney(got.TotalPaid))
	s.Equal("800.00", id.FormatMoney(got.TotalDue))
	s.True(got.IsOwing())
	s.Equal(got.IsOwing(), got.Owing)

	_, err = s.svc.SettlePayment(s.ctx, s.admin, settleCmd(t.ID, s.dueOf(s.admin, t.ID, second.ID), "600"))
	s.Require().NoError(err)
	got = s.tenant(s.admin, t.ID)
	s.Equal("800.00", id.FormatMoney(got.TotalPaid))
	s.False(got.IsOwing())
	s.Equal(got.IsOwing(), got.Owing)
}

func (s *LedgerServiceSuite) TestCrossTenantIsolation() {
	x := s.addTenant(s.admin, "Tenant X")
	y := s.addTenant(s.admin, "Tenant Y")
	issue := s.broadcast(s.admin, "Security Fee", "500").Issue
	dueX := s.dueOf(s.admin, x.ID, issue.ID)
	dueY := s.dueOf(s.admin, y.ID, issue.ID)

	s.Run("a due cannot be settled through another tenant", func() {
		_, err := s.svc.SettlePayment(s.ctx, s.admin, settleCmd(y.ID, dueX, "500"))
		s.requireCode(err, dErrors.CodeNotFound)
		s.Equal("payment due not found", err.Error())
	})

	s.Run("another estate cannot settle the due", func() {
		_, err := s.svc.SettlePayment(s.ctx, s.otherEstateAdmin(), settleCmd(x.ID, dueX, "500"))
		s.requireCode(err, dErrors.CodeNotFound)
		s.Equal("tenant not found", err.Error())
	})

	s.Run("concurrent settlement of X leaves Y untouched", func() {
		result := testutil.RunConcurrent(6, func(int) error {
			_, err := s.svc.SettlePayment(s.ctx, s.admin, settleCmd(x.ID, dueX, "500"))
			return err
		})
		s.Equal(int32(1), result.Successes)

		gotY := s.tenant(s.admin, y.ID)
		s.True(gotY.TotalPaid.IsZero())
		s.True(gotY.TotalDue.IsZero())
		s.Equal(dueY, s.dueOf(s.admin, y.ID, issue.ID), "Y's due is still unpaid")
	})
}

func (s *LedgerServiceSuite) TestSettlePaymentValidation() {
	_, err := s.svc.SettlePayment(s.ctx, s.admin, &SettlePaymentCommand{Amount: amount("0")})
	s.requireCode(err, dErrors.CodeValidation)
	fields := s.fields(err)
	for _, f := range []string{"tenant", "payment_due_id", "amount", "category", "date"} {
		s.Contains(fields, f)
	}

	_, err = s.svc.SettlePayment(s.ctx, s.admin, settleCmd(id.NewTenantID(), id.NewDueID(), "500"))
	s.requireCode(err, dErrors.CodeNotFound)
	s.Equal(float64(1), promtestutil.ToFloat64(s.metrics.Settlements.WithLabelValues(ledgermetrics.OutcomeRejected)))
}

func (s *LedgerServiceSuite) TestSettlementRollsBackWhenBalanceUpdateFails() {
	t := s.addTenant(s.admin, "Ada")
	issue := s.broadcast(s.admin, "Security Fee", "500").Issue
	due := s.dueOf(s.admin, t.ID, issue.ID)

	faulty := s.newService(&faultyTotalsStore{InMemoryStore: s.store})
	_, err := faulty.SettlePayment(s.ctx, s.admin, settleCmd(t.ID, due, "500"))
	s.requireCode(err, dErrors.CodeNotFound)

	payments, _ := s.svc.ListPayments(s.ctx, s.admin)
	s.Empty(payments)
	s.Equal(due, s.dueOf(s.admin, t.ID, issue.ID), "due stays unpaid")
}

// faultyTotalsStore loses the tenant row between lock and update.
type faultyTotalsStore struct {
	*store.InMemoryStore
}

func (f *faultyTotalsStore) UpdateTenantTotals(context.Context, *models.Tenant) error {
	return sentinel.ErrNotFound
}

func (s *LedgerServiceSuite) TestRecomputeRequiresTransaction() {
	t := s.addTenant(s.admin, "Ada")

	_, err := s.svc.balances.Recompute(s.ctx, t.ID)
	s.requireCode(err, dErrors.CodeInternal)
	s.ErrorIs(err, sentinel.ErrNoTx)

	err = s.store.RunInTx(s.ctx, func(txCtx context.Context) error {
		_, err := s.svc.balances.Recompute(txCtx, t.ID)
		return err
	})
	s.NoError(err)
}
