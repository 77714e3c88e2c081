package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"estate-ledger/internal/ledger/models"
	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store  *InMemoryStore
	ctx    context.Context
	now    time.Time
	estate id.EstateID
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory(0)
	s.ctx = context.Background()
	s.now = time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	s.estate = id.NewEstateID()
}

func (s *InMemoryStoreSuite) addTenant(estate id.EstateID, name string) *models.Tenant {
	t, err := models.NewTenant(id.NewTenantID(), estate, name, "", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateTenant(s.ctx, t))
	return t
}

func (s *InMemoryStoreSuite) addIssue(amount string) *models.PaymentIssue {
	issue, err := models.NewPaymentIssue(id.NewIssueID(), s.estate, "Security Fee", decimal.RequireFromString(amount), "", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateIssue(s.ctx, issue))
	return issue
}

func (s *InMemoryStoreSuite) TestLocksRequireTransaction() {
	tenant := s.addTenant(s.estate, "Ada")
	issue := s.addIssue("100")
	due := models.NewDue(id.NewDueID(), tenant.ID, issue, s.now)
	s.Require().NoError(s.store.CreateDues(s.ctx, []*models.TenantPaymentDue{due}))

	_, err := s.store.LockDue(s.ctx, tenant.ID, due.ID)
	s.ErrorIs(err, sentinel.ErrNoTx)
	_, err = s.store.LockTenant(s.ctx, tenant.ID)
	s.ErrorIs(err, sentinel.ErrNoTx)

	err = s.store.RunInTx(s.ctx, func(txCtx context.Context) error {
		locked, err := s.store.LockDue(txCtx, tenant.ID, due.ID)
		s.Require().NoError(err)
		s.Equal(due.ID, locked.ID)
		_, err = s.store.LockTenant(txCtx, tenant.ID)
		return err
	})
	s.NoError(err)
}

func (s *InMemoryStoreSuite) TestLockDueIsScopedToTenant() {
	owner := s.addTenant(s.estate, "Ada")
	other := s.addTenant(s.estate, "Bola")
	issue := s.addIssue("100")
	due := models.NewDue(id.NewDueID(), owner.ID, issue, s.now)
	s.Require().NoError(s.store.CreateDues(s.ctx, []*models.TenantPaymentDue{due}))

	err := s.store.RunInTx(s.ctx, func(txCtx context.Context) error {
		_, err := s.store.LockDue(txCtx, other.ID, due.ID)
		return err
	})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestRunInTxRollsBackOnError() {
	boom := errors.New("boom")
	err := s.store.RunInTx(s.ctx, func(txCtx context.Context) error {
		t, _ := models.NewTenant(id.NewTenantID(), s.estate, "Ada", "", s.now)
		s.Require().NoError(s.store.CreateTenant(txCtx, t))
		return boom
	})
	s.ErrorIs(err, boom)

	tenants, err := s.store.ListTenants(s.ctx, s.estate)
	s.Require().NoError(err)
	s.Empty(tenants)
}

func (s *InMemoryStoreSuite) TestUncommittedWorkIsInvisibleOutsideTx() {
	ada := s.addTenant(s.estate, "Ada")
	boom := errors.New("boom")

	broadcast := func(txCtx context.Context) *models.PaymentIssue {
		issue, err := models.NewPaymentIssue(id.NewIssueID(), s.estate, "Diesel", decimal.RequireFromString("250"), "", s.now)
		s.Require().NoError(err)
		s.Require().NoError(s.store.CreateIssue(txCtx, issue))
		s.Require().NoError(s.store.CreateDues(txCtx, []*models.TenantPaymentDue{
			models.NewDue(id.NewDueID(), ada.ID, issue, s.now),
		}))
		return issue
	}
	visible := func(ctx context.Context) (int, int) {
		issues, err := s.store.ListIssues(ctx, s.estate)
		s.Require().NoError(err)
		dues, err := s.store.ListUnpaidDues(ctx, s.estate)
		s.Require().NoError(err)
		return len(issues), len(dues)
	}

	s.Run("rolled back", func() {
		err := s.store.RunInTx(s.ctx, func(txCtx context.Context) error {
			broadcast(txCtx)

			issues, dues := visible(txCtx)
			s.Equal(1, issues, "the transaction reads its own writes")
			s.Equal(1, dues)

			var outsideIssues, outsideDues int
			done := make(chan struct{})
			go func() {
				defer close(done)
				outsideIssues, outsideDues = visible(s.ctx)
			}()
			<-done
			s.Zero(outsideIssues)
			s.Zero(outsideDues)
			return boom
		})
		s.ErrorIs(err, boom)

		issues, dues := visible(s.ctx)
		s.Zero(issues)
		s.Zero(dues)
	})

	s.Run("committed", func() {
		s.Require().NoError(s.store.RunInTx(s.ctx, func(txCtx context.Context) error {
			broadcast(txCtx)
			totals, err := s.store.EstateTotals(s.ctx, s.estate)
			s.Require().NoError(err)
			s.True(totals.Outstanding.IsZero())
			return nil
		}))

		issues, dues := visible(s.ctx)
		s.Equal(1, issues)
		s.Equal(1, dues)
		totals, err := s.store.EstateTotals(s.ctx, s.estate)
		s.Require().NoError(err)
		s.Equal("250.00", id.FormatMoney(totals.Outstanding))
	})
}

func (s *InMemoryStoreSuite) TestNestedRunInTxJoinsOuter() {
	boom := errors.New("boom")
	err := s.store.RunInTx(s.ctx, func(outer context.Context) error {
		s.Require().NoError(s.store.RunInTx(outer, func(inner context.Context) error {
			t, _ := models.NewTenant(id.NewTenantID(), s.estate, "Ada", "", s.now)
			return s.store.CreateTenant(inner, t)
		}))
		return boom
	})
	s.ErrorIs(err, boom)

	tenants, _ := s.store.ListTenants(s.ctx, s.estate)
	s.Empty(tenants, "inner work is undone with the outer transaction")
}

func (s *InMemoryStoreSuite) TestRunInTxTimesOutWaitingForLock() {
	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = s.store.RunInTx(s.ctx, func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	ctx, cancel := context.WithTimeout(s.ctx, 20*time.Millisecond)
	defer cancel()
	err := s.store.RunInTx(ctx, func(context.Context) error { return nil })
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}

func (s *InMemoryStoreSuite) TestCreateDuesIsAllOrNothing() {
	ada := s.addTenant(s.estate, "Ada")
	bola := s.addTenant(s.estate, "Bola")
	issue := s.addIssue("100")
	s.Require().NoError(s.store.CreateDues(s.ctx, []*models.TenantPaymentDue{
		models.NewDue(id.NewDueID(), ada.ID, issue, s.now),
	}))

	err := s.store.CreateDues(s.ctx, []*models.TenantPaymentDue{
		models.NewDue(id.NewDueID(), bola.ID, issue, s.now),
		models.NewDue(id.NewDueID(), ada.ID, issue, s.now),
	})
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)

	unpaid, err := s.store.ListUnpaidDues(s.ctx, s.estate)
	s.Require().NoError(err)
	s.Len(unpaid, 1)
	s.Equal(ada.ID, unpaid[0].TenantID)
}

func (s *InMemoryStoreSuite) TestCreatePaymentRejectsSecondPaymentForDue() {
	tenant := s.addTenant(s.estate, "Ada")
	issue := s.addIssue("100")
	due := models.NewDue(id.NewDueID(), tenant.ID, issue, s.now)
	s.Require().NoError(s.store.CreateDues(s.ctx, []*models.TenantPaymentDue{due}))

	first, _ := models.NewPayment(id.NewPaymentID(), s.estate, due, decimal.NewFromInt(100), "security", "", s.now, s.now)
	second, _ := models.NewPayment(id.NewPaymentID(), s.estate, due, decimal.NewFromInt(100), "security", "", s.now, s.now)
	s.Require().NoError(s.store.CreatePayment(s.ctx, first))
	s.ErrorIs(s.store.CreatePayment(s.ctx, second), sentinel.ErrAlreadyUsed)

	paid, owed, err := s.store.SumTenantLedger(s.ctx, tenant.ID)
	s.Require().NoError(err)
	s.Equal("100.00", id.FormatMoney(paid))
	s.Equal("100.00", id.FormatMoney(owed))
}

func (s *InMemoryStoreSuite) TestReadsAreCopies() {
	tenant := s.addTenant(s.estate, "Ada")
	found, err := s.store.FindTenant(s.ctx, s.estate, tenant.ID)
	s.Require().NoError(err)
	found.FullName = "changed"

	again, _ := s.store.FindTenant(s.ctx, s.estate, tenant.ID)
	s.Equal("Ada", again.FullName)
}

func (s *InMemoryStoreSuite) TestQueriesAreEstateScoped() {
	s.addTenant(s.estate, "Chidi")
	s.addTenant(s.estate, "Ada")
	foreign := s.addTenant(id.NewEstateID(), "Zed")

	tenants, err := s.store.ListTenants(s.ctx, s.estate)
	s.Require().NoError(err)
	s.Require().Len(tenants, 2)
	s.Equal("Ada", tenants[0].FullName)
	s.Equal("Chidi", tenants[1].FullName)

	_, err = s.store.FindTenant(s.ctx, s.estate, foreign.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestPeriodQueriesAndTotals() {
	tenant := s.addTenant(s.estate, "Ada")
	issue := s.addIssue("300")
	march := models.NewDue(id.NewDueID(), tenant.ID, issue, s.now)
	april := models.NewDue(id.NewDueID(), tenant.ID, s.addIssue("200"), s.now)
	s.Require().NoError(s.store.CreateDues(s.ctx, []*models.TenantPaymentDue{march, april}))

	paidOn := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	payment, _ := models.NewPayment(id.NewPaymentID(), s.estate, march, decimal.NewFromInt(300), "security", "", paidOn, s.now)
	s.Require().NoError(s.store.CreatePayment(s.ctx, payment))
	s.Require().NoError(march.MarkPaid(paidOn))
	s.Require().NoError(s.store.UpdateDue(s.ctx, march))

	expense, _ := models.NewExpense(id.NewExpenseID(), s.estate, models.ExpenseDiesel, "", decimal.NewFromInt(50), id.NewAccountID(), s.now)
	s.Require().NoError(s.store.CreateExpense(s.ctx, expense))

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	paid, _ := s.store.SumPaymentsBetween(s.ctx, s.estate, from, to)
	s.Equal("300.00", id.FormatMoney(paid))
	spent, _ := s.store.SumExpensesBetween(s.ctx, s.estate, from, to)
	s.True(spent.IsZero(), "expense is dated in April")

	aprilPayments, _ := s.store.PaymentsBetween(s.ctx, s.estate, to, to.AddDate(0, 1, 0))
	s.Empty(aprilPayments)
	aprilExpenses, _ := s.store.ExpensesBetween(s.ctx, s.estate, to, to.AddDate(0, 1, 0))
	s.Len(aprilExpenses, 1)

	t, _ := s.store.FindTenant(s.ctx, s.estate, tenant.ID)
	t.ApplyTotals(decimal.NewFromInt(300), decimal.NewFromInt(500))
	s.Require().NoError(s.store.UpdateTenantTotals(s.ctx, t))

	totals, err := s.store.EstateTotals(s.ctx, s.estate)
	s.Require().NoError(err)
	s.Equal("300.00", id.FormatMoney(totals.TotalPayments))
	s.Equal("50.00", id.FormatMoney(totals.TotalExpenses))
	s.Equal("200.00", id.FormatMoney(totals.Outstanding))
	s.Equal("250.00", id.FormatMoney(totals.NetBalance()))
	s.Equal(1, totals.OwingTenants)
}
