package service

import (
	"context"
	"errors"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"estate-ledger/internal/ledger/models"
	"estate-ledger/internal/ledger/store"
	dErrors "estate-ledger/pkg/domain-errors"
)

// faultyDueStore writes half of a fan-out batch and then fails, the way a
// connection drop mid-insert would.
type faultyDueStore struct {
	*store.InMemoryStore
}

func (f *faultyDueStore) CreateDues(ctx context.Context, dues []*models.TenantPaymentDue) error {
	if err := f.InMemoryStore.CreateDues(ctx, dues[:len(dues)/2]); err != nil {
		return err
	}
	return errors.New("connection reset by peer")
}

func (s *LedgerServiceSuite) TestCreateIssueFansOutOneDuePerTenant() {
	names := []string{"Ada", "Bola", "Chidi", "Dayo", "Efe"}
	for _, n := range names {
		s.addTenant(s.admin, n)
	}

	result := s.broadcast(s.admin, "Security Fee - April", "500")
	s.Equal(len(names), result.DuesCreated)

	dues, err := s.svc.ListUnpaidDues(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Require().Len(dues, len(names))
	seen := map[string]bool{}
	for _, d := range dues {
		s.Equal(result.Issue.ID, d.IssueID)
		s.Equal("500.00", d.AmountDue.StringFixed(2))
		s.False(seen[d.TenantID.String()], "one due per tenant")
		seen[d.TenantID.String()] = true
	}

	s.Equal(float64(1), promtestutil.ToFloat64(s.metrics.IssuesCreated))
	s.Equal(float64(len(names)), promtestutil.ToFloat64(s.metrics.DuesFannedOut))
}

func (s *LedgerServiceSuite) TestCreateIssueWithNoTenants() {
	result := s.broadcast(s.admin, "Diesel levy", "250.50")
	s.Equal(0, result.DuesCreated)

	issues, err := s.svc.ListIssues(s.ctx, s.member)
	s.Require().NoError(err)
	s.Len(issues, 1)
}

func (s *LedgerServiceSuite) TestCreateIssueDoesNotReachOtherEstates() {
	s.addTenant(s.admin, "Ada")
	other := s.otherEstateAdmin()
	s.addTenant(other, "Zed")

	result := s.broadcast(s.admin, "Security Fee", "500")
	s.Equal(1, result.DuesCreated)

	dues, err := s.svc.ListUnpaidDues(s.ctx, other)
	s.Require().NoError(err)
	s.Empty(dues)
}

func (s *LedgerServiceSuite) TestCreateIssueIsAtomic() {
	for _, n := range []string{"Ada", "Bola", "Chidi", "Dayo"} {
		s.addTenant(s.admin, n)
	}
	faulty := s.newService(&faultyDueStore{InMemoryStore: s.store})

	_, err := faulty.CreateIssue(s.ctx, s.admin, &CreateIssueCommand{Title: "Security Fee", Amount: amount("500")})
	s.requireCode(err, dErrors.CodeInternal)

	issues, err := s.svc.ListIssues(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Empty(issues, "issue is rolled back with its dues")
	dues, err := s.svc.ListUnpaidDues(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Empty(dues, "no partial fan-out is visible")
}

func (s *LedgerServiceSuite) TestCreateIssueValidation() {
	_, err := s.svc.CreateIssue(s.ctx, s.admin, &CreateIssueCommand{Title: "", Amount: amount("0")})
	s.requireCode(err, dErrors.CodeValidation)
	fields := s.fields(err)
	s.Equal("is required", fields["title"])
	s.Contains(fields, "amount")

	_, err = s.svc.CreateIssue(s.ctx, s.admin, &CreateIssueCommand{Title: "Fee", Amount: amount("10.125")})
	s.requireCode(err, dErrors.CodeValidation)
}

func (s *LedgerServiceSuite) TestIssuesDoNotTouchBalancesUntilSettlement() {
	t := s.addTenant(s.admin, "Ada")
	s.broadcast(s.admin, "Security Fee", "500")

	got := s.tenant(s.admin, t.ID)
	s.True(got.TotalDue.IsZero())
	s.False(got.IsOwing())
}
