// Package seeder fills a fresh deployment with a demo estate through the
// public service operations, so seeded data obeys the same rules as live data.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	accountsmodels "estate-ledger/internal/accounts/models"
	accountsservice "estate-ledger/internal/accounts/service"
	"estate-ledger/internal/ledger/models"
	ledgerservice "estate-ledger/internal/ledger/service"
	id "estate-ledger/pkg/domain"
	"estate-ledger/pkg/platform/middleware/requesttime"
	"estate-ledger/pkg/requestcontext"
)

type Accounts interface {
	Register(ctx context.Context, cmd *accountsservice.RegisterCommand) (*accountsmodels.Membership, error)
	ResolvePrincipal(ctx context.Context, userID id.UserID) (*requestcontext.Principal, error)
}

type Ledger interface {
	AddTenant(ctx context.Context, p *requestcontext.Principal, cmd *ledgerservice.AddTenantCommand) (*models.Tenant, error)
	CreateIssue(ctx context.Context, p *requestcontext.Principal, cmd *ledgerservice.CreateIssueCommand) (*models.IssueBroadcast, error)
	ListUnpaidDues(ctx context.Context, p *requestcontext.Principal) ([]*models.UnpaidDue, error)
	SettlePayment(ctx context.Context, p *requestcontext.Principal, cmd *ledgerservice.SettlePaymentCommand) (*models.Payment, error)
	RecordExpense(ctx context.Context, p *requestcontext.Principal, cmd *ledgerservice.RecordExpenseCommand) (*models.Expense, error)
}

// Summary reports what SeedDemo created.
type Summary struct {
	EstateID    id.EstateID
	AdminID     id.UserID
	Admin       string
	Tenants     int
	DuesCreated int
	Settled     int
	Expenses    int
}

type Seeder struct {
	accounts Accounts
	ledger   Ledger
	logger   *slog.Logger
}

func New(accounts Accounts, ledger Ledger, logger *slog.Logger) *Seeder {
	return &Seeder{accounts: accounts, ledger: ledger, logger: logger}
}

// DemoAdmin is the username SeedDemo registers.
const DemoAdmin = "greenview-admin"

var demoTenants = []ledgerservice.AddTenantCommand{
	{FullName: "Adaeze Okafor", HouseNumber: "1A"},
	{FullName: "Bayo Adeyemi", HouseNumber: "2B"},
	{FullName: "Chinwe Eze", HouseNumber: "3C"},
}

var demoExpenses = []ledgerservice.RecordExpenseCommand{
	{Category: models.ExpenseSecuritySalary, Amount: decimal.NewFromInt(300), Description: "March guards"},
	{Category: models.ExpenseDiesel, Amount: decimal.RequireFromString("120.50"), Description: "Generator"},
}

// SeedDemo registers the Greenview estate with three tenants, broadcasts a
// security fee, settles the first tenant's due and records two expenses.
// Running it twice fails with a conflict on the admin username.
func (s *Seeder) SeedDemo(ctx context.Context, password string) (*Summary, error) {
	s.logger.InfoContext(ctx, "seeding demo data")

	membership, err := s.accounts.Register(ctx, &accountsservice.RegisterCommand{
		Username:      DemoAdmin,
		Email:         "admin@greenview.example.com",
		Password:      password,
		EstateName:    "Greenview",
		EstateAddress: "14 Palm Avenue",
	})
	if err != nil {
		return nil, fmt.Errorf("register demo estate: %w", err)
	}
	admin, err := s.accounts.ResolvePrincipal(ctx, membership.User.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve demo admin: %w", err)
	}
	summary := &Summary{EstateID: admin.EstateID, AdminID: admin.UserID, Admin: DemoAdmin}

	for i := range demoTenants {
		if _, err := s.ledger.AddTenant(ctx, admin, &demoTenants[i]); err != nil {
			return nil, fmt.Errorf("add tenant %q: %w", demoTenants[i].FullName, err)
		}
		summary.Tenants++
	}

	broadcast, err := s.ledger.CreateIssue(ctx, admin, &ledgerservice.CreateIssueCommand{
		Title:       "Security Fee",
		Amount:      decimal.NewFromInt(500),
		Description: "Monthly security levy",
	})
	if err != nil {
		return nil, fmt.Errorf("broadcast demo issue: %w", err)
	}
	summary.DuesCreated = broadcast.DuesCreated

	dues, err := s.ledger.ListUnpaidDues(ctx, admin)
	if err != nil {
		return nil, fmt.Errorf("list demo dues: %w", err)
	}
	if len(dues) > 0 {
		first := dues[0]
		if _, err := s.ledger.SettlePayment(ctx, admin, &ledgerservice.SettlePaymentCommand{
			TenantID: first.TenantID,
			DueID:    first.DueID,
			Amount:   first.AmountDue,
			Category: "security",
			Date:     requesttime.Today(ctx),
		}); err != nil {
			return nil, fmt.Errorf("settle demo due: %w", err)
		}
		summary.Settled++
	}

	for i := range demoExpenses {
		if _, err := s.ledger.RecordExpense(ctx, admin, &demoExpenses[i]); err != nil {
			return nil, fmt.Errorf("record demo expense: %w", err)
		}
		summary.Expenses++
	}

	s.logger.InfoContext(ctx, "demo data seeded",
		"estate_id", summary.EstateID,
		"admin", summary.Admin,
		"tenants", summary.Tenants,
		"dues", summary.DuesCreated,
	)
	return summary, nil
}
