package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	ledgermetrics "estate-ledger/internal/ledger/metrics"
	"estate-ledger/internal/ledger/models"
	id "estate-ledger/pkg/domain"
	"estate-ledger/pkg/platform/tracer"
)

// TenantStore persists tenants and their balance accumulators.
type TenantStore interface {
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
	// FindTenant returns sentinel.ErrNotFound when the tenant is not in the estate.
	FindTenant(ctx context.Context, estateID id.EstateID, tenantID id.TenantID) (*models.Tenant, error)
	ListTenants(ctx context.Context, estateID id.EstateID) ([]*models.Tenant, error)
	// LockTenant takes an exclusive row lock and fails with sentinel.ErrNoTx outside a transaction.
	LockTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	// SumTenantLedger returns Σ payments.amount and Σ dues.amount_due for the tenant.
	SumTenantLedger(ctx context.Context, tenantID id.TenantID) (totalPaid, totalDue decimal.Decimal, err error)
	UpdateTenantTotals(ctx context.Context, tenant *models.Tenant) error
}

// IssueStore persists payment issues and the dues fanned out from them.
type IssueStore interface {
	CreateIssue(ctx context.Context, issue *models.PaymentIssue) error
	// CreateDues inserts every due or none; a duplicate (tenant, issue) pair is sentinel.ErrAlreadyUsed.
	CreateDues(ctx context.Context, dues []*models.TenantPaymentDue) error
	ListIssues(ctx context.Context, estateID id.EstateID) ([]*models.PaymentIssue, error)
	// LockDue takes an exclusive lock on the due owned by tenantID and fails with
	// sentinel.ErrNoTx outside a transaction.
	LockDue(ctx context.Context, tenantID id.TenantID, dueID id.DueID) (*models.TenantPaymentDue, error)
	UpdateDue(ctx context.Context, due *models.TenantPaymentDue) error
	ListUnpaidDues(ctx context.Context, estateID id.EstateID) ([]*models.UnpaidDue, error)
}

// PaymentStore persists payments. A second payment for one due is sentinel.ErrAlreadyUsed.
type PaymentStore interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	ListPayments(ctx context.Context, estateID id.EstateID) ([]*models.Payment, error)
}

type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *models.Expense) error
	ListExpenses(ctx context.Context, estateID id.EstateID) ([]*models.Expense, error)
}

// StoreTx runs fn as one atomic unit: a database transaction, or the
// in-memory store's copy-on-commit transaction.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store is everything the ledger service needs from persistence, including
// the transactions that make broadcast and settlement atomic.
type Store interface {
	TenantStore
	IssueStore
	PaymentStore
	ExpenseStore
	StoreTx
}

// Service is the ledger core: issue broadcast, payment reconciliation and the
// tenant, expense and query operations around them.
type Service struct {
	store    Store
	tx       StoreTx
	balances *balanceAggregator
	logger   *slog.Logger
	metrics  *ledgermetrics.Metrics
	tracer   tracer.Tracer
}

type serviceConfig struct {
	tx      StoreTx
	logger  *slog.Logger
	metrics *ledgermetrics.Metrics
	tracer  tracer.Tracer
}

type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithMetrics(m *ledgermetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *serviceConfig) {
		c.tracer = t
	}
}

// WithTx replaces the store's own transactions, e.g. with a unit of work
// shared by several stores.
func WithTx(tx StoreTx) Option {
	return func(c *serviceConfig) {
		c.tx = tx
	}
}

// New builds the service. Without WithTx it runs in the store's transactions.
func New(store Store, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	var tx StoreTx = store
	if cfg.tx != nil {
		tx = cfg.tx
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	tr := cfg.tracer
	if tr == nil {
		tr = tracer.NewNoop()
	}
	return &Service{
		store:    store,
		tx:       tx,
		balances: &balanceAggregator{store: store, tracer: tr},
		logger:   logger,
		metrics:  cfg.metrics,
		tracer:   tr,
	}
}
