package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	ledgermodels "estate-ledger/internal/ledger/models"
	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/tracer"
	"estate-ledger/pkg/requestcontext"
)

// Reader is the read side of the ledger store. Reports never lock or write.
type Reader interface {
	SumPaymentsBetween(ctx context.Context, estateID id.EstateID, from, to time.Time) (decimal.Decimal, error)
	SumExpensesBetween(ctx context.Context, estateID id.EstateID, from, to time.Time) (decimal.Decimal, error)
	EstateTotals(ctx context.Context, estateID id.EstateID) (ledgermodels.EstateTotals, error)
	PaymentsBetween(ctx context.Context, estateID id.EstateID, from, to time.Time) ([]*ledgermodels.Payment, error)
	ExpensesBetween(ctx context.Context, estateID id.EstateID, from, to time.Time) ([]*ledgermodels.Expense, error)
	ListTenants(ctx context.Context, estateID id.EstateID) ([]*ledgermodels.Tenant, error)
}

// Service builds summaries and spreadsheet exports of an estate's ledger.
type Service struct {
	reader Reader
	logger *slog.Logger
	tracer tracer.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(reader Reader, opts ...Option) *Service {
	s := &Service{
		reader: reader,
		logger: slog.Default(),
		tracer: tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func requireMember(p *requestcontext.Principal) error {
	if p == nil || p.EstateID.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return nil
}
