package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	accountmetrics "estate-ledger/internal/accounts/metrics"
	"estate-ledger/internal/accounts/models"
	"estate-ledger/internal/accounts/token"
	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/sentinel"
	"estate-ledger/pkg/platform/tracer"
)

// Store persists estates, users and accounts.
type Store interface {
	CreateEstate(ctx context.Context, estate *models.Estate) error
	// CreateUser returns sentinel.ErrAlreadyUsed for a taken username.
	CreateUser(ctx context.Context, user *models.User) error
	CreateAccount(ctx context.Context, account *models.Account) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	// FindMembership returns sentinel.ErrNotFound when the user has no account.
	FindMembership(ctx context.Context, userID id.UserID) (*models.Membership, error)
}

type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TokenIssuer interface {
	Issue(ctx context.Context, userID id.UserID) (*token.Issued, error)
}

type RevocationList interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

// Service registers estates, authenticates users and resolves the account a
// request acts for.
type Service struct {
	store       Store
	tx          StoreTx
	tokens      TokenIssuer
	revocations RevocationList
	logger      *slog.Logger
	metrics     *accountmetrics.Metrics
	tracer      tracer.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *accountmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New builds the service. The store must also provide transactions.
func New(store interface {
	Store
	StoreTx
}, tokens TokenIssuer, revocations RevocationList, opts ...Option) *Service {
	s := &Service{
		store:       store,
		tx:          store,
		tokens:      tokens,
		revocations: revocations,
		logger:      slog.Default(),
		tracer:      tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// wrapStoreErr translates store sentinels into domain errors exactly once.
func wrapStoreErr(err error, conflictMsg, internalMsg string) error {
	switch {
	case dErrors.IsDomain(err):
		return err
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, conflictMsg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
	}
}
