package service

import (
	"context"

	"estate-ledger/internal/ledger/models"
	"estate-ledger/pkg/requestcontext"
)

// ListIssues returns the estate's payment issues, newest first.
func (s *Service) ListIssues(ctx context.Context, p *requestcontext.Principal) ([]*models.PaymentIssue, error) {
	if err := requireMember(p); err != nil {
		return nil, err
	}
	issues, err := s.store.ListIssues(ctx, p.EstateID)
	if err != nil {
		return nil, wrapStoreErr(err, "estate not found", "failed to list payment issues")
	}
	return issues, nil
}

// ListUnpaidDues returns every unpaid due of the estate with tenant and issue names.
func (s *Service) ListUnpaidDues(ctx context.Context, p *requestcontext.Principal) ([]*models.UnpaidDue, error) {
	if err := requireMember(p); err != nil {
		return nil, err
	}
	dues, err := s.store.ListUnpaidDues(ctx, p.EstateID)
	if err != nil {
		return nil, wrapStoreErr(err, "estate not found", "failed to list unpaid dues")
	}
	return dues, nil
}

// ListPayments returns the estate's payments, newest first.
func (s *Service) ListPayments(ctx context.Context, p *requestcontext.Principal) ([]*models.Payment, error) {
	if err := requireMember(p); err != nil {
		return nil, err
	}
	payments, err := s.store.ListPayments(ctx, p.EstateID)
	if err != nil {
		return nil, wrapStoreErr(err, "estate not found", "failed to list payments")
	}
	return payments, nil
}
