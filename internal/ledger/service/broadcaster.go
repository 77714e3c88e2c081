package service

import (
	"context"

	"estate-ledger/internal/ledger/models"
	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/middleware/requesttime"
	"estate-ledger/pkg/platform/tracer"
	"estate-ledger/pkg/requestcontext"
)

// CreateIssue records a payment issue and fans it out as one unpaid due per
// tenant of the caller's estate. The issue and all of its dues commit together
// or not at all. Balances are untouched until settlement.
func (s *Service) CreateIssue(ctx context.Context, p *requestcontext.Principal, cmd *CreateIssueCommand) (result *models.IssueBroadcast, err error) {
	if err := requireAdmin(p, "create payment issues"); err != nil {
		return nil, err
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanCreateIssue, tracer.String(tracer.AttrEstateID, p.EstateID.String()))
	defer func() { span.End(err) }()

	now := requesttime.Now(ctx)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		issue, err := models.NewPaymentIssue(id.NewIssueID(), p.EstateID, cmd.Title, cmd.Amount, cmd.Description, now)
		if err != nil {
			return err
		}
		if err := s.store.CreateIssue(txCtx, issue); err != nil {
			return wrapStoreErr(err, "estate not found", "failed to create payment issue")
		}

		tenants, err := s.store.ListTenants(txCtx, p.EstateID)
		if err != nil {
			return wrapStoreErr(err, "estate not found", "failed to list tenants")
		}
		dues := make([]*models.TenantPaymentDue, 0, len(tenants))
		for _, t := range tenants {
			dues = append(dues, models.NewDue(id.NewDueID(), t.ID, issue, now))
		}
		if len(dues) > 0 {
			if err := s.store.CreateDues(txCtx, dues); err != nil {
				return wrapStoreErr(err, "tenant not found", "failed to create payment dues")
			}
		}

		result = &models.IssueBroadcast{Issue: issue, DuesCreated: len(dues)}
		return nil
	})
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			s.logger.ErrorContext(ctx, "payment issue broadcast failed",
				"estate_id", p.EstateID.String(),
				"error", err,
			)
		}
		return nil, err
	}

	span.SetAttributes(
		tracer.String(tracer.AttrIssueID, result.Issue.ID.String()),
		tracer.Int(tracer.AttrDuesCreated, result.DuesCreated),
	)
	if s.metrics != nil {
		s.metrics.ObserveBroadcast(result.DuesCreated)
	}
	s.logger.InfoContext(ctx, "payment issue broadcast",
		"estate_id", p.EstateID.String(),
		"issue_id", result.Issue.ID.String(),
		"dues_created", result.DuesCreated,
		"request_id", requestcontext.RequestID(ctx),
	)
	return result, nil
}
