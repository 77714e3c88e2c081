package service

import (
	"context"
	"errors"
	"time"

	ledgermetrics "estate-ledger/internal/ledger/metrics"
	"estate-ledger/internal/ledger/models"
	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/middleware/requesttime"
	"estate-ledger/pkg/platform/sentinel"
	"estate-ledger/pkg/platform/tracer"
	"estate-ledger/pkg/requestcontext"
)

const alreadySettledMsg = "payment already made for this due"

// SettlePayment records a payment against one due and settles it. Inside a
// single transaction it locks the due, rejects it if already paid, inserts the
// payment, marks the due paid and recomputes the tenant's balance. Concurrent
// attempts on one due serialize on the due lock and exactly one succeeds; the
// rest fail with CodeAlreadySettled and leave no trace.
func (s *Service) SettlePayment(ctx context.Context, p *requestcontext.Principal, cmd *SettlePaymentCommand) (payment *models.Payment, err error) {
	start := time.Now()
	defer func() { s.observeSettlement(err, start) }()

	if err := requireAdmin(p, "record payments"); err != nil {
		return nil, err
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanSettlePayment,
		tracer.String(tracer.AttrEstateID, p.EstateID.String()),
		tracer.String(tracer.AttrTenantID, cmd.TenantID.String()),
		tracer.String(tracer.AttrDueID, cmd.DueID.String()),
	)
	defer func() { span.End(err) }()

	now := requesttime.Now(ctx)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.store.FindTenant(txCtx, p.EstateID, cmd.TenantID); err != nil {
			return wrapStoreErr(err, "tenant not found", "failed to load tenant")
		}

		due, err := s.store.LockDue(txCtx, cmd.TenantID, cmd.DueID)
		if err != nil {
			return wrapStoreErr(err, "payment due not found", "failed to lock payment due")
		}
		span.AddEvent(tracer.EventDueLocked)
		if due.IsPaid {
			return dErrors.New(dErrors.CodeAlreadySettled, alreadySettledMsg)
		}

		pay, err := models.NewPayment(id.NewPaymentID(), p.EstateID, due, cmd.Amount, cmd.Category, cmd.Description, cmd.Date, now)
		if err != nil {
			return err
		}
		if err := s.store.CreatePayment(txCtx, pay); err != nil {
			// The unique due_id constraint backs up the row lock.
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeAlreadySettled, alreadySettledMsg)
			}
			return wrapStoreErr(err, "payment due not found", "failed to record payment")
		}

		if err := due.MarkPaid(pay.Date); err != nil {
			return dErrors.New(dErrors.CodeAlreadySettled, alreadySettledMsg)
		}
		if err := s.store.UpdateDue(txCtx, due); err != nil {
			return wrapStoreErr(err, "payment due not found", "failed to mark payment due as paid")
		}

		if _, err := s.balances.Recompute(txCtx, due.TenantID); err != nil {
			return err
		}
		payment = pay
		return nil
	})
	if err != nil {
		s.logSettlementFailure(ctx, p, cmd, err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "payment settled",
		"estate_id", p.EstateID.String(),
		"tenant_id", payment.TenantID.String(),
		"due_id", payment.DueID.String(),
		"payment_id", payment.ID.String(),
		"amount", id.FormatMoney(payment.Amount),
		"request_id", requestcontext.RequestID(ctx),
	)
	return payment, nil
}

func (s *Service) logSettlementFailure(ctx context.Context, p *requestcontext.Principal, cmd *SettlePaymentCommand, err error) {
	attrs := []any{
		"estate_id", p.EstateID.String(),
		"tenant_id", cmd.TenantID.String(),
		"due_id", cmd.DueID.String(),
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	}
	switch {
	case dErrors.HasCode(err, dErrors.CodeAlreadySettled), dErrors.HasCode(err, dErrors.CodeNotFound):
		s.logger.WarnContext(ctx, "payment settlement rejected", attrs...)
	default:
		s.logger.ErrorContext(ctx, "payment settlement failed", attrs...)
	}
}

func (s *Service) observeSettlement(err error, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveSettlement(settlementOutcome(err), start)
}

func settlementOutcome(err error) string {
	switch {
	case err == nil:
		return ledgermetrics.OutcomeSettled
	case dErrors.HasCode(err, dErrors.CodeAlreadySettled):
		return ledgermetrics.OutcomeAlreadySettled
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		return ledgermetrics.OutcomeNotFound
	case dErrors.HasCode(err, dErrors.CodeValidation),
		dErrors.HasCode(err, dErrors.CodeForbidden),
		dErrors.HasCode(err, dErrors.CodeUnauthorized):
		return ledgermetrics.OutcomeRejected
	default:
		return ledgermetrics.OutcomeError
	}
}
