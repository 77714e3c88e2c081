package service

import (
	"context"

	"estate-ledger/internal/ledger/models"
	id "estate-ledger/pkg/domain"
	"estate-ledger/pkg/platform/middleware/requesttime"
	"estate-ledger/pkg/requestcontext"
)

// RecordExpense logs estate spending dated today and attributed to the caller's account.
func (s *Service) RecordExpense(ctx context.Context, p *requestcontext.Principal, cmd *RecordExpenseCommand) (*models.Expense, error) {
	if err := requireAdmin(p, "record expenses"); err != nil {
		return nil, err
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	expense, err := models.NewExpense(id.NewExpenseID(), p.EstateID, cmd.Category, cmd.Description, cmd.Amount, p.AccountID, requesttime.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.store.CreateExpense(txCtx, expense)
	}); err != nil {
		return nil, wrapStoreErr(err, "estate not found", "failed to record expense")
	}

	if s.metrics != nil {
		s.metrics.IncrementExpenseRecorded(string(expense.Category))
	}
	s.logger.InfoContext(ctx, "expense recorded",
		"estate_id", p.EstateID.String(),
		"expense_id", expense.ID.String(),
		"category", string(expense.Category),
		"request_id", requestcontext.RequestID(ctx),
	)
	return expense, nil
}

// ListExpenses returns the estate's expenses, newest first.
func (s *Service) ListExpenses(ctx context.Context, p *requestcontext.Principal) ([]*models.Expense, error) {
	if err := requireMember(p); err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, p.EstateID)
	if err != nil {
		return nil, wrapStoreErr(err, "estate not found", "failed to list expenses")
	}
	return expenses, nil
}
