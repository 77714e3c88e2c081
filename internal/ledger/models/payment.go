package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
)

// Payment records money received against exactly one due. Payments are append-only.
type Payment struct {
	ID          id.PaymentID
	EstateID    id.EstateID
	TenantID    id.TenantID
	DueID       id.DueID
	IssueID     *id.IssueID
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
	CreatedAt   time.Time
}

// NewPayment builds the payment that settles due. The issue link comes from the due.
func NewPayment(paymentID id.PaymentID, estateID id.EstateID, due *TenantPaymentDue, amount decimal.Decimal, category, description string, date, now time.Time) (*Payment, error) {
	if due == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "payment requires a due")
	}
	if reason := id.CheckAmount(amount); reason != "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "payment amount "+reason)
	}
	if category == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "payment category cannot be empty")
	}
	issueID := due.IssueID
	return &Payment{
		ID:          paymentID,
		EstateID:    estateID,
		TenantID:    due.TenantID,
		DueID:       due.ID,
		IssueID:     &issueID,
		Amount:      amount.Round(id.MoneyScale),
		Category:    category,
		Description: description,
		Date:        truncateDay(date),
		CreatedAt:   now,
	}, nil
}
