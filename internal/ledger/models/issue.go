package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
)

// PaymentIssue is an obligation broadcast to every tenant of an estate. It is
// immutable once created; each due snapshots its amount.
type PaymentIssue struct {
	ID          id.IssueID
	EstateID    id.EstateID
	Title       string
	Amount      decimal.Decimal
	Description string
	DateIssued  time.Time
	CreatedAt   time.Time
}

func NewPaymentIssue(issueID id.IssueID, estateID id.EstateID, title string, amount decimal.Decimal, description string, now time.Time) (*PaymentIssue, error) {
	if estateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "payment issue must belong to an estate")
	}
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "payment issue title cannot be empty")
	}
	if reason := id.CheckAmount(amount); reason != "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "payment issue amount "+reason)
	}
	return &PaymentIssue{
		ID:          issueID,
		EstateID:    estateID,
		Title:       title,
		Amount:      amount.Round(id.MoneyScale),
		Description: description,
		DateIssued:  truncateDay(now),
		CreatedAt:   now,
	}, nil
}

// IssueBroadcast is the outcome of fanning an issue out to an estate's tenants.
type IssueBroadcast struct {
	Issue       *PaymentIssue
	DuesCreated int
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
