package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
)

// TenantPaymentDue is one tenant's copy of an issue. It moves from unpaid to
// paid exactly once; AmountDue is frozen at broadcast time.
type TenantPaymentDue struct {
	ID        id.DueID
	TenantID  id.TenantID
	IssueID   id.IssueID
	AmountDue decimal.Decimal
	IsPaid    bool
	DatePaid  *time.Time
	CreatedAt time.Time
}

// NewDue snapshots the issue amount for one tenant.
func NewDue(dueID id.DueID, tenantID id.TenantID, issue *PaymentIssue, now time.Time) *TenantPaymentDue {
	return &TenantPaymentDue{
		ID:        dueID,
		TenantID:  tenantID,
		IssueID:   issue.ID,
		AmountDue: issue.Amount,
		CreatedAt: now,
	}
}

// MarkPaid settles the due on the payment date.
func (d *TenantPaymentDue) MarkPaid(date time.Time) error {
	if d.IsPaid {
		return dErrors.New(dErrors.CodeInvariantViolation, "payment due is already paid")
	}
	paid := truncateDay(date)
	d.IsPaid = true
	d.DatePaid = &paid
	return nil
}

// BelongsTo reports whether the due was issued to tenantID.
func (d *TenantPaymentDue) BelongsTo(tenantID id.TenantID) bool {
	return d.TenantID == tenantID
}

// UnpaidDue is the read model behind the unpaid dues listing.
type UnpaidDue struct {
	DueID      id.DueID
	TenantID   id.TenantID
	TenantName string
	IssueID    id.IssueID
	IssueTitle string
	AmountDue  decimal.Decimal
}
