package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
)

type ExpenseCategory string

const (
	ExpenseRepairs        ExpenseCategory = "repairs"
	ExpenseSecuritySalary ExpenseCategory = "security_salary"
	ExpenseDiesel         ExpenseCategory = "diesel"
	ExpenseOthers         ExpenseCategory = "others"
)

// ExpenseCategories lists the categories in display order.
var ExpenseCategories = []ExpenseCategory{ExpenseRepairs, ExpenseSecuritySalary, ExpenseDiesel, ExpenseOthers}

func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseRepairs, ExpenseSecuritySalary, ExpenseDiesel, ExpenseOthers:
		return true
	}
	return false
}

// Label is the human-readable name used in reports.
func (c ExpenseCategory) Label() string {
	switch c {
	case ExpenseRepairs:
		return "Repairs"
	case ExpenseSecuritySalary:
		return "Security Salary"
	case ExpenseDiesel:
		return "Diesel"
	default:
		return "Others"
	}
}

// Expense is money spent by the estate. Append-only.
type Expense struct {
	ID          id.ExpenseID
	EstateID    id.EstateID
	Category    ExpenseCategory
	Description string
	Amount      decimal.Decimal
	DateSpent   time.Time
	// RecordedBy is nil once the recording account has been deleted.
	RecordedBy *id.AccountID
	CreatedAt  time.Time
}

func NewExpense(expenseID id.ExpenseID, estateID id.EstateID, category ExpenseCategory, description string, amount decimal.Decimal, recordedBy id.AccountID, now time.Time) (*Expense, error) {
	if !category.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown expense category")
	}
	if reason := id.CheckAmount(amount); reason != "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "expense amount "+reason)
	}
	by := recordedBy
	return &Expense{
		ID:          expenseID,
		EstateID:    estateID,
		Category:    category,
		Description: description,
		Amount:      amount.Round(id.MoneyScale),
		DateSpent:   truncateDay(now),
		RecordedBy:  &by,
		CreatedAt:   now,
	}, nil
}
