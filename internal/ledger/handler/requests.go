package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"estate-ledger/internal/ledger/models"
	"estate-ledger/internal/ledger/service"
	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
	s "estate-ledger/pkg/string"
	"estate-ledger/pkg/validation"
)

// HTTP request DTOs. Field names follow the public API; amounts may be sent
// as JSON numbers or strings.

const dateLayout = "2006-01-02"

type CreateIssueRequest struct {
	Title       string          `json:"title" validate:"notblank,max=255"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=2000"`
}

func (r *CreateIssueRequest) Sanitize() {
	s.TrimStrings(&r.Title, &r.Description)
}

func (r *CreateIssueRequest) Validate() error {
	return validation.Validate(r)
}

func (r *CreateIssueRequest) toCommand() *service.CreateIssueCommand {
	return &service.CreateIssueCommand{
		Title:       r.Title,
		Amount:      r.Amount,
		Description: r.Description,
	}
}

type SettlePaymentRequest struct {
	TenantID    string          `json:"tenant" validate:"required,uuid"`
	DueID       string          `json:"payment_due_id" validate:"required,uuid"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" validate:"notblank,max=100"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Description string          `json:"description" validate:"max=2000"`
}

func (r *SettlePaymentRequest) Sanitize() {
	s.TrimStrings(&r.TenantID, &r.DueID, &r.Category, &r.Date, &r.Description)
}

func (r *SettlePaymentRequest) Validate() error {
	return validation.Validate(r)
}

// toCommand parses identifiers and the payment date.
func (r *SettlePaymentRequest) toCommand() (*service.SettlePaymentCommand, error) {
	tenantID, err := id.ParseTenantID(r.TenantID)
	if err != nil {
		return nil, err
	}
	dueID, err := id.ParseDueID(r.DueID)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return nil, dErrors.Validation("invalid request", map[string]string{"date": "must be a date in YYYY-MM-DD format"})
	}
	return &service.SettlePaymentCommand{
		TenantID:    tenantID,
		DueID:       dueID,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Date:        date,
	}, nil
}

type AddTenantRequest struct {
	FullName    string `json:"full_name" validate:"notblank,max=255"`
	HouseNumber string `json:"house_number" validate:"max=100"`
}

func (r *AddTenantRequest) Normalize() {
	r.FullName = s.CollapseSpaces(r.FullName)
	s.TrimStrings(&r.HouseNumber)
}

func (r *AddTenantRequest) Validate() error {
	return validation.Validate(r)
}

type RecordExpenseRequest struct {
	Category    string          `json:"category" validate:"required,oneof=repairs security_salary diesel others"`
	Description string          `json:"description" validate:"max=2000"`
	Amount      decimal.Decimal `json:"amount"`
}

func (r *RecordExpenseRequest) Sanitize() {
	s.TrimStrings(&r.Category, &r.Description)
}

func (r *RecordExpenseRequest) Validate() error {
	return validation.Validate(r)
}

func (r *RecordExpenseRequest) toCommand() *service.RecordExpenseCommand {
	return &service.RecordExpenseCommand{
		Category:    models.ExpenseCategory(r.Category),
		Description: r.Description,
		Amount:      r.Amount,
	}
}
