package service

import (
	"time"

	"github.com/shopspring/decimal"

	"estate-ledger/internal/ledger/models"
	id "estate-ledger/pkg/domain"
	"estate-ledger/pkg/validation"
)

// CreateIssueCommand is the validated input of a broadcast.
type CreateIssueCommand struct {
	Title       string
	Amount      decimal.Decimal
	Description string
}

func (c *CreateIssueCommand) Validate() error {
	fields := validation.Errors{}
	fields.Required("title", c.Title)
	fields.CheckLength("title", c.Title, validation.MaxTitleLength)
	checkAmount(fields, "amount", c.Amount)
	fields.CheckLength("description", c.Description, validation.MaxDescriptionLength)
	return fields.Err("")
}

// SettlePaymentCommand is the validated input of a settlement.
type SettlePaymentCommand struct {
	TenantID    id.TenantID
	DueID       id.DueID
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
}

func (c *SettlePaymentCommand) Validate() error {
	fields := validation.Errors{}
	if c.TenantID.IsNil() {
		fields.Add("tenant", "is required")
	}
	if c.DueID.IsNil() {
		fields.Add("payment_due_id", "is required")
	}
	checkAmount(fields, "amount", c.Amount)
	fields.Required("category", c.Category)
	fields.CheckLength("category", c.Category, validation.MaxCategoryLength)
	fields.CheckLength("description", c.Description, validation.MaxDescriptionLength)
	if c.Date.IsZero() {
		fields.Add("date", "is required")
	}
	return fields.Err("")
}

type AddTenantCommand struct {
	FullName    string
	HouseNumber string
}

func (c *AddTenantCommand) Validate() error {
	fields := validation.Errors{}
	fields.Required("full_name", c.FullName)
	fields.CheckLength("full_name", c.FullName, validation.MaxNameLength)
	fields.CheckLength("house_number", c.HouseNumber, validation.MaxHouseNumberLength)
	return fields.Err("")
}

type RecordExpenseCommand struct {
	Category    models.ExpenseCategory
	Description string
	Amount      decimal.Decimal
}

func (c *RecordExpenseCommand) Validate() error {
	fields := validation.Errors{}
	if !c.Category.IsValid() {
		fields.Add("category", "must be one of [repairs security_salary diesel others]")
	}
	checkAmount(fields, "amount", c.Amount)
	fields.CheckLength("description", c.Description, validation.MaxDescriptionLength)
	return fields.Err("")
}

func checkAmount(fields validation.Errors, field string, amount decimal.Decimal) {
	if reason := id.CheckAmount(amount); reason != "" {
		fields.Add(field, reason)
	}
}
