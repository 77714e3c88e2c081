package handler

import (
	"time"

	"estate-ledger/internal/ledger/models"
	id "estate-ledger/pkg/domain"
)

// Money is rendered with two decimals and dates as YYYY-MM-DD.

type TenantResponse struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	HouseNumber string    `json:"house_number"`
	TotalPaid   string    `json:"total_paid"`
	TotalDue    string    `json:"total_due"`
	Outstanding string    `json:"outstanding"`
	IsOwing     bool      `json:"is_owing"`
	CreatedAt   time.Time `json:"created_at"`
}

type IssueResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	DateIssued  string    `json:"date_issued"`
	CreatedAt   time.Time `json:"created_at"`
}

type IssueCreateResponse struct {
	*IssueResponse
	DuesCreated int `json:"dues_created"`
}

type PaymentResponse struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant"`
	PaymentDueID string    `json:"payment_due_id"`
	IssueID      *string   `json:"payment_issue"`
	Amount       string    `json:"amount"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Date         string    `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
}

type UnpaidDueResponse struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenant"`
	TenantName string `json:"tenant_name"`
	IssueID    string `json:"payment_issue"`
	IssueTitle string `json:"payment_issue_title"`
	AmountDue  string `json:"amount_due"`
}

type ExpenseResponse struct {
	ID            string    `json:"id"`
	Category      string    `json:"category"`
	CategoryLabel string    `json:"category_label"`
	Description   string    `json:"description"`
	Amount        string    `json:"amount"`
	DateSpent     string    `json:"date_spent"`
	RecordedBy    *string   `json:"recorded_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func toTenantResponse(t *models.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:          t.ID.String(),
		FullName:    t.FullName,
		HouseNumber: t.HouseNumber,
		TotalPaid:   id.FormatMoney(t.TotalPaid),
		TotalDue:    id.FormatMoney(t.TotalDue),
		Outstanding: id.FormatMoney(t.Outstanding()),
		IsOwing:     t.IsOwing(),
		CreatedAt:   t.CreatedAt,
	}
}

func toIssueResponse(i *models.PaymentIssue) *IssueResponse {
	return &IssueResponse{
		ID:          i.ID.String(),
		Title:       i.Title,
		Amount:      id.FormatMoney(i.Amount),
		Description: i.Description,
		DateIssued:  i.DateIssued.Format(dateLayout),
		CreatedAt:   i.CreatedAt,
	}
}

func toPaymentResponse(p *models.Payment) *PaymentResponse {
	res := &PaymentResponse{
		ID:           p.ID.String(),
		TenantID:     p.TenantID.String(),
		PaymentDueID: p.DueID.String(),
		Amount:       id.FormatMoney(p.Amount),
		Category:     p.Category,
		Description:  p.Description,
		Date:         p.Date.Format(dateLayout),
		CreatedAt:    p.CreatedAt,
	}
	if p.IssueID != nil {
		issueID := p.IssueID.String()
		res.IssueID = &issueID
	}
	return res
}

func toUnpaidDueResponse(d *models.UnpaidDue) *UnpaidDueResponse {
	return &UnpaidDueResponse{
		ID:         d.DueID.String(),
		TenantID:   d.TenantID.String(),
		TenantName: d.TenantName,
		IssueID:    d.IssueID.String(),
		IssueTitle: d.IssueTitle,
		AmountDue:  id.FormatMoney(d.AmountDue),
	}
}

func toExpenseResponse(e *models.Expense) *ExpenseResponse {
	res := &ExpenseResponse{
		ID:            e.ID.String(),
		Category:      string(e.Category),
		CategoryLabel: e.Category.Label(),
		Description:   e.Description,
		Amount:        id.FormatMoney(e.Amount),
		DateSpent:     e.DateSpent.Format(dateLayout),
		CreatedAt:     e.CreatedAt,
	}
	if e.RecordedBy != nil {
		by := e.RecordedBy.String()
		res.RecordedBy = &by
	}
	return res
}

// mapSlice converts a list of domain values into response DTOs.
func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
