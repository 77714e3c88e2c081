package handler

import (
	"estate-ledger/internal/reporting/models"
	id "estate-ledger/pkg/domain"
)

type MonthlySummaryResponse struct {
	Month         string `json:"month"`
	Year          int    `json:"year"`
	TotalExpenses string `json:"total_expenses"`
	TotalPayments string `json:"total_payments"`
	NetBalance    string `json:"net_balance"`
}

type TotalSummaryResponse struct {
	TotalPayments string `json:"total_payments"`
	TotalExpenses string `json:"total_expenses"`
	NetBalance    string `json:"net_balance"`
	Outstanding   string `json:"outstanding"`
	OwingTenants  int    `json:"owing_tenants"`
}

func toMonthlySummaryResponse(m *models.MonthlySummary) *MonthlySummaryResponse {
	return &MonthlySummaryResponse{
		Month:         m.Period.Month.String(),
		Year:          m.Period.Year,
		TotalExpenses: id.FormatMoney(m.TotalExpenses),
		TotalPayments: id.FormatMoney(m.TotalPayments),
		NetBalance:    id.FormatMoney(m.NetBalance()),
	}
}

func toTotalSummaryResponse(t *models.TotalSummary) *TotalSummaryResponse {
	return &TotalSummaryResponse{
		TotalPayments: id.FormatMoney(t.TotalPayments),
		TotalExpenses: id.FormatMoney(t.TotalExpenses),
		NetBalance:    id.FormatMoney(t.NetBalance),
		Outstanding:   id.FormatMoney(t.Outstanding),
		OwingTenants:  t.OwingTenants,
	}
}
