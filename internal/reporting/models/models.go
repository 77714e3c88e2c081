package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is one calendar month, [From, To).
type Period struct {
	Year  int
	Month time.Month
	From  time.Time
	To    time.Time
}

func NewPeriod(year int, month time.Month) Period {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Year: year, Month: month, From: from, To: from.AddDate(0, 1, 0)}
}

// MonthlySummary totals one month of an estate's cash flow.
type MonthlySummary struct {
	Period        Period
	TotalExpenses decimal.Decimal
	TotalPayments decimal.Decimal
}

func (m *MonthlySummary) NetBalance() decimal.Decimal {
	return m.TotalPayments.Sub(m.TotalExpenses)
}

// TotalSummary is the all-time position of an estate.
type TotalSummary struct {
	TotalPayments decimal.Decimal
	TotalExpenses decimal.Decimal
	NetBalance    decimal.Decimal
	Outstanding   decimal.Decimal
	OwingTenants  int
}

// Workbook is a rendered xlsx export.
type Workbook struct {
	Filename string
	Content  []byte
}
