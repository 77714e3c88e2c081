package models

import "github.com/shopspring/decimal"

// EstateTotals is the all-time position of an estate.
type EstateTotals struct {
	TotalPayments decimal.Decimal
	TotalExpenses decimal.Decimal
	// Outstanding is the sum of unpaid dues.
	Outstanding  decimal.Decimal
	OwingTenants int
}

// NetBalance is money received minus money spent.
func (t EstateTotals) NetBalance() decimal.Decimal {
	return t.TotalPayments.Sub(t.TotalExpenses)
}
