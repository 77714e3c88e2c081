package domain

import (
	"github.com/shopspring/decimal"
)

// Money limits mirror the NUMERIC(10,2) storage columns.
const (
	MoneyScale = 2
	// MoneyMaxDigits is the total number of significant digits a stored amount may have.
	MoneyMaxDigits = 10
)

var moneyUpperBound = decimal.New(1, MoneyMaxDigits-MoneyScale)

// CheckAmount validates a monetary value against the storage contract and returns
// a short reason when it does not fit. An empty reason means the amount is acceptable.
func CheckAmount(amount decimal.Decimal) string {
	switch {
	case !amount.IsPositive():
		return "must be a positive amount"
	case amount.Exponent() < -MoneyScale && !amount.Equal(amount.Round(MoneyScale)):
		return "must have at most 2 decimal places"
	case amount.GreaterThanOrEqual(moneyUpperBound):
		return "must be less than 100000000"
	}
	return ""
}

// FormatMoney renders an amount with a fixed two decimal scale for API payloads.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyScale)
}
