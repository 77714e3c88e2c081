package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
)

// Tenant is a resident billed by an estate. TotalPaid and TotalDue are
// accumulators owned by the balance aggregator.
type Tenant struct {
	ID          id.TenantID
	EstateID    id.EstateID
	FullName    string
	HouseNumber string
	TotalPaid   decimal.Decimal
	TotalDue    decimal.Decimal
	// Owing mirrors the persisted is_owing column. Read IsOwing instead.
	Owing     bool
	CreatedAt time.Time
}

func NewTenant(tenantID id.TenantID, estateID id.EstateID, fullName, houseNumber string, now time.Time) (*Tenant, error) {
	if estateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant must belong to an estate")
	}
	if fullName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant full name cannot be empty")
	}
	return &Tenant{
		ID:          tenantID,
		EstateID:    estateID,
		FullName:    fullName,
		HouseNumber: houseNumber,
		TotalPaid:   decimal.Zero,
		TotalDue:    decimal.Zero,
		CreatedAt:   now,
	}, nil
}

// IsOwing is derived from the accumulators, never stored independently.
func (t *Tenant) IsOwing() bool {
	return t.TotalPaid.LessThan(t.TotalDue)
}

// Outstanding is what the tenant still owes, floored at zero.
func (t *Tenant) Outstanding() decimal.Decimal {
	diff := t.TotalDue.Sub(t.TotalPaid)
	if diff.IsNegative() {
		return decimal.Zero
	}
	return diff
}

// ApplyTotals replaces both accumulators and recomputes Owing from them.
func (t *Tenant) ApplyTotals(totalPaid, totalDue decimal.Decimal) {
	t.TotalPaid = totalPaid
	t.TotalDue = totalDue
	t.Owing = t.IsOwing()
}
