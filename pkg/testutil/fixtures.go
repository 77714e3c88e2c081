package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ledgermodels "estate-ledger/internal/ledger/models"
	id "estate-ledger/pkg/domain"
	"estate-ledger/pkg/requestcontext"
)

// TestIDs provides fixed IDs for deterministic test data.
var TestIDs = struct {
	EstateID1  id.EstateID
	EstateID2  id.EstateID
	UserID1    id.UserID
	UserID2    id.UserID
	AccountID1 id.AccountID
	AccountID2 id.AccountID
}{
	EstateID1:  id.EstateID(uuid.MustParse("eeee0000-0000-0000-0000-000000000001")),
	EstateID2:  id.EstateID(uuid.MustParse("eeee0000-0000-0000-0000-000000000002")),
	UserID1:    id.UserID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	UserID2:    id.UserID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
	AccountID1: id.AccountID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000001")),
	AccountID2: id.AccountID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000002")),
}

// AdminPrincipal is an estate admin of estateID.
func AdminPrincipal(estateID id.EstateID) *requestcontext.Principal {
	return &requestcontext.Principal{
		UserID:    TestIDs.UserID1,
		AccountID: TestIDs.AccountID1,
		EstateID:  estateID,
		IsAdmin:   true,
	}
}

// MemberPrincipal is a read-only account of estateID.
func MemberPrincipal(estateID id.EstateID) *requestcontext.Principal {
	return &requestcontext.Principal{
		UserID:    TestIDs.UserID2,
		AccountID: TestIDs.AccountID2,
		EstateID:  estateID,
	}
}

// TenantBuilder provides a fluent interface for building test tenants.
type TenantBuilder struct {
	tenant *ledgermodels.Tenant
}

// NewTenantBuilder starts from a tenant of EstateID1 with zero balances.
func NewTenantBuilder() *TenantBuilder {
	return &TenantBuilder{
		tenant: &ledgermodels.Tenant{
			ID:          id.NewTenantID(),
			EstateID:    TestIDs.EstateID1,
			FullName:    "Test Tenant",
			HouseNumber: "1A",
			TotalPaid:   decimal.Zero,
			TotalDue:    decimal.Zero,
			CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func (b *TenantBuilder) WithEstate(estateID id.EstateID) *TenantBuilder {
	b.tenant.EstateID = estateID
	return b
}

func (b *TenantBuilder) WithName(name string) *TenantBuilder {
	b.tenant.FullName = name
	return b
}

func (b *TenantBuilder) WithTotals(totalPaid, totalDue string) *TenantBuilder {
	b.tenant.ApplyTotals(decimal.RequireFromString(totalPaid), decimal.RequireFromString(totalDue))
	return b
}

func (b *TenantBuilder) Build() *ledgermodels.Tenant {
	t := *b.tenant
	return &t
}
