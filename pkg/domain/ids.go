// Package domain provides type-safe identifiers and money values shared by every module.
package domain

import (
	"github.com/google/uuid"

	dErrors "estate-ledger/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a TenantID where a DueID is expected.
type (
	EstateID  uuid.UUID
	UserID    uuid.UUID
	AccountID uuid.UUID
	TenantID  uuid.UUID
	IssueID   uuid.UUID
	DueID     uuid.UUID
	PaymentID uuid.UUID
	ExpenseID uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, token claims).

func ParseEstateID(s string) (EstateID, error) {
	id, err := parseUUID(s, "estate ID")
	return EstateID(id), err
}

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseTenantID(s string) (TenantID, error) {
	id, err := parseUUID(s, "tenant ID")
	return TenantID(id), err
}

func ParseIssueID(s string) (IssueID, error) {
	id, err := parseUUID(s, "issue ID")
	return IssueID(id), err
}

func ParseDueID(s string) (DueID, error) {
	id, err := parseUUID(s, "payment due ID")
	return DueID(id), err
}

// String methods - for logging and JSON payloads.

func (id EstateID) String() string  { return uuid.UUID(id).String() }
func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id AccountID) String() string { return uuid.UUID(id).String() }
func (id TenantID) String() string  { return uuid.UUID(id).String() }
func (id IssueID) String() string   { return uuid.UUID(id).String() }
func (id DueID) String() string     { return uuid.UUID(id).String() }
func (id PaymentID) String() string { return uuid.UUID(id).String() }
func (id ExpenseID) String() string { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id EstateID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id AccountID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id TenantID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id IssueID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id DueID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// Constructors for freshly minted rows.

func NewEstateID() EstateID   { return EstateID(uuid.New()) }
func NewUserID() UserID       { return UserID(uuid.New()) }
func NewAccountID() AccountID { return AccountID(uuid.New()) }
func NewTenantID() TenantID   { return TenantID(uuid.New()) }
func NewIssueID() IssueID     { return IssueID(uuid.New()) }
func NewDueID() DueID         { return DueID(uuid.New()) }
func NewPaymentID() PaymentID { return PaymentID(uuid.New()) }
func NewExpenseID() ExpenseID { return ExpenseID(uuid.New()) }

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "invalid "+label+" format")
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, label+" cannot be nil")
	}
	return id, nil
}
