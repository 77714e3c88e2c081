package models

import (
	"strings"
	"time"

	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
)

// Estate is the billing scope every tenant, issue and payment belongs to.
type Estate struct {
	ID        id.EstateID
	Name      string
	Address   string
	CreatedAt time.Time
}

func NewEstate(estateID id.EstateID, name, address string, now time.Time) (*Estate, error) {
	if strings.TrimSpace(name) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "estate name cannot be empty")
	}
	return &Estate{ID: estateID, Name: name, Address: address, CreatedAt: now}, nil
}

// User holds login credentials. Usernames are unique case-insensitively.
type User struct {
	ID           id.UserID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func NewUser(userID id.UserID, username, email, passwordHash string, now time.Time) (*User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "username cannot be empty")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash cannot be empty")
	}
	return &User{
		ID:           userID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

// UsernameKey is the normalized form used for uniqueness and lookup.
func UsernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Account ties one user to one estate. Admins manage the estate; other
// accounts may only read it.
type Account struct {
	ID        id.AccountID
	UserID    id.UserID
	EstateID  id.EstateID
	IsAdmin   bool
	CreatedAt time.Time
}

func NewAccount(accountID id.AccountID, userID id.UserID, estateID id.EstateID, isAdmin bool, now time.Time) (*Account, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "account must belong to a user")
	}
	if estateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "account must belong to an estate")
	}
	return &Account{
		ID:        accountID,
		UserID:    userID,
		EstateID:  estateID,
		IsAdmin:   isAdmin,
		CreatedAt: now,
	}, nil
}

// Membership is an account joined with its user and estate, as loaded at login.
type Membership struct {
	User    *User
	Account *Account
	Estate  *Estate
}
