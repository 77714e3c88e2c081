// Package secrets hashes and checks account passwords with bcrypt.
package secrets

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	dErrors "estate-ledger/pkg/domain-errors"
)

// Cost is the bcrypt work factor for new hashes.
var Cost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash stored on the user row.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", dErrors.Validation("invalid request", map[string]string{"password": "is required"})
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", dErrors.Validation("invalid request", map[string]string{"password": "must be at most 72 bytes"})
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	return string(hashed), nil
}

// CheckPassword returns CodeUnauthorized when password does not match hash.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check password")
	}
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// BurnCompare spends one bcrypt comparison so a login for an unknown user
// takes as long as a wrong password.
func BurnCompare(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("estate-ledger-dummy"), Cost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
