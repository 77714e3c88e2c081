package service

import (
	"estate-ledger/pkg/validation"
)

// RegisterCommand creates an estate together with its first admin.
type RegisterCommand struct {
	Username      string
	Email         string
	Password      string
	EstateName    string
	EstateAddress string
}

func (c *RegisterCommand) Validate() error {
	fields := validation.Errors{}
	checkCredentials(fields, c.Username, c.Email, c.Password)
	fields.Required("estate_name", c.EstateName)
	fields.CheckLength("estate_name", c.EstateName, validation.MaxNameLength)
	return fields.Err("")
}

type LoginCommand struct {
	Username string
	Password string
}

func (c *LoginCommand) Validate() error {
	fields := validation.Errors{}
	fields.Required("username", c.Username)
	if c.Password == "" {
		fields.Add("password", "is required")
	}
	return fields.Err("")
}

// AddMemberCommand creates a read-only account in the caller's estate.
type AddMemberCommand struct {
	Username string
	Email    string
	Password string
}

func (c *AddMemberCommand) Validate() error {
	fields := validation.Errors{}
	checkCredentials(fields, c.Username, c.Email, c.Password)
	return fields.Err("")
}

func checkCredentials(fields validation.Errors, username, email, password string) {
	fields.Required("username", username)
	fields.CheckLength("username", username, validation.MaxUsernameLength)
	fields.Required("email", email)
	fields.CheckLength("email", email, validation.MaxEmailLength)
	fields.CheckEmail("email", email)
	switch n := len(password); {
	case n < validation.MinPasswordLength:
		fields.Add("password", "must be at least 8 characters")
	case n > validation.MaxPasswordLength:
		fields.Add("password", "must be at most 72 bytes")
	}
}
