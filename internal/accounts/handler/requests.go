package handler

import (
	"strings"

	"estate-ledger/internal/accounts/service"
	s "estate-ledger/pkg/string"
	"estate-ledger/pkg/validation"
)

// Passwords are never trimmed.

type RegisterRequest struct {
	Username      string `json:"username" validate:"notblank,max=150"`
	Email         string `json:"email" validate:"required,email,max=255"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
	EstateName    string `json:"estate_name" validate:"notblank,max=255"`
	EstateAddress string `json:"estate_address"`
}

func (r *RegisterRequest) Sanitize() {
	s.TrimStrings(&r.Username, &r.Email, &r.EstateName, &r.EstateAddress)
}

func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(r.Email)
}

func (r *RegisterRequest) Validate() error {
	return validation.Validate(r)
}

func (r *RegisterRequest) toCommand() *service.RegisterCommand {
	return &service.RegisterCommand{
		Username:      r.Username,
		Email:         r.Email,
		Password:      r.Password,
		EstateName:    r.EstateName,
		EstateAddress: r.EstateAddress,
	}
}

type LoginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Sanitize() {
	s.TrimStrings(&r.Username)
}

func (r *LoginRequest) Validate() error {
	return validation.Validate(r)
}

type AddMemberRequest struct {
	Username string `json:"username" validate:"notblank,max=150"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r *AddMemberRequest) Sanitize() {
	s.TrimStrings(&r.Username, &r.Email)
}

func (r *AddMemberRequest) Normalize() {
	r.Email = strings.ToLower(r.Email)
}

func (r *AddMemberRequest) Validate() error {
	return validation.Validate(r)
}
