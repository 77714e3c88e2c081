package handler

import (
	"time"

	"estate-ledger/internal/accounts/models"
	"estate-ledger/internal/accounts/service"
)

type RegisterResponse struct {
	Message  string `json:"message"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	EstateID string `json:"estate_id"`
	Estate   string `json:"estate"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Estate    string    `json:"estate"`
	EstateID  string    `json:"estate_id"`
	IsAdmin   bool      `json:"is_admin"`
}

type MemberResponse struct {
	UserID    string `json:"user_id"`
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
}

func toRegisterResponse(m *models.Membership) *RegisterResponse {
	return &RegisterResponse{
		Message:  "User registered successfully",
		UserID:   m.User.ID.String(),
		Username: m.User.Username,
		EstateID: m.Estate.ID.String(),
		Estate:   m.Estate.Name,
	}
}

func toLoginResponse(r *service.LoginResult) *LoginResponse {
	return &LoginResponse{
		Token:     r.Token,
		ExpiresAt: r.ExpiresAt.UTC(),
		Username:  r.Username,
		Email:     r.Email,
		Estate:    r.EstateName,
		EstateID:  r.EstateID.String(),
		IsAdmin:   r.IsAdmin,
	}
}

func toMemberResponse(m *models.Membership) *MemberResponse {
	return &MemberResponse{
		UserID:    m.User.ID.String(),
		AccountID: m.Account.ID.String(),
		Username:  m.User.Username,
		Email:     m.User.Email,
		IsAdmin:   m.Account.IsAdmin,
	}
}
