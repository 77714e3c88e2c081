package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"estate-ledger/internal/accounts/models"
	"estate-ledger/internal/accounts/service"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/httputil"
	"estate-ledger/pkg/requestcontext"
)

// Service defines the account operations behind the HTTP surface.
type Service interface {
	Register(ctx context.Context, cmd *service.RegisterCommand) (*models.Membership, error)
	Login(ctx context.Context, cmd *service.LoginCommand) (*service.LoginResult, error)
	Logout(ctx context.Context, tok requestcontext.Token) error
	AddMember(ctx context.Context, p *requestcontext.Principal, cmd *service.AddMemberCommand) (*models.Membership, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the routes that need no token.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/register/", h.HandleRegister)
	r.Post("/login/", h.HandleLogin)
}

// Register mounts the authenticated routes. Callers wrap r with the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/logout/", h.HandleLogout)
	r.Post("/members/", h.HandleAddMember)
}

// HandleRegister creates an estate and its admin account.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Bind[RegisterRequest](w, r, h.logger)
	if !ok {
		return
	}

	membership, err := h.service.Register(ctx, req.toCommand())
	if err != nil {
		h.logFailure(ctx, "register failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toRegisterResponse(membership))
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Bind[LoginRequest](w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.service.Login(ctx, &service.LoginCommand{Username: req.Username, Password: req.Password})
	if err != nil {
		h.logFailure(ctx, "login failed", err, requestID, "username", req.Username)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toLoginResponse(result))
}

// HandleLogout revokes the bearer token the request was made with.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tok, ok := requestcontext.CurrentToken(ctx)
	if !ok {
		h.logger.WarnContext(ctx, "logout without token", "request_id", requestID)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	if err := h.service.Logout(ctx, tok); err != nil {
		h.logFailure(ctx, "logout failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAddMember creates a read-only account in the caller's estate.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	p, err := httputil.RequirePrincipal(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.Bind[AddMemberRequest](w, r, h.logger)
	if !ok {
		return
	}

	membership, err := h.service.AddMember(ctx, p, &service.AddMemberCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logFailure(ctx, "add member failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toMemberResponse(membership))
}

// logFailure logs client mistakes at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, requestID string, attrs ...any) {
	attrs = append(attrs, "error", err, "request_id", requestID)
	if dErrors.CodeOf(err).ServerFault() {
		h.logger.ErrorContext(ctx, msg, attrs...)
		return
	}
	h.logger.WarnContext(ctx, msg, attrs...)
}
