// Package auth turns a bearer token into the request's Principal.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/httputil"
	"estate-ledger/pkg/requestcontext"
)

type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// TokenRevocationChecker reports whether logout revoked a token id.
type TokenRevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// PrincipalResolver maps a user to the account and estate it acts for.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID id.UserID) (*requestcontext.Principal, error)
}

// JWTClaims are the claims the middleware relies on.
type JWTClaims struct {
	UserID    string
	JTI       string
	ExpiresAt time.Time
}

// rejection is a failed authentication: what to log and what to answer.
type rejection struct {
	status int
	desc   string
	logMsg string
	err    error
}

func unauthorized(desc, logMsg string, err error) *rejection {
	return &rejection{status: http.StatusUnauthorized, desc: desc, logMsg: logMsg, err: err}
}

func internal(desc, logMsg string, err error) *rejection {
	return &rejection{status: http.StatusInternalServerError, desc: desc, logMsg: logMsg, err: err}
}

type authenticator struct {
	tokens     JWTValidator
	revoked    TokenRevocationChecker
	principals PrincipalResolver
	logger     *slog.Logger
}

// RequireAuth validates the bearer token, refuses revoked tokens and puts the
// caller's Principal, user id and token on the request context. A nil
// revocation checker skips the revocation lookup.
func RequireAuth(tokens JWTValidator, revoked TokenRevocationChecker, principals PrincipalResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	a := &authenticator{tokens: tokens, revoked: revoked, principals: principals, logger: logger}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, rej := a.authenticate(r)
			if rej != nil {
				a.reject(r.Context(), w, rej)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *authenticator) authenticate(r *http.Request) (context.Context, *rejection) {
	ctx := r.Context()

	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return nil, unauthorized("Missing or invalid Authorization header", "missing bearer token", nil)
	}

	claims, err := a.tokens.ValidateToken(raw)
	if err != nil {
		return nil, unauthorized("Invalid or expired token", "invalid token", err)
	}

	if rej := a.checkRevoked(ctx, claims.JTI); rej != nil {
		return nil, rej
	}

	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, unauthorized("Invalid or expired token", "malformed token subject", err)
	}

	principal, err := a.principals.ResolvePrincipal(ctx, userID)
	switch {
	case dErrors.HasCode(err, dErrors.CodeUnauthorized):
		return nil, unauthorized("User has no estate account", "no account for user", err)
	case err != nil:
		return nil, internal("Failed to resolve account", "failed to resolve principal", err)
	}

	ctx = requestcontext.WithUserID(ctx, userID)
	ctx = requestcontext.WithToken(ctx, requestcontext.Token{JTI: claims.JTI, ExpiresAt: claims.ExpiresAt})
	return requestcontext.WithPrincipal(ctx, principal), nil
}

// checkRevoked treats a token without a jti as revoked: it could never be logged out.
func (a *authenticator) checkRevoked(ctx context.Context, jti string) *rejection {
	if a.revoked == nil {
		return nil
	}
	if jti == "" {
		return unauthorized("Token has been revoked", "token has no jti", nil)
	}
	revoked, err := a.revoked.IsTokenRevoked(ctx, jti)
	if err != nil {
		return internal("Failed to validate token", "failed to check token revocation", err)
	}
	if revoked {
		return unauthorized("Token has been revoked", "token revoked", nil)
	}
	return nil
}

func (a *authenticator) reject(ctx context.Context, w http.ResponseWriter, rej *rejection) {
	attrs := []any{"request_id", requestcontext.RequestID(ctx)}
	if rej.err != nil {
		attrs = append(attrs, "error", rej.err)
	}
	code := "unauthorized"
	if rej.status == http.StatusInternalServerError {
		code = "internal_error"
		a.logger.ErrorContext(ctx, rej.logMsg, attrs...)
	} else {
		a.logger.WarnContext(ctx, "unauthorized access: "+rej.logMsg, attrs...)
	}
	httputil.WriteJSON(w, rej.status, httputil.ErrorResponse{Error: code, ErrorDescription: rej.desc})
}
