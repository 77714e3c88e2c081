// Package requestcontext carries request-scoped values through context.
package requestcontext

import (
	"context"
	"time"

	id "estate-ledger/pkg/domain"
)

type (
	requestIDKey struct{}
	userIDKey    struct{}
	tokenKey     struct{}
	principalKey struct{}
	clientIPKey  struct{}
)

// Principal is the resolved caller: the account and the estate it is scoped to.
type Principal struct {
	UserID    id.UserID
	AccountID id.AccountID
	EstateID  id.EstateID
	IsAdmin   bool
}

// Token identifies the bearer token used for the request so it can be revoked.
type Token struct {
	JTI       string
	ExpiresAt time.Time
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func UserID(ctx context.Context) id.UserID {
	if v, ok := ctx.Value(userIDKey{}).(id.UserID); ok {
		return v
	}
	return id.UserID{}
}

func WithToken(ctx context.Context, token Token) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func CurrentToken(ctx context.Context) (Token, bool) {
	t, ok := ctx.Value(tokenKey{}).(Token)
	return t, ok
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipal returns nil when the request carries no resolved account.
func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey{}).(*Principal); ok {
		return p
	}
	return nil
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIP is the caller's address as resolved by the metadata middleware.
func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey{}).(string); ok {
		return v
	}
	return ""
}
