// Package httptransport assembles the chi router from the per-module handlers.
package httptransport

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"

	accountshandler "estate-ledger/internal/accounts/handler"
	ledgerhandler "estate-ledger/internal/ledger/handler"
	"estate-ledger/internal/platform/health"
	ratelimitmw "estate-ledger/internal/ratelimit/middleware"
	ratelimitmodels "estate-ledger/internal/ratelimit/models"
	reportinghandler "estate-ledger/internal/reporting/handler"
	"estate-ledger/pkg/platform/middleware/auth"
	"estate-ledger/pkg/platform/middleware/metadata"
	"estate-ledger/pkg/platform/middleware/request"
	"estate-ledger/pkg/platform/middleware/requesttime"
)

const defaultRequestTimeout = 30 * time.Second

// Handlers are the module surfaces mounted on the router.
type Handlers struct {
	Accounts  *accountshandler.Handler
	Ledger    *ledgerhandler.Handler
	Reporting *reportinghandler.Handler
	Health    *health.Handler
}

// Dependencies are the cross-cutting pieces the middleware stack needs.
type Dependencies struct {
	Logger         *slog.Logger
	Tokens         auth.JWTValidator
	Revocations    auth.TokenRevocationChecker
	Principals     auth.PrincipalResolver
	RequestMetrics *request.Metrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	TrustedProxies []netip.Prefix
	// RateLimit throttles credential endpoints and authenticated routes per client IP. Nil disables it.
	RateLimit *ratelimitmw.Middleware
}

// NewRouter wires public and authenticated routes behind the shared middleware.
func NewRouter(deps Dependencies, h Handlers) http.Handler {
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = request.DefaultMaxBodyBytes
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientIP(deps.TrustedProxies))
	r.Use(request.Recovery(deps.Logger))
	r.Use(request.AccessLog(deps.Logger, deps.RequestMetrics))
	r.Use(request.Timeout(timeout))
	r.Use(request.BodyLimit(maxBody))
	r.Use(request.ContentTypeJSON)
	r.Use(requesttime.Middleware)

	if h.Health != nil {
		h.Health.Register(r)
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.RateLimit(ratelimitmodels.ClassAuth))
		}
		h.Accounts.RegisterPublic(r)
	})

	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.RateLimit(ratelimitmodels.ClassAPI))
		}
		r.Use(auth.RequireAuth(deps.Tokens, deps.Revocations, deps.Principals, deps.Logger))
		h.Accounts.Register(r)
		h.Ledger.Register(r)
		h.Reporting.Register(r)
	})

	return r
}
