// Package models holds the rate limit vocabulary shared by stores, service and middleware.
package models

import (
	"fmt"
	"strings"
	"time"
)

// EndpointClass groups routes that share a budget.
type EndpointClass string

const (
	// ClassAuth covers credential endpoints: register and login.
	ClassAuth EndpointClass = "auth"
	// ClassAPI covers every authenticated route.
	ClassAPI EndpointClass = "api"
)

// Policy allows Requests per sliding Window.
type Policy struct {
	Requests int
	Window   time.Duration
}

func (p Policy) Enabled() bool {
	return p.Requests > 0 && p.Window > 0
}

// Result is the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int
}

// Key builds a bucket key such as "rl:auth:ip:203.0.113.0". Colons in the
// identifier are replaced so IPv6 addresses stay a single segment.
func Key(class EndpointClass, scope, identifier string) string {
	return fmt.Sprintf("rl:%s:%s:%s", class, scope, strings.ReplaceAll(identifier, ":", "_"))
}

// NewResult fills RetryAfter from resetAt when the request was denied.
func NewResult(allowed bool, limit, remaining int, resetAt, now time.Time) *Result {
	r := &Result{Allowed: allowed, Limit: limit, Remaining: max(remaining, 0), ResetAt: resetAt}
	if !allowed {
		r.RetryAfter = max(int(resetAt.Sub(now).Round(time.Second).Seconds()), 1)
	}
	return r
}
