// Package tracer is a small tracing facade over OpenTelemetry. Services depend on
// Tracer; production wires OTelTracer, tests use NoopTracer.
package tracer

import (
	"context"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span and marks it failed when err is non-nil.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration records value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanCreateIssue      = "ledger.CreateIssue"
	SpanSettlePayment    = "ledger.SettlePayment"
	SpanRecomputeBalance = "ledger.RecomputeBalance"
	SpanExportWorkbook   = "reporting.ExportWorkbook"
	SpanRegister         = "accounts.Register"
	SpanLogin            = "accounts.Login"
)

// Attribute keys.
const (
	AttrEstateID    = "estate.id"
	AttrTenantID    = "tenant.id"
	AttrDueID       = "due.id"
	AttrIssueID     = "issue.id"
	AttrDuesCreated = "dues.created"
	AttrOutcome     = "outcome"
	AttrUserID      = "user.id"
)

// Event names.
const (
	EventDueLocked    = "due.locked"
	EventTenantLocked = "tenant.locked"
)
