// Package domainerrors carries business failures across layers with a
// stable code. Transports map codes to their own statuses.
package domainerrors

import "errors"

type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_failed"
	CodeInvariantViolation Code = "invariant_violation"
	CodeNotFound           Code = "not_found"
	CodeAlreadySettled     Code = "already_settled"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"

	CodeTimeout  Code = "timeout"
	CodeInternal Code = "internal_error"
)

// ServerFault reports whether the code describes our failure rather than
// the caller's. Handlers log these at error level.
func (c Code) ServerFault() bool {
	return c == CodeInternal || c == CodeTimeout
}

type Error struct {
	Code    Code
	Message string
	// Fields is keyed by wire field name.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by code, so errors.Is(err, &Error{Code: c}) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

func Validation(msg string, fields map[string]string) error {
	return &Error{Code: CodeValidation, Message: msg, Fields: fields}
}

// Wrap attaches msg to err. A domain error inside err keeps its code and
// fields; code applies only to plain errors.
func Wrap(err error, code Code, msg string) error {
	wrapped := &Error{Code: code, Message: msg, Err: err}
	if inner, ok := as(err); ok {
		wrapped.Code = inner.Code
		wrapped.Fields = inner.Fields
	}
	return wrapped
}

func as(err error) (*Error, bool) {
	var de *Error
	ok := errors.As(err, &de)
	return de, ok
}

// IsDomain reports whether err carries a domain code anywhere in its chain.
func IsDomain(err error) bool {
	_, ok := as(err)
	return ok
}

func HasCode(err error, code Code) bool {
	de, ok := as(err)
	return ok && de.Code == code
}

// CodeOf returns the code of err. Plain errors are CodeInternal.
func CodeOf(err error) Code {
	if de, ok := as(err); ok {
		return de.Code
	}
	return CodeInternal
}

// FieldsOf returns the per-field detail of a validation error, or nil.
func FieldsOf(err error) map[string]string {
	if de, ok := as(err); ok {
		return de.Fields
	}
	return nil
}

// MessageOf returns the message of the outermost domain error in err's chain.
func MessageOf(err error) string {
	if de, ok := as(err); ok {
		return de.Error()
	}
	return err.Error()
}
