// Package httputil writes JSON responses and maps domain errors onto HTTP.
package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/requestcontext"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description,omitempty"`
	Fields           map[string]string `json:"fields,omitempty"`
}

type wireError struct {
	status int
	code   string
}

// NotFound, AlreadySettled and Forbidden are client mistakes on this API and
// share 400 with validation failures; the wire code still tells them apart.
var wireErrors = map[dErrors.Code]wireError{
	dErrors.CodeBadRequest:         {http.StatusBadRequest, "bad_request"},
	dErrors.CodeValidation:         {http.StatusBadRequest, "validation_error"},
	dErrors.CodeInvariantViolation: {http.StatusBadRequest, "validation_error"},
	dErrors.CodeNotFound:           {http.StatusBadRequest, "not_found"},
	dErrors.CodeAlreadySettled:     {http.StatusBadRequest, "already_settled"},
	dErrors.CodeConflict:           {http.StatusConflict, "conflict"},
	dErrors.CodeUnauthorized:       {http.StatusUnauthorized, "unauthorized"},
	dErrors.CodeForbidden:          {http.StatusBadRequest, "forbidden"},
	dErrors.CodeTimeout:            {http.StatusGatewayTimeout, "timeout"},
}

var internalError = wireError{http.StatusInternalServerError, "internal_error"}

func wireFor(code dErrors.Code) wireError {
	if we, ok := wireErrors[code]; ok {
		return we
	}
	return internalError
}

// DomainCodeToHTTPStatus returns the status a domain code is answered with.
func DomainCodeToHTTPStatus(code dErrors.Code) int { return wireFor(code).status }

// DomainCodeToHTTPCode returns the "error" field a domain code is answered with.
func DomainCodeToHTTPCode(code dErrors.Code) string { return wireFor(code).code }

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encoding failure cannot change the status.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError answers err. Internal failures and plain errors never expose
// their message.
func WriteError(w http.ResponseWriter, err error) {
	we := wireFor(dErrors.CodeOf(err))
	if we == internalError {
		WriteJSON(w, we.status, ErrorResponse{Error: we.code, ErrorDescription: "internal server error"})
		return
	}
	WriteJSON(w, we.status, ErrorResponse{
		Error:            we.code,
		ErrorDescription: dErrors.MessageOf(err),
		Fields:           dErrors.FieldsOf(err),
	})
}

// RequirePrincipal returns the caller resolved by the auth middleware.
func RequirePrincipal(ctx context.Context, logger *slog.Logger, requestID string) (*requestcontext.Principal, error) {
	if p := requestcontext.GetPrincipal(ctx); p != nil {
		return p, nil
	}
	if logger != nil {
		logger.ErrorContext(ctx, "principal missing behind auth middleware", "request_id", requestID)
	}
	return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
}
