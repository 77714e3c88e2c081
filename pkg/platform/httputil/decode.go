package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/requestcontext"
)

// Request bodies may implement any of these hooks. Bind calls them in
// the order Sanitize, Normalize, Validate.
type (
	Sanitizer  interface{ Sanitize() }
	Normalizer interface{ Normalize() }
	Validator  interface{ Validate() error }
)

var errTrailingData = errors.New("unexpected data after JSON body")

// Bind decodes r's body into a new T and runs its request hooks. When it
// returns false the error response has already been written.
//
//	req, ok := httputil.Bind[SettlePaymentRequest](w, r, h.logger)
//	if !ok {
//	    return
//	}
func Bind[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	ctx := r.Context()
	req := new(T)

	if err := readBody(r.Body, req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:            "request_too_large",
				ErrorDescription: "request body too large",
			})
			return nil, false
		}
		logger.WarnContext(ctx, "rejected request body",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}

	if err := prepare(req); err != nil {
		logger.WarnContext(ctx, "request failed validation",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		if !dErrors.IsDomain(err) {
			err = dErrors.New(dErrors.CodeValidation, err.Error())
		}
		WriteError(w, err)
		return nil, false
	}
	return req, true
}

func readBody(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}

func prepare(req any) error {
	if s, ok := req.(Sanitizer); ok {
		s.Sanitize()
	}
	if n, ok := req.(Normalizer); ok {
		n.Normalize()
	}
	if v, ok := req.(Validator); ok {
		return v.Validate()
	}
	return nil
}
