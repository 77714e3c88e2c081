package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/validation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tenantRequest struct {
	FullName    string `json:"full_name"`
	HouseNumber string `json:"house_number"`
}

// plainValidating returns a non-domain error from Validate.
type plainValidating struct {
	FullName string `json:"full_name"`
}

func (r *plainValidating) Validate() error {
	if r.FullName == "" {
		return errors.New("full_name is required")
	}
	return nil
}

type preparedRequest struct {
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	sanitized bool
}

func (r *preparedRequest) Sanitize() {
	r.sanitized = true
	r.Title = strings.TrimSpace(r.Title)
}

func (r *preparedRequest) Normalize() {}

func (r *preparedRequest) Validate() error {
	fields := validation.Errors{}
	fields.Required("title", r.Title)
	if !r.Amount.IsPositive() {
		fields.Add("amount", "must be a positive amount")
	}
	return fields.Err("")
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBind(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	post := func(path, body string) *http.Request {
		return httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	}

	t.Run("decodes body", func(t *testing.T) {
		w := httptest.NewRecorder()

		result, ok := Bind[tenantRequest](w, post("/tenants/add/", `{"full_name":"Ada Obi","house_number":"12B"}`), logger)

		require.True(t, ok)
		assert.Equal(t, "Ada Obi", result.FullName)
		assert.Equal(t, "12B", result.HouseNumber)
	})

	t.Run("malformed JSON is bad_request", func(t *testing.T) {
		w := httptest.NewRecorder()

		result, ok := Bind[tenantRequest](w, post("/tenants/add/", `{invalid`), logger)

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeError(t, w).Error)
	})

	t.Run("second JSON value is bad_request", func(t *testing.T) {
		w := httptest.NewRecorder()

		_, ok := Bind[tenantRequest](w, post("/tenants/add/", `{"full_name":"Ada"}{"full_name":"Bola"}`), logger)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversized body is 413", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := post("/tenants/add/", `{"full_name":"`+strings.Repeat("a", 64)+`"}`)
		req.Body = http.MaxBytesReader(w, req.Body, 16)

		_, ok := Bind[tenantRequest](w, req, logger)

		assert.False(t, ok)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("runs hooks and accepts valid request", func(t *testing.T) {
		w := httptest.NewRecorder()

		result, ok := Bind[preparedRequest](w, post("/payment-issues/", `{"title":"  Security Fee ","amount":"500.00"}`), logger)

		require.True(t, ok)
		assert.True(t, result.sanitized)
		assert.Equal(t, "Security Fee", result.Title)
		assert.True(t, result.Amount.Equal(decimal.RequireFromString("500")))
	})

	t.Run("validation failure carries fields", func(t *testing.T) {
		w := httptest.NewRecorder()

		_, ok := Bind[preparedRequest](w, post("/payment-issues/", `{"title":" ","amount":0}`), logger)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "validation_error", resp.Error)
		assert.Equal(t, "is required", resp.Fields["title"])
		assert.Equal(t, "must be a positive amount", resp.Fields["amount"])
	})

	t.Run("plain validate error becomes validation_error", func(t *testing.T) {
		w := httptest.NewRecorder()

		_, ok := Bind[plainValidating](w, post("/tenants/add/", `{"full_name":""}`), logger)

		assert.False(t, ok)
		resp := decodeError(t, w)
		assert.Equal(t, "validation_error", resp.Error)
		assert.Equal(t, "full_name is required", resp.ErrorDescription)
	})
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", dErrors.New(dErrors.CodeValidation, "amount must be a positive amount"), http.StatusBadRequest, "validation_error"},
		{"not found folds to 400", dErrors.New(dErrors.CodeNotFound, "payment due not found"), http.StatusBadRequest, "not_found"},
		{"already settled folds to 400", dErrors.New(dErrors.CodeAlreadySettled, "payment already made for this due"), http.StatusBadRequest, "already_settled"},
		{"forbidden folds to 400", dErrors.New(dErrors.CodeForbidden, "only estate admins can record payments"), http.StatusBadRequest, "forbidden"},
		{"unauthorized", dErrors.New(dErrors.CodeUnauthorized, "authentication required"), http.StatusUnauthorized, "unauthorized"},
		{"conflict", dErrors.New(dErrors.CodeConflict, "username already taken"), http.StatusConflict, "conflict"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tc.err)

			assert.Equal(t, tc.status, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tc.code, resp.Error)
			assert.Equal(t, tc.err.Error(), resp.ErrorDescription)
		})
	}

	t.Run("internal errors hide the cause", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "failed to settle payment"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "internal_error", resp.Error)
		assert.Equal(t, "internal server error", resp.ErrorDescription)
	})

	t.Run("non-domain errors are internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
