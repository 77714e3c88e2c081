package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"estate-ledger/internal/reporting/models"
	"estate-ledger/internal/reporting/service"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/httputil"
	"estate-ledger/pkg/requestcontext"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Service defines the reporting operations behind the HTTP surface.
type Service interface {
	MonthlySummary(ctx context.Context, p *requestcontext.Principal, q service.PeriodQuery) (*models.MonthlySummary, error)
	TotalSummary(ctx context.Context, p *requestcontext.Principal) (*models.TotalSummary, error)
	ExportWorkbook(ctx context.Context, p *requestcontext.Principal, q service.PeriodQuery) (*models.Workbook, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the reporting routes. Callers wrap r with the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/monthly-summary/", h.HandleMonthlySummary)
	r.Get("/total-summary/", h.HandleTotalSummary)
	r.Get("/export-data/", h.HandleExportData)
}

// HandleMonthlySummary reads ?month=&year=, both optional.
func (h *Handler) HandleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	p, err := httputil.RequirePrincipal(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	summary, err := h.service.MonthlySummary(ctx, p, periodQuery(r))
	if err != nil {
		h.logFailure(ctx, "monthly summary failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toMonthlySummaryResponse(summary))
}

func (h *Handler) HandleTotalSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	p, err := httputil.RequirePrincipal(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	summary, err := h.service.TotalSummary(ctx, p)
	if err != nil {
		h.logFailure(ctx, "total summary failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toTotalSummaryResponse(summary))
}

// HandleExportData streams the month's workbook as an attachment.
func (h *Handler) HandleExportData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	p, err := httputil.RequirePrincipal(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	wb, err := h.service.ExportWorkbook(ctx, p, periodQuery(r))
	if err != nil {
		h.logFailure(ctx, "export failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", wb.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(wb.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(wb.Content); err != nil {
		h.logger.WarnContext(ctx, "failed to write workbook", "error", err, "request_id", requestID)
	}
}

func periodQuery(r *http.Request) service.PeriodQuery {
	q := r.URL.Query()
	return service.PeriodQuery{Month: q.Get("month"), Year: q.Get("year")}
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error, requestID string) {
	if dErrors.CodeOf(err).ServerFault() {
		h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestID)
		return
	}
	h.logger.WarnContext(ctx, msg, "error", err, "request_id", requestID)
}
