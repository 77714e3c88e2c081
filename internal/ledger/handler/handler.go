package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"estate-ledger/internal/ledger/models"
	"estate-ledger/internal/ledger/service"
	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/httputil"
	"estate-ledger/pkg/requestcontext"
)

// Service defines the ledger operations behind the HTTP surface.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	CreateIssue(ctx context.Context, p *requestcontext.Principal, cmd *service.CreateIssueCommand) (*models.IssueBroadcast, error)
	SettlePayment(ctx context.Context, p *requestcontext.Principal, cmd *service.SettlePaymentCommand) (*models.Payment, error)
	AddTenant(ctx context.Context, p *requestcontext.Principal, cmd *service.AddTenantCommand) (*models.Tenant, error)
	ListTenants(ctx context.Context, p *requestcontext.Principal) ([]*models.Tenant, error)
	GetTenant(ctx context.Context, p *requestcontext.Principal, tenantID id.TenantID) (*models.Tenant, error)
	RecordExpense(ctx context.Context, p *requestcontext.Principal, cmd *service.RecordExpenseCommand) (*models.Expense, error)
	ListExpenses(ctx context.Context, p *requestcontext.Principal) ([]*models.Expense, error)
	ListIssues(ctx context.Context, p *requestcontext.Principal) ([]*models.PaymentIssue, error)
	ListUnpaidDues(ctx context.Context, p *requestcontext.Principal) ([]*models.UnpaidDue, error)
	ListPayments(ctx context.Context, p *requestcontext.Principal) ([]*models.Payment, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the ledger routes. Callers wrap r with the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/tenants/add/", h.HandleAddTenant)
	r.Get("/tenants/", h.HandleListTenants)
	r.Get("/tenants/{id}/", h.HandleGetTenant)
	r.Post("/payment-issues/", h.HandleCreateIssue)
	r.Get("/list-issues/", h.HandleListIssues)
	r.Post("/create-payment/", h.HandleSettlePayment)
	r.Get("/payments/", h.HandleListPayments)
	r.Get("/list-due-payment/", h.HandleListUnpaidDues)
	r.Post("/create-expense/", h.HandleRecordExpense)
	r.Get("/list-expenses/", h.HandleListExpenses)
}

// HandleCreateIssue broadcasts a payment issue to every tenant of the caller's estate.
func (h *Handler) HandleCreateIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	p, err := httputil.RequirePrincipal(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.Bind[CreateIssueRequest](w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.service.CreateIssue(ctx, p, req.toCommand())
	if err != nil {
		h.logFailure(ctx, "create payment issue failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, &IssueCreateResponse{
		IssueResponse: toIssueResponse(result.Issue),
		DuesCreated:   result.DuesCreated,
	})
}

// HandleSettlePayment records a payment against one due.
func (h *Handler) HandleSettlePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	p, err := httputil.RequirePrincipal(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.Bind[SettlePaymentRequest](w, r, h.logger)
	if !ok {
		return
	}
	cmd, err := req.toCommand()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	payment, err := h.service.SettlePayment(ctx, p, cmd)
	if err != nil {
		h.logFailure(ctx, "settle payment failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

func (h *Handler) HandleAddTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	p, err := httputil.RequirePrincipal(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.Bind[AddTenantRequest](w, r, h.logger)
	if !ok {
		return
	}

	tenant, err := h.service.AddTenant(ctx, p, &service.AddTenantCommand{
		FullName:    req.FullName,
		HouseNumber: req.HouseNumber,
	})
	if err != nil {
		h.logFailure(ctx, "add tenant failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toTenantResponse(tenant))
}

func (h *Handler) HandleListTenants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	p, err := httputil.RequirePrincipal(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	tenants, err := h.service.ListTenants(ctx, p)
	if err != nil {
		h.logFailure(ctx, "list tenants failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, mapSlice(tenants, toTenantResponse))
}

func (h *Handler) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	p, err := httputil.RequirePrincipal(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	tenantID, err := id.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}

	tenant, err := h.service.GetTenant(ctx, p, tenantID)
	if err != nil {
		h.logFailure(ctx, "get tenant failed", err, requestID, "tenant_id", tenantID.String())
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toTenantResponse(tenant))
}

func (h *Handler) HandleListIssues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	p, err := httputil.RequirePrincipal(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	issues, err := h.service.ListIssues(ctx, p)
	if err != nil {
		h.logFailure(ctx, "list payment issues failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, mapSlice(issues, toIssueResponse))
}

func (h *Handler) HandleListPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	p, err := httputil.RequirePrincipal(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	payments, err := h.service.ListPayments(ctx, p)
	if err != nil {
		h.logFailure(ctx, "list payments failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, mapSlice(payments, toPaymentResponse))
}

func (h *Handler) HandleListUnpaidDues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	p, err := httputil.RequirePrincipal(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	dues, err := h.service.ListUnpaidDues(ctx, p)
	if err != nil {
		h.logFailure(ctx, "list unpaid dues failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, mapSlice(dues, toUnpaidDueResponse))
}

func (h *Handler) HandleRecordExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	p, err := httputil.RequirePrincipal(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.Bind[RecordExpenseRequest](w, r, h.logger)
	if !ok {
		return
	}

	expense, err := h.service.RecordExpense(ctx, p, req.toCommand())
	if err != nil {
		h.logFailure(ctx, "record expense failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (h *Handler) HandleListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	p, err := httputil.RequirePrincipal(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	expenses, err := h.service.ListExpenses(ctx, p)
	if err != nil {
		h.logFailure(ctx, "list expenses failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, mapSlice(expenses, toExpenseResponse))
}

// logFailure logs client mistakes at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, requestID string, attrs ...any) {
	attrs = append(attrs, "error", err, "request_id", requestID)
	if dErrors.CodeOf(err).ServerFault() {
		h.logger.ErrorContext(ctx, msg, attrs...)
		return
	}
	h.logger.WarnContext(ctx, msg, attrs...)
}
