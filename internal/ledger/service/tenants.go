package service

import (
	"context"

	"estate-ledger/internal/ledger/models"
	id "estate-ledger/pkg/domain"
	"estate-ledger/pkg/platform/middleware/requesttime"
	"estate-ledger/pkg/requestcontext"
)

// AddTenant enrolls a tenant in the caller's estate with zero balances.
// Issues created before enrollment are not back-filled.
func (s *Service) AddTenant(ctx context.Context, p *requestcontext.Principal, cmd *AddTenantCommand) (*models.Tenant, error) {
	if err := requireAdmin(p, "add tenants"); err != nil {
		return nil, err
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var tenant *models.Tenant
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := models.NewTenant(id.NewTenantID(), p.EstateID, cmd.FullName, cmd.HouseNumber, requesttime.Now(txCtx))
		if err != nil {
			return err
		}
		if err := s.store.CreateTenant(txCtx, t); err != nil {
			return wrapStoreErr(err, "estate not found", "failed to add tenant")
		}
		tenant = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementTenantsAdded()
	}
	s.logger.InfoContext(ctx, "tenant added",
		"estate_id", p.EstateID.String(),
		"tenant_id", tenant.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return tenant, nil
}

// ListTenants returns the estate's tenants ordered by name.
func (s *Service) ListTenants(ctx context.Context, p *requestcontext.Principal) ([]*models.Tenant, error) {
	if err := requireAdmin(p, "list tenants"); err != nil {
		return nil, err
	}
	tenants, err := s.store.ListTenants(ctx, p.EstateID)
	if err != nil {
		return nil, wrapStoreErr(err, "estate not found", "failed to list tenants")
	}
	return tenants, nil
}

// GetTenant returns one tenant with balances. Tenants of other estates are not found.
func (s *Service) GetTenant(ctx context.Context, p *requestcontext.Principal, tenantID id.TenantID) (*models.Tenant, error) {
	if err := requireMember(p); err != nil {
		return nil, err
	}
	tenant, err := s.store.FindTenant(ctx, p.EstateID, tenantID)
	if err != nil {
		return nil, wrapStoreErr(err, "tenant not found", "failed to load tenant")
	}
	return tenant, nil
}
