package service

import (
	"context"

	"estate-ledger/internal/ledger/models"
	id "estate-ledger/pkg/domain"
	"estate-ledger/pkg/platform/tracer"
)

// balanceAggregator recomputes a tenant's accumulators from the ledger rows.
// It only runs inside the settlement transaction: the tenant row lock it takes
// orders concurrent settlements of different dues of the same tenant.
type balanceAggregator struct {
	store  TenantStore
	tracer tracer.Tracer
}

func (a *balanceAggregator) Recompute(ctx context.Context, tenantID id.TenantID) (tenant *models.Tenant, err error) {
	ctx, span := a.tracer.Start(ctx, tracer.SpanRecomputeBalance, tracer.String(tracer.AttrTenantID, tenantID.String()))
	defer func() { span.End(err) }()

	tenant, err = a.store.LockTenant(ctx, tenantID)
	if err != nil {
		return nil, wrapStoreErr(err, "tenant not found", "failed to lock tenant")
	}
	span.AddEvent(tracer.EventTenantLocked)

	totalPaid, totalDue, err := a.store.SumTenantLedger(ctx, tenantID)
	if err != nil {
		return nil, wrapStoreErr(err, "tenant not found", "failed to sum tenant ledger")
	}
	tenant.ApplyTotals(totalPaid, totalDue)

	if err := a.store.UpdateTenantTotals(ctx, tenant); err != nil {
		return nil, wrapStoreErr(err, "tenant not found", "failed to update tenant balance")
	}
	return tenant, nil
}
