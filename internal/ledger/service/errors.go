package service

import (
	"errors"

	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/sentinel"
	"estate-ledger/pkg/requestcontext"
)

// requireMember admits any account of an estate.
func requireMember(p *requestcontext.Principal) error {
	if p == nil || p.EstateID.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return nil
}

// requireAdmin admits estate admins only; action completes "only estate admins can ...".
func requireAdmin(p *requestcontext.Principal, action string) error {
	if err := requireMember(p); err != nil {
		return err
	}
	if !p.IsAdmin {
		return dErrors.New(dErrors.CodeForbidden, "only estate admins can "+action)
	}
	return nil
}

// wrapStoreErr translates store sentinels into domain errors exactly once.
// Errors that already carry a domain code pass through.
func wrapStoreErr(err error, notFoundMsg, internalMsg string) error {
	switch {
	case dErrors.IsDomain(err):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	case errors.Is(err, sentinel.ErrAlreadyUsed), errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, internalMsg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
	}
}
