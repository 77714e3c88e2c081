package sentinel

import "errors"

// Sentinel dependency errors. Stores return these (optionally wrapped)
// so services can translate them into domain errors exactly once.
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
	ErrConflict    = errors.New("conflict")
	// ErrNoTx is returned by lock primitives invoked outside a transaction.
	ErrNoTx = errors.New("lock requires an active transaction")
)
