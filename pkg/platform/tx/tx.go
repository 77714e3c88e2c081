// Package txcontext carries a *sql.Tx through context and runs Postgres units of work.
package txcontext

import (
	"context"
	"database/sql"
	"time"

	dErrors "estate-ledger/pkg/domain-errors"
)

// DefaultTimeout bounds a unit of work whose caller set no deadline.
const DefaultTimeout = 5 * time.Second

type txKey struct{}

func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// From returns the transaction opened by an enclosing RunInTx, if any.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok && tx != nil
}

// PostgresTx runs functions inside a database/sql transaction.
type PostgresTx struct {
	db      *sql.DB
	timeout time.Duration
	opts    *sql.TxOptions
}

// NewPostgresTx returns a runner using READ COMMITTED, the isolation the
// row locks in the ledger store are written against.
func NewPostgresTx(db *sql.DB, timeout time.Duration) *PostgresTx {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PostgresTx{db: db, timeout: timeout, opts: &sql.TxOptions{Isolation: sql.LevelReadCommitted}}
}

// RunInTx commits when fn returns nil and rolls back otherwise. Nested calls
// join the outer transaction.
func (t *PostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, ok := From(ctx); ok {
		return fn(ctx)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, t.opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is a no-op
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}
