package revocation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostgresTRL persists revoked token ids in PostgreSQL.
type PostgresTRL struct {
	db *sql.DB
}

func NewPostgresTRL(db *sql.DB) *PostgresTRL {
	return &PostgresTRL{db: db}
}

func (t *PostgresTRL) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := t.db.ExecContext(ctx, `
		INSERT INTO token_revocations (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO UPDATE SET
			expires_at = GREATEST(token_revocations.expires_at, EXCLUDED.expires_at)
	`, jti, expiresAt)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (t *PostgresTRL) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := t.db.QueryRowContext(ctx,
		`SELECT expires_at > NOW() FROM token_revocations WHERE jti = $1`, jti,
	).Scan(&revoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return revoked, nil
}

// PurgeExpired deletes rows whose tokens have expired and returns how many went.
func (t *PostgresTRL) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := t.db.ExecContext(ctx, `DELETE FROM token_revocations WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("purge token revocations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge token revocations rows: %w", err)
	}
	return n, nil
}
