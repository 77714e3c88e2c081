package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"estate-ledger/internal/accounts/models"
	id "estate-ledger/pkg/domain"
	"estate-ledger/pkg/platform/sentinel"
	txcontext "estate-ledger/pkg/platform/tx"
)

// PostgresStore persists estates, users and accounts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
	tx *txcontext.PostgresTx
}

func NewPostgres(db *sql.DB, txTimeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, tx: txcontext.NewPostgresTx(db, txTimeout)}
}

func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.tx.RunInTx(ctx, fn)
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) CreateEstate(ctx context.Context, estate *models.Estate) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO estates (id, name, address, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.UUID(estate.ID), estate.Name, estate.Address, estate.CreatedAt,
	)
	if err != nil {
		return translateWriteErr(err, "create estate")
	}
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.UUID(user.ID), user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return translateWriteErr(err, "create user")
	}
	return nil
}

func (s *PostgresStore) CreateAccount(ctx context.Context, account *models.Account) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, estate_id, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.UUID(account.ID), uuid.UUID(account.UserID), uuid.UUID(account.EstateID), account.IsAdmin, account.CreatedAt)
	if err != nil {
		return translateWriteErr(err, "create account")
	}
	return nil
}

func (s *PostgresStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var (
		user   models.User
		userID uuid.UUID
	)
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE LOWER(username) = $1
	`, models.UsernameKey(username)).Scan(&userID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	user.ID = id.UserID(userID)
	return &user, nil
}

func (s *PostgresStore) FindMembership(ctx context.Context, userID id.UserID) (*models.Membership, error) {
	var (
		user                     models.User
		account                  models.Account
		estate                   models.Estate
		uid, accountID, estateID uuid.UUID
	)
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at,
		       a.id, a.is_admin, a.created_at,
		       e.id, e.name, e.address, e.created_at
		FROM accounts a
		JOIN users u ON u.id = a.user_id
		JOIN estates e ON e.id = a.estate_id
		WHERE a.user_id = $1
	`, uuid.UUID(userID)).Scan(
		&uid, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt,
		&accountID, &account.IsAdmin, &account.CreatedAt,
		&estateID, &estate.Name, &estate.Address, &estate.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find membership: %w", err)
	}
	user.ID = id.UserID(uid)
	estate.ID = id.EstateID(estateID)
	account.ID = id.AccountID(accountID)
	account.UserID = user.ID
	account.EstateID = estate.ID
	return &models.Membership{User: &user, Account: &account, Estate: &estate}, nil
}

// translateWriteErr maps constraint violations onto store sentinels.
func translateWriteErr(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, sentinel.ErrAlreadyUsed)
		case "23503":
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, sentinel.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
