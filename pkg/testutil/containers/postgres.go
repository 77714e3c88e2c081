//go:build integration

package containers

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"estate-ledger/internal/platform/database"
	"estate-ledger/migrations"
	id "estate-ledger/pkg/domain"
)

// ledgerTables lists every application table, children first.
var ledgerTables = []string{
	"token_revocations",
	"expenses",
	"payments",
	"tenant_payment_dues",
	"payment_issues",
	"tenants",
	"accounts",
	"users",
	"estates",
}

// PostgresContainer is a migrated Postgres 17 with an open pool.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts Postgres and applies the embedded migrations.
// Callers normally go through Postgres, which shares one instance.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:17-alpine",
		postgres.WithDatabase("estate_ledger_test"),
		postgres.WithUsername("ledger"),
		postgres.WithPassword("ledger_test_password"),
		// The server restarts once after init; wait for the second ready line.
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	pc := &PostgresContainer{Container: ctr}
	fail := func(step string, err error) {
		if pc.DB != nil {
			_ = pc.DB.Close()
		}
		_ = ctr.Terminate(ctx)
		t.Fatalf("%s: %v", step, err)
	}

	if pc.DSN, err = ctr.ConnectionString(ctx, "sslmode=disable"); err != nil {
		fail("postgres dsn", err)
	}
	if pc.DB, err = sql.Open("pgx", pc.DSN); err != nil {
		fail("open postgres", err)
	}
	if err := database.Migrate(ctx, pc.DB, migrations.FS, database.Up, nil); err != nil {
		fail("migrate postgres", err)
	}
	return pc
}

// TruncateTables empties the named tables in one statement.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+strings.Join(tables, ", ")+" CASCADE")
	return err
}

// TruncateAll empties every application table.
func (p *PostgresContainer) TruncateAll(ctx context.Context) error {
	return p.TruncateTables(ctx, ledgerTables...)
}

func (p *PostgresContainer) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return p.DB.ExecContext(ctx, query, args...)
}

// CreateTestEstate inserts a uniquely named estate and returns its id.
func (p *PostgresContainer) CreateTestEstate(ctx context.Context, t testing.TB) id.EstateID {
	t.Helper()
	estateID := id.NewEstateID()
	if _, err := p.Exec(ctx, `INSERT INTO estates (id, name) VALUES ($1, $2)`,
		uuid.UUID(estateID), "Test Estate "+uuid.NewString()); err != nil {
		t.Fatalf("create test estate: %v", err)
	}
	return estateID
}
