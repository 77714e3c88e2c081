package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"estate-ledger/internal/ledger/models"
	id "estate-ledger/pkg/domain"
	"estate-ledger/pkg/platform/sentinel"
	txcontext "estate-ledger/pkg/platform/tx"
)

// duesPerInsert keeps one multi-row INSERT well under the 65535 parameter limit.
const duesPerInsert = 500

// PostgresStore persists the ledger in PostgreSQL. Statements join the
// transaction carried in context when there is one.
type PostgresStore struct {
	db *sql.DB
	tx *txcontext.PostgresTx
}

// NewPostgres constructs a PostgreSQL-backed ledger store.
func NewPostgres(db *sql.DB, txTimeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, tx: txcontext.NewPostgresTx(db, txTimeout)}
}

func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.tx.RunInTx(ctx, fn)
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Tenants

const tenantColumns = `id, estate_id, full_name, house_number, total_paid, total_due, is_owing, created_at`

func (s *PostgresStore) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	if tenant == nil {
		return fmt.Errorf("tenant is required")
	}
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO tenants (`+tenantColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		uuid.UUID(tenant.ID),
		uuid.UUID(tenant.EstateID),
		tenant.FullName,
		tenant.HouseNumber,
		tenant.TotalPaid,
		tenant.TotalDue,
		tenant.Owing,
		tenant.CreatedAt,
	)
	if err != nil {
		return translateWriteErr(err, "create tenant")
	}
	return nil
}

func (s *PostgresStore) FindTenant(ctx context.Context, estateID id.EstateID, tenantID id.TenantID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1 AND estate_id = $2`
	tenant, err := scanTenant(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(tenantID), uuid.UUID(estateID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	return tenant, nil
}

func (s *PostgresStore) ListTenants(ctx context.Context, estateID id.EstateID) ([]*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE estate_id = $1 ORDER BY full_name, id`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(estateID))
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	tenants := make([]*models.Tenant, 0)
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenants: %w", err)
	}
	return tenants, nil
}

func (s *PostgresStore) LockTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	tx, ok := txcontext.From(ctx)
	if !ok {
		return nil, sentinel.ErrNoTx
	}
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1 FOR UPDATE`
	tenant, err := scanTenant(tx.QueryRowContext(ctx, query, uuid.UUID(tenantID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock tenant: %w", err)
	}
	return tenant, nil
}

func (s *PostgresStore) SumTenantLedger(ctx context.Context, tenantID id.TenantID) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(amount) FROM payments WHERE tenant_id = $1), 0),
			COALESCE((SELECT SUM(amount_due) FROM tenant_payment_dues WHERE tenant_id = $1), 0)
	`
	var paid, due decimal.Decimal
	if err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(tenantID)).Scan(&paid, &due); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum tenant ledger: %w", err)
	}
	return paid, due, nil
}

func (s *PostgresStore) UpdateTenantTotals(ctx context.Context, tenant *models.Tenant) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE tenants
		SET total_paid = $2, total_due = $3, is_owing = $4
		WHERE id = $1
	`, uuid.UUID(tenant.ID), tenant.TotalPaid, tenant.TotalDue, tenant.Owing)
	if err != nil {
		return fmt.Errorf("update tenant totals: %w", err)
	}
	return requireRow(res, "update tenant totals")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*models.Tenant, error) {
	var t models.Tenant
	var tenantID, estateID uuid.UUID
	if err := row.Scan(&tenantID, &estateID, &t.FullName, &t.HouseNumber, &t.TotalPaid, &t.TotalDue, &t.Owing, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.ID = id.TenantID(tenantID)
	t.EstateID = id.EstateID(estateID)
	return &t, nil
}

// Issues and dues

const issueColumns = `id, estate_id, title, amount, description, date_issued, created_at`

func (s *PostgresStore) CreateIssue(ctx context.Context, issue *models.PaymentIssue) error {
	if issue == nil {
		return fmt.Errorf("payment issue is required")
	}
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO payment_issues (`+issueColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		uuid.UUID(issue.ID),
		uuid.UUID(issue.EstateID),
		issue.Title,
		issue.Amount,
		issue.Description,
		issue.DateIssued,
		issue.CreatedAt,
	)
	if err != nil {
		return translateWriteErr(err, "create payment issue")
	}
	return nil
}

// CreateDues inserts the batch in chunks. Callers run it inside RunInTx so a
// failing chunk rolls back the ones before it.
func (s *PostgresStore) CreateDues(ctx context.Context, dues []*models.TenantPaymentDue) error {
	exec := s.execer(ctx)
	for start := 0; start < len(dues); start += duesPerInsert {
		end := min(start+duesPerInsert, len(dues))
		chunk := dues[start:end]

		var b strings.Builder
		b.WriteString(`INSERT INTO tenant_payment_dues (id, tenant_id, issue_id, amount_due, is_paid, date_paid, created_at) VALUES `)
		args := make([]any, 0, len(chunk)*6)
		for i, d := range chunk {
			if i > 0 {
				b.WriteString(", ")
			}
			n := len(args)
			fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, FALSE, NULL, $%d)", n+1, n+2, n+3, n+4, n+5)
			args = append(args, uuid.UUID(d.ID), uuid.UUID(d.TenantID), uuid.UUID(d.IssueID), d.AmountDue, d.CreatedAt)
		}
		if _, err := exec.ExecContext(ctx, b.String(), args...); err != nil {
			return translateWriteErr(err, "create payment dues")
		}
	}
	return nil
}

func (s *PostgresStore) ListIssues(ctx context.Context, estateID id.EstateID) ([]*models.PaymentIssue, error) {
	query := `SELECT ` + issueColumns + ` FROM payment_issues WHERE estate_id = $1 ORDER BY created_at DESC, id`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(estateID))
	if err != nil {
		return nil, fmt.Errorf("list payment issues: %w", err)
	}
	defer rows.Close()

	issues := make([]*models.PaymentIssue, 0)
	for rows.Next() {
		var issue models.PaymentIssue
		var issueID, estate uuid.UUID
		if err := rows.Scan(&issueID, &estate, &issue.Title, &issue.Amount, &issue.Description, &issue.DateIssued, &issue.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment issue: %w", err)
		}
		issue.ID = id.IssueID(issueID)
		issue.EstateID = id.EstateID(estate)
		issues = append(issues, &issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment issues: %w", err)
	}
	return issues, nil
}

// LockDue locks the due row, scoped to its tenant, until the transaction ends.
func (s *PostgresStore) LockDue(ctx context.Context, tenantID id.TenantID, dueID id.DueID) (*models.TenantPaymentDue, error) {
	tx, ok := txcontext.From(ctx)
	if !ok {
		return nil, sentinel.ErrNoTx
	}
	query := `
		SELECT id, tenant_id, issue_id, amount_due, is_paid, date_paid, created_at
		FROM tenant_payment_dues
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE
	`
	var d models.TenantPaymentDue
	var dueUUID, tenantUUID, issueUUID uuid.UUID
	var datePaid sql.NullTime
	err := tx.QueryRowContext(ctx, query, uuid.UUID(dueID), uuid.UUID(tenantID)).
		Scan(&dueUUID, &tenantUUID, &issueUUID, &d.AmountDue, &d.IsPaid, &datePaid, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock payment due: %w", err)
	}
	d.ID = id.DueID(dueUUID)
	d.TenantID = id.TenantID(tenantUUID)
	d.IssueID = id.IssueID(issueUUID)
	if datePaid.Valid {
		d.DatePaid = &datePaid.Time
	}
	return &d, nil
}

func (s *PostgresStore) UpdateDue(ctx context.Context, due *models.TenantPaymentDue) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE tenant_payment_dues
		SET is_paid = $2, date_paid = $3
		WHERE id = $1
	`, uuid.UUID(due.ID), due.IsPaid, due.DatePaid)
	if err != nil {
		return fmt.Errorf("update payment due: %w", err)
	}
	return requireRow(res, "update payment due")
}

func (s *PostgresStore) ListUnpaidDues(ctx context.Context, estateID id.EstateID) ([]*models.UnpaidDue, error) {
	query := `
		SELECT d.id, t.id, t.full_name, i.id, i.title, d.amount_due
		FROM tenant_payment_dues d
		JOIN tenants t ON t.id = d.tenant_id
		JOIN payment_issues i ON i.id = d.issue_id
		WHERE t.estate_id = $1 AND NOT d.is_paid
		ORDER BY t.full_name, i.created_at, d.id
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(estateID))
	if err != nil {
		return nil, fmt.Errorf("list unpaid dues: %w", err)
	}
	defer rows.Close()

	dues := make([]*models.UnpaidDue, 0)
	for rows.Next() {
		var u models.UnpaidDue
		var dueID, tenantID, issueID uuid.UUID
		if err := rows.Scan(&dueID, &tenantID, &u.TenantName, &issueID, &u.IssueTitle, &u.AmountDue); err != nil {
			return nil, fmt.Errorf("scan unpaid due: %w", err)
		}
		u.DueID = id.DueID(dueID)
		u.TenantID = id.TenantID(tenantID)
		u.IssueID = id.IssueID(issueID)
		dues = append(dues, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unpaid dues: %w", err)
	}
	return dues, nil
}

// Payments

const paymentColumns = `id, estate_id, tenant_id, due_id, issue_id, amount, category, description, date, created_at`

func (s *PostgresStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment == nil {
		return fmt.Errorf("payment is required")
	}
	var issueID any
	if payment.IssueID != nil {
		issueID = uuid.UUID(*payment.IssueID)
	}
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		uuid.UUID(payment.ID),
		uuid.UUID(payment.EstateID),
		uuid.UUID(payment.TenantID),
		uuid.UUID(payment.DueID),
		issueID,
		payment.Amount,
		payment.Category,
		payment.Description,
		payment.Date,
		payment.CreatedAt,
	)
	if err != nil {
		return translateWriteErr(err, "create payment")
	}
	return nil
}

func (s *PostgresStore) ListPayments(ctx context.Context, estateID id.EstateID) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE estate_id = $1 ORDER BY date DESC, created_at DESC`
	return s.queryPayments(ctx, query, uuid.UUID(estateID))
}

// PaymentsBetween returns the estate's payments dated in [from, to).
func (s *PostgresStore) PaymentsBetween(ctx context.Context, estateID id.EstateID, from, to time.Time) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE estate_id = $1 AND date >= $2 AND date < $3
		ORDER BY date DESC, created_at DESC`
	return s.queryPayments(ctx, query, uuid.UUID(estateID), from, to)
}

func (s *PostgresStore) queryPayments(ctx context.Context, query string, args ...any) ([]*models.Payment, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]*models.Payment, 0)
	for rows.Next() {
		var p models.Payment
		var paymentID, estateID, tenantID, dueID uuid.UUID
		var issueID uuid.NullUUID
		if err := rows.Scan(&paymentID, &estateID, &tenantID, &dueID, &issueID, &p.Amount, &p.Category, &p.Description, &p.Date, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.ID = id.PaymentID(paymentID)
		p.EstateID = id.EstateID(estateID)
		p.TenantID = id.TenantID(tenantID)
		p.DueID = id.DueID(dueID)
		if issueID.Valid {
			issue := id.IssueID(issueID.UUID)
			p.IssueID = &issue
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}

// Expenses

const expenseColumns = `id, estate_id, category, description, amount, date_spent, recorded_by, created_at`

func (s *PostgresStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense == nil {
		return fmt.Errorf("expense is required")
	}
	var recordedBy any
	if expense.RecordedBy != nil {
		recordedBy = uuid.UUID(*expense.RecordedBy)
	}
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		uuid.UUID(expense.ID),
		uuid.UUID(expense.EstateID),
		string(expense.Category),
		expense.Description,
		expense.Amount,
		expense.DateSpent,
		recordedBy,
		expense.CreatedAt,
	)
	if err != nil {
		return translateWriteErr(err, "create expense")
	}
	return nil
}

func (s *PostgresStore) ListExpenses(ctx context.Context, estateID id.EstateID) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE estate_id = $1 ORDER BY date_spent DESC, created_at DESC`
	return s.queryExpenses(ctx, query, uuid.UUID(estateID))
}

// ExpensesBetween returns the estate's expenses spent in [from, to).
func (s *PostgresStore) ExpensesBetween(ctx context.Context, estateID id.EstateID, from, to time.Time) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses
		WHERE estate_id = $1 AND date_spent >= $2 AND date_spent < $3
		ORDER BY date_spent DESC, created_at DESC`
	return s.queryExpenses(ctx, query, uuid.UUID(estateID), from, to)
}

func (s *PostgresStore) queryExpenses(ctx context.Context, query string, args ...any) ([]*models.Expense, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*models.Expense, 0)
	for rows.Next() {
		var e models.Expense
		var expenseID, estateID uuid.UUID
		var category string
		var recordedBy uuid.NullUUID
		if err := rows.Scan(&expenseID, &estateID, &category, &e.Description, &e.Amount, &e.DateSpent, &recordedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.ID = id.ExpenseID(expenseID)
		e.EstateID = id.EstateID(estateID)
		e.Category = models.ExpenseCategory(category)
		if recordedBy.Valid {
			account := id.AccountID(recordedBy.UUID)
			e.RecordedBy = &account
		}
		expenses = append(expenses, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// Reporting

func (s *PostgresStore) SumPaymentsBetween(ctx context.Context, estateID id.EstateID, from, to time.Time) (decimal.Decimal, error) {
	return s.sum(ctx, "sum payments",
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE estate_id = $1 AND date >= $2 AND date < $3`,
		uuid.UUID(estateID), from, to)
}

func (s *PostgresStore) SumExpensesBetween(ctx context.Context, estateID id.EstateID, from, to time.Time) (decimal.Decimal, error) {
	return s.sum(ctx, "sum expenses",
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE estate_id = $1 AND date_spent >= $2 AND date_spent < $3`,
		uuid.UUID(estateID), from, to)
}

func (s *PostgresStore) sum(ctx context.Context, op, query string, args ...any) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := s.execer(ctx).QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

func (s *PostgresStore) EstateTotals(ctx context.Context, estateID id.EstateID) (models.EstateTotals, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(amount) FROM payments WHERE estate_id = $1), 0),
			COALESCE((SELECT SUM(amount) FROM expenses WHERE estate_id = $1), 0),
			COALESCE((
				SELECT SUM(d.amount_due)
				FROM tenant_payment_dues d
				JOIN tenants t ON t.id = d.tenant_id
				WHERE t.estate_id = $1 AND NOT d.is_paid
			), 0),
			(SELECT COUNT(*) FROM tenants WHERE estate_id = $1 AND total_paid < total_due)
	`
	var totals models.EstateTotals
	err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(estateID)).
		Scan(&totals.TotalPayments, &totals.TotalExpenses, &totals.Outstanding, &totals.OwingTenants)
	if err != nil {
		return models.EstateTotals{}, fmt.Errorf("estate totals: %w", err)
	}
	return totals, nil
}

func requireRow(res sql.Result, op string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
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
