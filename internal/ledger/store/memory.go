package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"estate-ledger/internal/ledger/models"
	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/sentinel"
	txcontext "estate-ledger/pkg/platform/tx"
)

// Error Contract:
// - ErrNotFound when the requested row does not exist or is outside the caller's scope
// - ErrAlreadyUsed when a uniqueness rule would be broken
// - ErrNoTx when a lock is requested outside RunInTx

// InMemoryStore keeps the ledger in maps. The committed state is never
// mutated: a transaction works on a private copy and publishes it on commit,
// so readers outside the transaction see either all of it or none of it.
// Transactions are serialized, which makes every lock exclusive.
type InMemoryStore struct {
	mu      sync.RWMutex
	txSem   chan struct{}
	timeout time.Duration

	committed *ledgerState
}

type ledgerState struct {
	mu sync.RWMutex

	tenants      map[id.TenantID]*models.Tenant
	issues       map[id.IssueID]*models.PaymentIssue
	dues         map[id.DueID]*models.TenantPaymentDue
	payments     map[id.PaymentID]*models.Payment
	paymentByDue map[id.DueID]id.PaymentID
	expenses     map[id.ExpenseID]*models.Expense
}

// clone is shallow: stored pointers are replaced on update, never mutated.
func (st *ledgerState) clone() *ledgerState {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return &ledgerState{
		tenants:      cloneMap(st.tenants),
		issues:       cloneMap(st.issues),
		dues:         cloneMap(st.dues),
		payments:     cloneMap(st.payments),
		paymentByDue: cloneMap(st.paymentByDue),
		expenses:     cloneMap(st.expenses),
	}
}

type memoryTxKey struct{}

type memoryTx struct {
	store *InMemoryStore
	work  *ledgerState
}

// NewInMemory builds an empty store. A zero timeout uses the 5s default.
func NewInMemory(timeout time.Duration) *InMemoryStore {
	if timeout <= 0 {
		timeout = txcontext.DefaultTimeout
	}
	return &InMemoryStore{
		txSem:   make(chan struct{}, 1),
		timeout: timeout,
		committed: &ledgerState{
			tenants:      make(map[id.TenantID]*models.Tenant),
			issues:       make(map[id.IssueID]*models.PaymentIssue),
			dues:         make(map[id.DueID]*models.TenantPaymentDue),
			payments:     make(map[id.PaymentID]*models.Payment),
			paymentByDue: make(map[id.DueID]id.PaymentID),
			expenses:     make(map[id.ExpenseID]*models.Expense),
		},
	}
}

// RunInTx runs fn as one atomic unit. Nested calls join the outer transaction.
// Writes made by fn become visible to other callers only when fn succeeds.
func (s *InMemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx(ctx) != nil {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	select {
	case s.txSem <- struct{}{}:
	case <-ctx.Done():
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "transaction aborted: waiting for lock")
	}
	defer func() { <-s.txSem }()

	tx := &memoryTx{store: s, work: s.current().clone()}
	if err := fn(context.WithValue(ctx, memoryTxKey{}, tx)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	s.mu.Lock()
	s.committed = tx.work
	s.mu.Unlock()
	return nil
}

func (s *InMemoryStore) tx(ctx context.Context) *memoryTx {
	tx, ok := ctx.Value(memoryTxKey{}).(*memoryTx)
	if !ok || tx.store != s {
		return nil
	}
	return tx
}

func (s *InMemoryStore) current() *ledgerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed
}

// state is what ctx reads: the transaction's working copy inside RunInTx,
// the committed state otherwise.
func (s *InMemoryStore) state(ctx context.Context) *ledgerState {
	if tx := s.tx(ctx); tx != nil {
		return tx.work
	}
	return s.current()
}

// read runs fn under the read lock of the state ctx sees.
func (s *InMemoryStore) read(ctx context.Context, fn func(st *ledgerState)) {
	st := s.state(ctx)
	st.mu.RLock()
	defer st.mu.RUnlock()
	fn(st)
}

// write runs fn against the working copy, inside a transaction when the
// caller has none.
func (s *InMemoryStore) write(ctx context.Context, fn func(st *ledgerState) error) error {
	tx := s.tx(ctx)
	if tx == nil {
		return s.RunInTx(ctx, func(txCtx context.Context) error {
			return s.write(txCtx, fn)
		})
	}
	tx.work.mu.Lock()
	defer tx.work.mu.Unlock()
	return fn(tx.work)
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyOf[T any](v *T) *T {
	c := *v
	return &c
}

func copyDue(d *models.TenantPaymentDue) *models.TenantPaymentDue {
	c := *d
	if d.DatePaid != nil {
		paid := *d.DatePaid
		c.DatePaid = &paid
	}
	return &c
}

func copyPayment(p *models.Payment) *models.Payment {
	c := *p
	if p.IssueID != nil {
		issueID := *p.IssueID
		c.IssueID = &issueID
	}
	return &c
}

func copyExpense(e *models.Expense) *models.Expense {
	c := *e
	if e.RecordedBy != nil {
		by := *e.RecordedBy
		c.RecordedBy = &by
	}
	return &c
}

// Tenants

func (s *InMemoryStore) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	return s.write(ctx, func(st *ledgerState) error {
		if _, exists := st.tenants[tenant.ID]; exists {
			return sentinel.ErrAlreadyUsed
		}
		st.tenants[tenant.ID] = copyOf(tenant)
		return nil
	})
}

func (s *InMemoryStore) FindTenant(ctx context.Context, estateID id.EstateID, tenantID id.TenantID) (*models.Tenant, error) {
	var found *models.Tenant
	s.read(ctx, func(st *ledgerState) {
		if t, ok := st.tenants[tenantID]; ok && t.EstateID == estateID {
			found = copyOf(t)
		}
	})
	if found == nil {
		return nil, sentinel.ErrNotFound
	}
	return found, nil
}

func (s *InMemoryStore) ListTenants(ctx context.Context, estateID id.EstateID) ([]*models.Tenant, error) {
	tenants := make([]*models.Tenant, 0)
	s.read(ctx, func(st *ledgerState) {
		for _, t := range st.tenants {
			if t.EstateID == estateID {
				tenants = append(tenants, copyOf(t))
			}
		}
	})
	sort.Slice(tenants, func(i, j int) bool {
		if tenants[i].FullName != tenants[j].FullName {
			return tenants[i].FullName < tenants[j].FullName
		}
		return tenants[i].ID.String() < tenants[j].ID.String()
	})
	return tenants, nil
}

func (s *InMemoryStore) LockTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	if s.tx(ctx) == nil {
		return nil, sentinel.ErrNoTx
	}
	var found *models.Tenant
	s.read(ctx, func(st *ledgerState) {
		if t, ok := st.tenants[tenantID]; ok {
			found = copyOf(t)
		}
	})
	if found == nil {
		return nil, sentinel.ErrNotFound
	}
	return found, nil
}

func (s *InMemoryStore) SumTenantLedger(ctx context.Context, tenantID id.TenantID) (decimal.Decimal, decimal.Decimal, error) {
	paid, due := decimal.Zero, decimal.Zero
	s.read(ctx, func(st *ledgerState) {
		for _, p := range st.payments {
			if p.TenantID == tenantID {
				paid = paid.Add(p.Amount)
			}
		}
		for _, d := range st.dues {
			if d.TenantID == tenantID {
				due = due.Add(d.AmountDue)
			}
		}
	})
	return paid, due, nil
}

func (s *InMemoryStore) UpdateTenantTotals(ctx context.Context, tenant *models.Tenant) error {
	return s.write(ctx, func(st *ledgerState) error {
		current, ok := st.tenants[tenant.ID]
		if !ok {
			return sentinel.ErrNotFound
		}
		updated := copyOf(current)
		updated.TotalPaid = tenant.TotalPaid
		updated.TotalDue = tenant.TotalDue
		updated.Owing = tenant.Owing
		st.tenants[tenant.ID] = updated
		return nil
	})
}

// Issues and dues

func (s *InMemoryStore) CreateIssue(ctx context.Context, issue *models.PaymentIssue) error {
	return s.write(ctx, func(st *ledgerState) error {
		if _, exists := st.issues[issue.ID]; exists {
			return sentinel.ErrAlreadyUsed
		}
		st.issues[issue.ID] = copyOf(issue)
		return nil
	})
}

// CreateDues checks the whole batch before inserting any of it.
func (s *InMemoryStore) CreateDues(ctx context.Context, dues []*models.TenantPaymentDue) error {
	return s.write(ctx, func(st *ledgerState) error {
		type pair struct {
			tenant id.TenantID
			issue  id.IssueID
		}
		taken := make(map[pair]bool, len(st.dues))
		for _, d := range st.dues {
			taken[pair{d.TenantID, d.IssueID}] = true
		}
		for _, d := range dues {
			if _, ok := st.tenants[d.TenantID]; !ok {
				return sentinel.ErrNotFound
			}
			if _, ok := st.issues[d.IssueID]; !ok {
				return sentinel.ErrNotFound
			}
			key := pair{d.TenantID, d.IssueID}
			if _, exists := st.dues[d.ID]; exists || taken[key] {
				return sentinel.ErrAlreadyUsed
			}
			taken[key] = true
		}
		for _, d := range dues {
			st.dues[d.ID] = copyDue(d)
		}
		return nil
	})
}

func (s *InMemoryStore) ListIssues(ctx context.Context, estateID id.EstateID) ([]*models.PaymentIssue, error) {
	issues := make([]*models.PaymentIssue, 0)
	s.read(ctx, func(st *ledgerState) {
		for _, i := range st.issues {
			if i.EstateID == estateID {
				issues = append(issues, copyOf(i))
			}
		}
	})
	sort.Slice(issues, func(i, j int) bool {
		return issues[i].CreatedAt.After(issues[j].CreatedAt)
	})
	return issues, nil
}

func (s *InMemoryStore) LockDue(ctx context.Context, tenantID id.TenantID, dueID id.DueID) (*models.TenantPaymentDue, error) {
	if s.tx(ctx) == nil {
		return nil, sentinel.ErrNoTx
	}
	var found *models.TenantPaymentDue
	s.read(ctx, func(st *ledgerState) {
		if d, ok := st.dues[dueID]; ok && d.BelongsTo(tenantID) {
			found = copyDue(d)
		}
	})
	if found == nil {
		return nil, sentinel.ErrNotFound
	}
	return found, nil
}

func (s *InMemoryStore) UpdateDue(ctx context.Context, due *models.TenantPaymentDue) error {
	return s.write(ctx, func(st *ledgerState) error {
		if _, ok := st.dues[due.ID]; !ok {
			return sentinel.ErrNotFound
		}
		st.dues[due.ID] = copyDue(due)
		return nil
	})
}

func (s *InMemoryStore) ListUnpaidDues(ctx context.Context, estateID id.EstateID) ([]*models.UnpaidDue, error) {
	type row struct {
		view     *models.UnpaidDue
		issuedAt time.Time
	}
	rows := make([]row, 0)
	s.read(ctx, func(st *ledgerState) {
		for _, d := range st.dues {
			if d.IsPaid {
				continue
			}
			t, ok := st.tenants[d.TenantID]
			if !ok || t.EstateID != estateID {
				continue
			}
			issue := st.issues[d.IssueID]
			rows = append(rows, row{
				view: &models.UnpaidDue{
					DueID:      d.ID,
					TenantID:   t.ID,
					TenantName: t.FullName,
					IssueID:    issue.ID,
					IssueTitle: issue.Title,
					AmountDue:  d.AmountDue,
				},
				issuedAt: issue.CreatedAt,
			})
		}
	})
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].view.TenantName != rows[j].view.TenantName {
			return rows[i].view.TenantName < rows[j].view.TenantName
		}
		return rows[i].issuedAt.Before(rows[j].issuedAt)
	})
	dues := make([]*models.UnpaidDue, len(rows))
	for i, r := range rows {
		dues[i] = r.view
	}
	return dues, nil
}

// Payments

func (s *InMemoryStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return s.write(ctx, func(st *ledgerState) error {
		if _, ok := st.dues[payment.DueID]; !ok {
			return sentinel.ErrNotFound
		}
		if _, exists := st.paymentByDue[payment.DueID]; exists {
			return sentinel.ErrAlreadyUsed
		}
		if _, exists := st.payments[payment.ID]; exists {
			return sentinel.ErrAlreadyUsed
		}
		st.payments[payment.ID] = copyPayment(payment)
		st.paymentByDue[payment.DueID] = payment.ID
		return nil
	})
}

func (s *InMemoryStore) ListPayments(ctx context.Context, estateID id.EstateID) ([]*models.Payment, error) {
	return s.filterPayments(ctx, func(p *models.Payment) bool { return p.EstateID == estateID }), nil
}

// PaymentsBetween returns the estate's payments dated in [from, to).
func (s *InMemoryStore) PaymentsBetween(ctx context.Context, estateID id.EstateID, from, to time.Time) ([]*models.Payment, error) {
	return s.filterPayments(ctx, func(p *models.Payment) bool {
		return p.EstateID == estateID && inPeriod(p.Date, from, to)
	}), nil
}

func (s *InMemoryStore) filterPayments(ctx context.Context, keep func(*models.Payment) bool) []*models.Payment {
	payments := make([]*models.Payment, 0)
	s.read(ctx, func(st *ledgerState) {
		for _, p := range st.payments {
			if keep(p) {
				payments = append(payments, copyPayment(p))
			}
		}
	})
	sort.Slice(payments, func(i, j int) bool {
		if !payments[i].Date.Equal(payments[j].Date) {
			return payments[i].Date.After(payments[j].Date)
		}
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	return payments
}

// Expenses

func (s *InMemoryStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	return s.write(ctx, func(st *ledgerState) error {
		if _, exists := st.expenses[expense.ID]; exists {
			return sentinel.ErrAlreadyUsed
		}
		st.expenses[expense.ID] = copyExpense(expense)
		return nil
	})
}

func (s *InMemoryStore) ListExpenses(ctx context.Context, estateID id.EstateID) ([]*models.Expense, error) {
	return s.filterExpenses(ctx, func(e *models.Expense) bool { return e.EstateID == estateID }), nil
}

// ExpensesBetween returns the estate's expenses spent in [from, to).
func (s *InMemoryStore) ExpensesBetween(ctx context.Context, estateID id.EstateID, from, to time.Time) ([]*models.Expense, error) {
	return s.filterExpenses(ctx, func(e *models.Expense) bool {
		return e.EstateID == estateID && inPeriod(e.DateSpent, from, to)
	}), nil
}

func (s *InMemoryStore) filterExpenses(ctx context.Context, keep func(*models.Expense) bool) []*models.Expense {
	expenses := make([]*models.Expense, 0)
	s.read(ctx, func(st *ledgerState) {
		for _, e := range st.expenses {
			if keep(e) {
				expenses = append(expenses, copyExpense(e))
			}
		}
	})
	sort.Slice(expenses, func(i, j int) bool {
		if !expenses[i].DateSpent.Equal(expenses[j].DateSpent) {
			return expenses[i].DateSpent.After(expenses[j].DateSpent)
		}
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})
	return expenses
}

// Reporting

func (s *InMemoryStore) SumPaymentsBetween(ctx context.Context, estateID id.EstateID, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	s.read(ctx, func(st *ledgerState) {
		for _, p := range st.payments {
			if p.EstateID == estateID && inPeriod(p.Date, from, to) {
				total = total.Add(p.Amount)
			}
		}
	})
	return total, nil
}

func (s *InMemoryStore) SumExpensesBetween(ctx context.Context, estateID id.EstateID, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	s.read(ctx, func(st *ledgerState) {
		for _, e := range st.expenses {
			if e.EstateID == estateID && inPeriod(e.DateSpent, from, to) {
				total = total.Add(e.Amount)
			}
		}
	})
	return total, nil
}

func (s *InMemoryStore) EstateTotals(ctx context.Context, estateID id.EstateID) (models.EstateTotals, error) {
	totals := models.EstateTotals{
		TotalPayments: decimal.Zero,
		TotalExpenses: decimal.Zero,
		Outstanding:   decimal.Zero,
	}
	s.read(ctx, func(st *ledgerState) {
		for _, p := range st.payments {
			if p.EstateID == estateID {
				totals.TotalPayments = totals.TotalPayments.Add(p.Amount)
			}
		}
		for _, e := range st.expenses {
			if e.EstateID == estateID {
				totals.TotalExpenses = totals.TotalExpenses.Add(e.Amount)
			}
		}
		for _, d := range st.dues {
			if t, ok := st.tenants[d.TenantID]; ok && t.EstateID == estateID && !d.IsPaid {
				totals.Outstanding = totals.Outstanding.Add(d.AmountDue)
			}
		}
		for _, t := range st.tenants {
			if t.EstateID == estateID && t.IsOwing() {
				totals.OwingTenants++
			}
		}
	})
	return totals, nil
}

func inPeriod(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
