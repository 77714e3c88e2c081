package store

import (
	"context"
	"maps"
	"sync"
	"time"

	"estate-ledger/internal/accounts/models"
	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/sentinel"
	txcontext "estate-ledger/pkg/platform/tx"
)

// Error Contract:
// - ErrNotFound when a user, account or estate does not exist
// - ErrAlreadyUsed when a username (case-insensitive) or a user's account is taken

// InMemoryStore keeps estates, users and accounts in maps. Transactions are
// serialized and roll back by restoring a shallow snapshot.
type InMemoryStore struct {
	mu      sync.RWMutex
	txSem   chan struct{}
	timeout time.Duration

	estates       map[id.EstateID]*models.Estate
	users         map[id.UserID]*models.User
	usersByName   map[string]id.UserID
	accounts      map[id.AccountID]*models.Account
	accountByUser map[id.UserID]id.AccountID
}

type memoryTxKey struct{}

type snapshot struct {
	estates       map[id.EstateID]*models.Estate
	users         map[id.UserID]*models.User
	usersByName   map[string]id.UserID
	accounts      map[id.AccountID]*models.Account
	accountByUser map[id.UserID]id.AccountID
}

func NewInMemory(timeout time.Duration) *InMemoryStore {
	if timeout <= 0 {
		timeout = txcontext.DefaultTimeout
	}
	return &InMemoryStore{
		txSem:         make(chan struct{}, 1),
		timeout:       timeout,
		estates:       make(map[id.EstateID]*models.Estate),
		users:         make(map[id.UserID]*models.User),
		usersByName:   make(map[string]id.UserID),
		accounts:      make(map[id.AccountID]*models.Account),
		accountByUser: make(map[id.UserID]id.AccountID),
	}
}

// RunInTx runs fn atomically. Nested calls join the outer transaction.
func (s *InMemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, ok := ctx.Value(memoryTxKey{}).(*InMemoryStore); ok && owner == s {
		return fn(ctx)
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

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, memoryTxKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *InMemoryStore) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		estates:       maps.Clone(s.estates),
		users:         maps.Clone(s.users),
		usersByName:   maps.Clone(s.usersByName),
		accounts:      maps.Clone(s.accounts),
		accountByUser: maps.Clone(s.accountByUser),
	}
}

func (s *InMemoryStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.estates = snap.estates
	s.users = snap.users
	s.usersByName = snap.usersByName
	s.accounts = snap.accounts
	s.accountByUser = snap.accountByUser
}

func (s *InMemoryStore) CreateEstate(_ context.Context, estate *models.Estate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.estates[estate.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	e := *estate
	s.estates[estate.ID] = &e
	return nil
}

func (s *InMemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.UsernameKey(user.Username)
	if _, taken := s.usersByName[key]; taken {
		return sentinel.ErrAlreadyUsed
	}
	if _, exists := s.users[user.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	u := *user
	s.users[user.ID] = &u
	s.usersByName[key] = user.ID
	return nil
}

func (s *InMemoryStore) CreateAccount(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[account.UserID]; !ok {
		return sentinel.ErrNotFound
	}
	if _, ok := s.estates[account.EstateID]; !ok {
		return sentinel.ErrNotFound
	}
	if _, taken := s.accountByUser[account.UserID]; taken {
		return sentinel.ErrAlreadyUsed
	}
	a := *account
	s.accounts[account.ID] = &a
	s.accountByUser[account.UserID] = account.ID
	return nil
}

func (s *InMemoryStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.usersByName[models.UsernameKey(username)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	u := *s.users[userID]
	return &u, nil
}

// FindMembership returns the user's account joined with its user and estate.
func (s *InMemoryStore) FindMembership(_ context.Context, userID id.UserID) (*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	accountID, ok := s.accountByUser[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	account := *s.accounts[accountID]
	estate, ok := s.estates[account.EstateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	u, e := *user, *estate
	return &models.Membership{User: &u, Account: &account, Estate: &e}, nil
}
