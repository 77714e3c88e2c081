package revocation

import (
	"context"
	"sync"
	"time"
)

const defaultCleanupInterval = time.Minute

// List records logged-out token ids until the token would have expired anyway.
type List interface {
	// Revoke refuses jti until expiresAt. Revoking twice keeps the later expiry.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	// IsTokenRevoked reports whether jti was revoked and has not yet expired.
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// InMemoryTRL keeps revoked ids in a map swept by a background goroutine.
type InMemoryTRL struct {
	mu              sync.RWMutex
	revoked         map[string]time.Time
	cleanupInterval time.Duration
	now             func() time.Time
	stop            chan struct{}
	stopOnce        sync.Once
}

type Option func(*InMemoryTRL)

// WithCleanupInterval sets how often expired entries are swept. Zero keeps the default.
func WithCleanupInterval(d time.Duration) Option {
	return func(t *InMemoryTRL) {
		if d > 0 {
			t.cleanupInterval = d
		}
	}
}

// NewInMemoryTRL starts the sweeper; call Close to stop it.
func NewInMemoryTRL(opts ...Option) *InMemoryTRL {
	trl := &InMemoryTRL{
		revoked:         make(map[string]time.Time),
		cleanupInterval: defaultCleanupInterval,
		now:             time.Now,
		stop:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(trl)
	}
	go trl.cleanup()
	return trl
}

func (t *InMemoryTRL) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if current, ok := t.revoked[jti]; ok && current.After(expiresAt) {
		return nil
	}
	t.revoked[jti] = expiresAt
	return nil
}

func (t *InMemoryTRL) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	expiry, exists := t.revoked[jti]
	if !exists {
		return false, nil
	}
	return t.now().Before(expiry), nil
}

// Close stops the sweeper. It is safe to call more than once.
func (t *InMemoryTRL) Close() {
	t.stopOnce.Do(func() { close(t.stop) })
}

func (t *InMemoryTRL) cleanup() {
	ticker := time.NewTicker(t.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.sweep()
		}
	}
}

func (t *InMemoryTRL) sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	for jti, expiry := range t.revoked {
		if !now.Before(expiry) {
			delete(t.revoked, jti)
		}
	}
}
