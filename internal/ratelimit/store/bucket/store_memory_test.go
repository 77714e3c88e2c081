package bucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-ledger/internal/ratelimit/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore() (*InMemoryBucketStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	store := NewInMemoryBucketStore()
	store.now = clock.Now
	return store, clock
}

func TestInMemoryBucketStore_Allow(t *testing.T) {
	ctx := context.Background()
	policy := models.Policy{Requests: 3, Window: time.Minute}

	t.Run("admits up to the limit then denies", func(t *testing.T) {
		store, _ := newTestStore()
		for i := range 3 {
			res, err := store.Allow(ctx, "k", policy)
			require.NoError(t, err)
			assert.True(t, res.Allowed)
			assert.Equal(t, 2-i, res.Remaining)
		}

		res, err := store.Allow(ctx, "k", policy)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, 60, res.RetryAfter)
	})

	t.Run("window slides", func(t *testing.T) {
		store, clock := newTestStore()
		_, _ = store.Allow(ctx, "k", policy)
		clock.Advance(30 * time.Second)
		_, _ = store.Allow(ctx, "k", policy)
		_, _ = store.Allow(ctx, "k", policy)

		res, _ := store.Allow(ctx, "k", policy)
		assert.False(t, res.Allowed)
		assert.Equal(t, 30, res.RetryAfter)

		clock.Advance(31 * time.Second)
		res, _ = store.Allow(ctx, "k", policy)
		assert.True(t, res.Allowed)
		assert.Equal(t, 0, res.Remaining)
	})

	t.Run("keys are independent", func(t *testing.T) {
		store, _ := newTestStore()
		for range 3 {
			_, _ = store.Allow(ctx, "a", policy)
		}
		res, _ := store.Allow(ctx, "b", policy)
		assert.True(t, res.Allowed)
	})

	t.Run("reset clears the window", func(t *testing.T) {
		store, _ := newTestStore()
		for range 3 {
			_, _ = store.Allow(ctx, "k", policy)
		}
		require.NoError(t, store.Reset(ctx, "k"))
		res, _ := store.Allow(ctx, "k", policy)
		assert.True(t, res.Allowed)
	})
}

func TestInMemoryBucketStore_Sweep(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore()
	_, _ = store.Allow(ctx, "old", models.Policy{Requests: 1, Window: time.Minute})
	clock.Advance(45 * time.Second)
	_, _ = store.Allow(ctx, "fresh", models.Policy{Requests: 1, Window: time.Minute})
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, store.Sweep())
	res, _ := store.Allow(ctx, "fresh", models.Policy{Requests: 1, Window: time.Minute})
	assert.False(t, res.Allowed)
}
