package bucket

import (
	"context"
	"sync"
	"time"

	"estate-ledger/internal/ratelimit/models"
)

// InMemoryBucketStore keeps one sliding window per key. It serves single
// instances and is the fallback when Redis is unavailable.
type InMemoryBucketStore struct {
	mu      sync.Mutex
	buckets map[string]*slidingWindow
	now     func() time.Time
}

type slidingWindow struct {
	hits   []time.Time
	window time.Duration
}

func (sw *slidingWindow) expire(now time.Time) {
	cutoff := now.Add(-sw.window)
	i := 0
	for i < len(sw.hits) && !sw.hits[i].After(cutoff) {
		i++
	}
	sw.hits = sw.hits[i:]
}

func (sw *slidingWindow) take(limit int, now time.Time) *models.Result {
	sw.expire(now)
	if len(sw.hits) >= limit {
		return models.NewResult(false, limit, 0, sw.hits[0].Add(sw.window), now)
	}
	sw.hits = append(sw.hits, now)
	return models.NewResult(true, limit, limit-len(sw.hits), sw.hits[0].Add(sw.window), now)
}

func NewInMemoryBucketStore() *InMemoryBucketStore {
	return &InMemoryBucketStore{
		buckets: make(map[string]*slidingWindow),
		now:     time.Now,
	}
}

// Allow records one hit against key when the policy has room for it.
func (s *InMemoryBucketStore) Allow(_ context.Context, key string, policy models.Policy) (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok || b.window != policy.Window {
		b = &slidingWindow{window: policy.Window}
		s.buckets[key] = b
	}
	return b.take(policy.Requests, s.now()), nil
}

func (s *InMemoryBucketStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// Sweep drops windows with no live hits and returns how many were removed.
func (s *InMemoryBucketStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, b := range s.buckets {
		b.expire(now)
		if len(b.hits) == 0 {
			delete(s.buckets, key)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *InMemoryBucketStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
