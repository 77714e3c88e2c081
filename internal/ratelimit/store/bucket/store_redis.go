package bucket

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"estate-ledger/internal/ratelimit/models"
)

// RedisBucketStore shares sliding windows across instances using one sorted
// set per key, scored by hit time in microseconds.
type RedisBucketStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisBucketStore(client redis.UniversalClient) *RedisBucketStore {
	return &RedisBucketStore{client: client, now: time.Now}
}

// Allow adds the hit first and takes it back when the window was already full,
// so concurrent callers near the limit are denied rather than over-admitted.
func (s *RedisBucketStore) Allow(ctx context.Context, key string, policy models.Policy) (*models.Result, error) {
	now := s.now()
	score := float64(now.UnixMicro())
	member := strconv.FormatInt(now.UnixMicro(), 10) + ":" + uuid.NewString()
	cutoff := strconv.FormatInt(now.Add(-policy.Window).UnixMicro(), 10)

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", cutoff)
	pipe.ZAdd(ctx, key, redis.Z{Score: score, Member: member})
	count := pipe.ZCard(ctx, key)
	oldest := pipe.ZRangeWithScores(ctx, key, 0, 0)
	pipe.PExpire(ctx, key, policy.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", key, err)
	}

	resetAt := now.Add(policy.Window)
	if first := oldest.Val(); len(first) > 0 {
		resetAt = time.UnixMicro(int64(first[0].Score)).Add(policy.Window)
	}

	n := int(count.Val())
	if n > policy.Requests {
		if err := s.client.ZRem(ctx, key, member).Err(); err != nil {
			return nil, fmt.Errorf("rate limit %s: %w", key, err)
		}
		return models.NewResult(false, policy.Requests, 0, resetAt, now), nil
	}
	return models.NewResult(true, policy.Requests, policy.Requests-n, resetAt, now), nil
}

func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}
