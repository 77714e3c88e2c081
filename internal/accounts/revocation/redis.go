package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked_jti:"

// RedisTRL stores each revoked id as a key expiring with its token. Needs Redis 7+.
type RedisTRL struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisTRL(client redis.UniversalClient) *RedisTRL {
	return &RedisTRL{client: client, now: time.Now}
}

func (t *RedisTRL) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(t.now())
	if ttl <= 0 {
		return nil
	}
	// GT keeps the longer TTL when the same token is revoked twice.
	pipe := t.client.TxPipeline()
	pipe.SetNX(ctx, revokedKeyPrefix+jti, 1, ttl)
	pipe.ExpireGT(ctx, revokedKeyPrefix+jti, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (t *RedisTRL) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := t.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}
