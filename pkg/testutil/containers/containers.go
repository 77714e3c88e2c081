//go:build integration

// Package containers starts throwaway Postgres and Redis instances for
// integration tests. Each is started on first use and shared by every suite
// in the test binary; Ryuk removes them when the process exits.
package containers

import (
	"sync"
	"testing"
)

type lazy[T any] struct {
	mu    sync.Mutex
	value T
	ready bool
}

func (l *lazy[T]) get(t *testing.T, start func(*testing.T) T) T {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.ready {
		l.value = start(t)
		l.ready = true
	}
	return l.value
}

var (
	sharedPostgres lazy[*PostgresContainer]
	sharedRedis    lazy[*RedisContainer]
)

// Postgres returns the migrated Postgres instance for this test binary.
func Postgres(t *testing.T) *PostgresContainer {
	return sharedPostgres.get(t, NewPostgresContainer)
}

// Redis returns the Redis instance for this test binary.
func Redis(t *testing.T) *RedisContainer {
	return sharedRedis.get(t, NewRedisContainer)
}
