// Package service decides whether a caller may proceed under its endpoint
// class budget. A shared store (Redis) is preferred; the in-memory store
// answers while the shared store's breaker is open.
package service

import (
	"context"
	"fmt"
	"log/slog"

	ratelimitmetrics "estate-ledger/internal/ratelimit/metrics"
	"estate-ledger/internal/ratelimit/models"
	"estate-ledger/internal/ratelimit/store/bucket"
	"estate-ledger/pkg/platform/circuit"
)

type BucketStore interface {
	Allow(ctx context.Context, key string, policy models.Policy) (*models.Result, error)
}

type Service struct {
	policies map[models.EndpointClass]models.Policy
	primary  BucketStore
	fallback BucketStore
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *ratelimitmetrics.Metrics
}

type Option func(*Service)

// WithSharedStore sets the primary store that the breaker guards.
func WithSharedStore(store BucketStore) Option {
	return func(s *Service) {
		s.primary = store
	}
}

func WithFallback(store BucketStore) Option {
	return func(s *Service) {
		s.fallback = store
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Service) {
		s.breaker = b
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *ratelimitmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(policies map[models.EndpointClass]models.Policy, opts ...Option) *Service {
	s := &Service{policies: policies}
	for _, opt := range opts {
		opt(s)
	}
	if s.fallback == nil {
		s.fallback = bucket.NewInMemoryBucketStore()
	}
	if s.breaker == nil {
		s.breaker = circuit.New("ratelimit-store")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// CheckIP charges one request from ip against the class budget. Classes
// without an enabled policy are always allowed and return a nil result.
func (s *Service) CheckIP(ctx context.Context, class models.EndpointClass, ip string) (*models.Result, error) {
	policy, ok := s.policies[class]
	if !ok || !policy.Enabled() {
		return nil, nil
	}
	key := models.Key(class, "ip", ip)

	res, err := s.allow(ctx, key, policy)
	if err != nil {
		return nil, fmt.Errorf("check %s limit: %w", class, err)
	}
	s.metrics.RecordDecision(string(class), res.Allowed)
	return res, nil
}

func (s *Service) allow(ctx context.Context, key string, policy models.Policy) (*models.Result, error) {
	if s.primary == nil {
		return s.fallback.Allow(ctx, key, policy)
	}

	res, err := s.primary.Allow(ctx, key, policy)
	if err != nil {
		if s.breaker.Failure() {
			s.metrics.SetBreakerOpen(true)
			s.logger.WarnContext(ctx, "rate limit store breaker opened", "breaker", s.breaker.Name(), "error", err)
		}
		s.metrics.RecordFallback()
		return s.fallback.Allow(ctx, key, policy)
	}

	if s.breaker.State() == circuit.StateOpen {
		if !s.breaker.Success() {
			s.metrics.RecordFallback()
			return s.fallback.Allow(ctx, key, policy)
		}
		s.metrics.SetBreakerOpen(false)
		s.logger.InfoContext(ctx, "rate limit store breaker closed", "breaker", s.breaker.Name())
		return res, nil
	}
	s.breaker.Success()
	return res, nil
}
