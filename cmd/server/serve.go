package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	accountshandler "estate-ledger/internal/accounts/handler"
	accountsmetrics "estate-ledger/internal/accounts/metrics"
	"estate-ledger/internal/accounts/revocation"
	accountsservice "estate-ledger/internal/accounts/service"
	accountsstore "estate-ledger/internal/accounts/store"
	"estate-ledger/internal/accounts/token"
	ledgerhandler "estate-ledger/internal/ledger/handler"
	ledgermetrics "estate-ledger/internal/ledger/metrics"
	ledgerservice "estate-ledger/internal/ledger/service"
	ledgerstore "estate-ledger/internal/ledger/store"
	"estate-ledger/internal/platform/config"
	"estate-ledger/internal/platform/database"
	"estate-ledger/internal/platform/health"
	"estate-ledger/internal/platform/logger"
	"estate-ledger/internal/platform/metrics"
	"estate-ledger/internal/platform/redis"
	ratelimitmetrics "estate-ledger/internal/ratelimit/metrics"
	ratelimitmw "estate-ledger/internal/ratelimit/middleware"
	ratelimitmodels "estate-ledger/internal/ratelimit/models"
	ratelimitservice "estate-ledger/internal/ratelimit/service"
	"estate-ledger/internal/ratelimit/store/bucket"
	reportinghandler "estate-ledger/internal/reporting/handler"
	reportingservice "estate-ledger/internal/reporting/service"
	"estate-ledger/internal/seeder"
	httptransport "estate-ledger/internal/transport/http"
	"estate-ledger/pkg/platform/middleware/request"
	"estate-ledger/pkg/platform/tracer"
)

const (
	shutdownTimeout     = 10 * time.Second
	poolStatsInterval   = 15 * time.Second
	revocationPurgeTick = 10 * time.Minute
	bucketSweepInterval = time.Minute
)

type serveOptions struct {
	seedDemo     bool
	demoPassword string
}

func serveCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if opts.seedDemo && cfg.IsProduction() {
				return errors.New("--seed-demo is not allowed in production")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, opts, logger.New(cfg.LogLevel))
		},
	}
	cmd.Flags().BoolVar(&opts.seedDemo, "seed-demo", false, "register the Greenview demo estate before serving")
	cmd.Flags().StringVar(&opts.demoPassword, "demo-password", "greenview-demo", "password for the demo admin")
	return cmd
}

// ledgerBackend is what both the ledger service and the reporting reader need.
type ledgerBackend interface {
	ledgerservice.Store
	reportingservice.Reader
}

type accountsBackend interface {
	accountsservice.Store
	accountsservice.StoreTx
}

type revocationBackend interface {
	accountsservice.RevocationList
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// serve wires Postgres when DATABASE_URL is set and in-memory stores otherwise.
// The revocation list prefers Redis, then Postgres, then memory.
func serve(ctx context.Context, cfg config.Config, opts serveOptions, log *slog.Logger) error {
	log.Info("initializing estate-ledger",
		"addr", cfg.Server.Addr,
		"environment", cfg.Environment,
		"database", cfg.Database.URL != "",
		"redis", cfg.Redis.URL != "",
	)

	registry := metrics.New()
	healthHandler := health.New(cfg.Environment)

	pool, err := database.New(ctx, cfg.Database, registry)
	if err != nil {
		return err
	}
	defer pool.Close() //nolint:errcheck // shutdown path

	redisClient, err := redis.New(ctx, cfg.Redis, registry)
	if err != nil {
		return err
	}

	var (
		ledgerStore   ledgerBackend
		accountsStore accountsBackend
		revocations   revocationBackend
	)
	if pool != nil {
		healthHandler.RegisterCheck("database", pool.Health)
		ledgerStore = ledgerstore.NewPostgres(pool.DB(), cfg.TxTimeout)
		accountsStore = accountsstore.NewPostgres(pool.DB(), cfg.TxTimeout)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		ledgerStore = ledgerstore.NewInMemory(cfg.TxTimeout)
		accountsStore = accountsstore.NewInMemory(cfg.TxTimeout)
	}

	switch {
	case redisClient != nil:
		defer redisClient.Close() //nolint:errcheck // shutdown path
		healthHandler.RegisterCheck("redis", redisClient.Health)
		go redisClient.RunPoolStats(ctx, poolStatsInterval)
		revocations = revocation.NewRedisTRL(redisClient.Client)
	case pool != nil:
		trl := revocation.NewPostgresTRL(pool.DB())
		go purgeRevocations(ctx, trl, log)
		revocations = trl
	default:
		trl := revocation.NewInMemoryTRL()
		defer trl.Close()
		revocations = trl
	}

	limiter := newRateLimiter(ctx, cfg.RateLimit, redisClient, registry, log)

	tr := tracer.NewOTel()
	tokens := token.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.TokenTTL)

	accounts := accountsservice.New(accountsStore, tokens, revocations,
		accountsservice.WithLogger(log),
		accountsservice.WithMetrics(accountsmetrics.New(registry)),
		accountsservice.WithTracer(tr),
	)
	ledger := ledgerservice.New(ledgerStore,
		ledgerservice.WithLogger(log),
		ledgerservice.WithMetrics(ledgermetrics.New(registry)),
		ledgerservice.WithTracer(tr),
	)
	reports := reportingservice.New(ledgerStore,
		reportingservice.WithLogger(log),
		reportingservice.WithTracer(tr),
	)

	if opts.seedDemo {
		if _, err := seeder.New(accounts, ledger, log).SeedDemo(ctx, opts.demoPassword); err != nil {
			return err
		}
	}

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:         log,
		Tokens:         tokens,
		Revocations:    revocations,
		Principals:     accounts,
		RequestMetrics: request.NewMetrics(registry),
		MetricsHandler: registry.Handler(),
		RequestTimeout: cfg.Server.RequestTimeout,
		TrustedProxies: cfg.Server.TrustedProxies,
		RateLimit:      ratelimitmw.New(limiter, log),
	}, httptransport.Handlers{
		Accounts:  accountshandler.New(accounts, log),
		Ledger:    ledgerhandler.New(ledger, log),
		Reporting: reportinghandler.New(reports, log),
		Health:    healthHandler,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// newRateLimiter shares windows through Redis when it is configured. The
// in-memory store is always built as the breaker fallback.
func newRateLimiter(ctx context.Context, cfg config.RateLimitConfig, redisClient *redis.Client,
	registry *metrics.Registry, log *slog.Logger,
) *ratelimitservice.Service {
	memory := bucket.NewInMemoryBucketStore()
	go memory.RunSweeper(ctx, bucketSweepInterval)

	opts := []ratelimitservice.Option{
		ratelimitservice.WithFallback(memory),
		ratelimitservice.WithLogger(log),
		ratelimitservice.WithMetrics(ratelimitmetrics.New(registry)),
	}
	if redisClient != nil {
		opts = append(opts, ratelimitservice.WithSharedStore(bucket.NewRedisBucketStore(redisClient.Client)))
	}
	return ratelimitservice.New(map[ratelimitmodels.EndpointClass]ratelimitmodels.Policy{
		ratelimitmodels.ClassAuth: {Requests: cfg.AuthRequests, Window: cfg.AuthWindow},
		ratelimitmodels.ClassAPI:  {Requests: cfg.APIRequests, Window: cfg.APIWindow},
	}, opts...)
}

// purgeRevocations drops expired rows from the Postgres revocation list.
func purgeRevocations(ctx context.Context, trl *revocation.PostgresTRL, log *slog.Logger) {
	ticker := time.NewTicker(revocationPurgeTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := trl.PurgeExpired(ctx)
			if err != nil {
				log.WarnContext(ctx, "failed to purge expired revocations", "error", err)
				continue
			}
			if n > 0 {
				log.DebugContext(ctx, "purged expired revocations", "count", n)
			}
		}
	}
}
