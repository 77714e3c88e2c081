package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"estate-ledger/pkg/platform/middleware/metadata"
)

const devSigningKey = "dev-secret-key-change-in-production"

// Config is the whole process configuration, read once at startup.
type Config struct {
	Environment string
	LogLevel    string
	Server      Server
	Database    DatabaseConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	TxTimeout   time.Duration
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	JWTSigningKey  string
	TokenTTL       time.Duration
	RequestTimeout time.Duration
	// TrustedProxies may set X-Forwarded-For. Empty trusts none.
	TrustedProxies []netip.Prefix
}

// DatabaseConfig selects Postgres. An empty URL runs the service on in-memory stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RateLimitConfig sets per client IP budgets. Zero requests disables a class.
type RateLimitConfig struct {
	AuthRequests int
	AuthWindow   time.Duration
	APIRequests  int
	APIWindow    time.Duration
}

// RedisConfig backs the token revocation list and shared rate limit windows.
// An empty URL keeps both in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var errs []string
	dur := func(key string, def time.Duration) time.Duration {
		raw := os.Getenv(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid duration %q", key, raw))
			return def
		}
		return d
	}
	num := func(key string, def int) int {
		raw := os.Getenv(key)
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid integer %q", key, raw))
			return def
		}
		return n
	}

	cfg := Config{
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		Server: Server{
			Addr:           envOr("ESTATE_LEDGER_ADDR", ":8080"),
			JWTSigningKey:  os.Getenv("JWT_SIGNING_KEY"),
			TokenTTL:       dur("TOKEN_TTL", 24*time.Hour),
			RequestTimeout: dur("REQUEST_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    num("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    num("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: dur("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     num("REDIS_POOL_SIZE", 10),
			MinIdleConns: num("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  dur("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  dur("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: dur("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		RateLimit: RateLimitConfig{
			AuthRequests: num("RATE_LIMIT_AUTH_REQUESTS", 10),
			AuthWindow:   dur("RATE_LIMIT_AUTH_WINDOW", time.Minute),
			APIRequests:  num("RATE_LIMIT_API_REQUESTS", 300),
			APIWindow:    dur("RATE_LIMIT_API_WINDOW", time.Minute),
		},
		TxTimeout: dur("TX_TIMEOUT", 5*time.Second),
	}

	proxies, err := metadata.ParseTrustedProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		errs = append(errs, "TRUSTED_PROXIES: "+err.Error())
	}
	cfg.Server.TrustedProxies = proxies

	if cfg.Server.JWTSigningKey == "" {
		if cfg.IsProduction() {
			errs = append(errs, "JWT_SIGNING_KEY: required in production")
		}
		cfg.Server.JWTSigningKey = devSigningKey
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
