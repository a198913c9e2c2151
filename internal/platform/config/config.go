// Package config builds runtime configuration from environment variables
// so main stays lean.
package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr string

	Redis    RedisConfig
	Postgres PostgresConfig
	Limits   Limits

	// CurveCacheTTL bounds how long density curves stay cached in Redis.
	CurveCacheTTL time.Duration

	// RunTTL expires persisted runs in Redis-backed history; zero keeps
	// them until cleared.
	RunTTL time.Duration

	// AuditBufferSize bounds in-flight audit events.
	AuditBufferSize int
}

// RedisConfig holds connection settings for the optional Redis backend.
// An empty URL disables Redis; the service falls back to in-memory stores.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds connection settings for the optional Postgres
// backend. An empty DSN disables Postgres.
type PostgresConfig struct {
	DSN string
}

// Limits caps request parameters so a single call cannot monopolize the
// process.
type Limits struct {
	MaxSampleSize  int
	MaxTrials      int
	MaxCurvePoints int
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr: envString("STATLAB_ADDR", ":8080"),
		Redis: RedisConfig{
			URL:          os.Getenv("STATLAB_REDIS_URL"),
			PoolSize:     envInt("STATLAB_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("STATLAB_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("STATLAB_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("STATLAB_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("STATLAB_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("STATLAB_POSTGRES_DSN"),
		},
		Limits: Limits{
			MaxSampleSize:  envInt("STATLAB_MAX_SAMPLE_SIZE", 1_000_000),
			MaxTrials:      envInt("STATLAB_MAX_TRIALS", 100_000),
			MaxCurvePoints: envInt("STATLAB_MAX_CURVE_POINTS", 10_000),
		},
		CurveCacheTTL:   envDuration("STATLAB_CURVE_CACHE_TTL", 5*time.Minute),
		RunTTL:          envDuration("STATLAB_RUN_TTL", 0),
		AuditBufferSize: envInt("STATLAB_AUDIT_BUFFER_SIZE", 256),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
