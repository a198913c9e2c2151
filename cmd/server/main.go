package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	audittrailhandler "statlab/internal/audittrail/handler"
	denscache "statlab/internal/density/cache"
	denshandler "statlab/internal/density/handler"
	densservice "statlab/internal/density/service"
	exphandler "statlab/internal/experiment/handler"
	expmetrics "statlab/internal/experiment/metrics"
	expservice "statlab/internal/experiment/service"
	runstore "statlab/internal/experiment/store/run"
	"statlab/internal/platform/config"
	"statlab/internal/platform/httpserver"
	"statlab/internal/platform/logger"
	platformredis "statlab/internal/platform/redis"
	simhandler "statlab/internal/simulation/handler"
	simmetrics "statlab/internal/simulation/metrics"
	simservice "statlab/internal/simulation/service"
	httptransport "statlab/internal/transport/http"
	auditpublisher "statlab/pkg/platform/audit/publisher"
	auditmemory "statlab/pkg/platform/audit/store/memory"
	auditworker "statlab/pkg/platform/audit/worker"
)

// main wires dependencies and owns process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var db *sql.DB
	if cfg.Postgres.DSN != "" {
		db, err = openPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	store := selectRunStore(cfg, log, redisClient, db)

	auditStore := auditmemory.NewInMemoryStore()
	publisher := auditpublisher.New(log, auditpublisher.WithBufferSize(cfg.AuditBufferSize))
	worker := auditworker.NewWorker(auditStore, publisher.Events(), log)
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	experiments, err := expservice.New(store, cfg.Limits,
		expservice.WithLogger(log),
		expservice.WithAuditPublisher(publisher),
		expservice.WithMetrics(expmetrics.New()),
	)
	if err != nil {
		log.Error("experiment service init failed", "error", err)
		os.Exit(1)
	}

	simulations := simservice.New(cfg.Limits,
		simservice.WithLogger(log),
		simservice.WithAuditPublisher(publisher),
		simservice.WithMetrics(simmetrics.New()),
	)

	densityOpts := []densservice.Option{densservice.WithLogger(log)}
	if redisClient != nil {
		densityOpts = append(densityOpts, densservice.WithCache(
			denscache.NewRedisCurveCache(redisClient.Client, denscache.WithTTL(cfg.CurveCacheTTL)),
		))
	}
	density := densservice.New(cfg.Limits, densityOpts...)

	checks := make(map[string]httptransport.HealthChecker)
	if redisClient != nil {
		checks["redis"] = redisClient
	}
	if db != nil {
		checks["postgres"] = dbHealth{db: db}
	}

	router := httptransport.NewRouter(httptransport.Config{
		Logger: log,
		Handlers: []httptransport.Registrar{
			exphandler.New(experiments, log),
			simhandler.New(simulations, log),
			denshandler.New(density, log),
			audittrailhandler.New(auditStore, log),
		},
		HealthChecks: checks,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting statlab", "addr", cfg.Addr,
		"redis", redisClient != nil, "postgres", db != nil)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// selectRunStore picks the strongest configured backend: postgres, then
// redis, then in-process memory.
func selectRunStore(cfg config.Server, log *slog.Logger, redisClient *platformredis.Client, db *sql.DB) expservice.Store {
	switch {
	case db != nil:
		log.Info("using postgres run store")
		return runstore.NewPostgresRunStore(db)
	case redisClient != nil:
		log.Info("using redis run store")
		return runstore.NewRedisRunStore(redisClient.Client, runstore.WithRunTTL(cfg.RunTTL))
	default:
		log.Info("using in-memory run store")
		return runstore.NewInMemoryRunStore()
	}
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, runstore.Schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
