// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

// Command api is the entry point for the Lectern HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the article storage backend (memory, sqlite or postgres).
//  4. Connect to Redis when configured, else fall back to the
//     in-process review cache.
//  5. Run database migrations (postgres backend only, idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lectern-pub/lectern/internal/api"
	"github.com/lectern-pub/lectern/internal/article"
	"github.com/lectern-pub/lectern/internal/citations"
	"github.com/lectern-pub/lectern/internal/platform/config"
	"github.com/lectern-pub/lectern/internal/platform/constants"
	"github.com/lectern-pub/lectern/internal/platform/migration"
	pgstore "github.com/lectern-pub/lectern/internal/platform/postgres"
	redisstore "github.com/lectern-pub/lectern/internal/platform/redis"
	"github.com/lectern-pub/lectern/internal/platform/sec"
	"github.com/lectern-pub/lectern/internal/reviews"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "lectern"))
	slog.SetDefault(log)

	log.Info("[Lectern] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "lectern"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_backend", cfg.StorageBackend),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Application context for long-lived background work (rate limiter
	// cleanup). Cancelled on shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. Article Storage ────────────────────────────────────────────────
	var (
		storage      article.Storage
		checkStorage func() error
	)

	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		storage = article.NewPostgresStorage(pool)
		checkStorage = func() error {
			return pgstore.Ping(context.Background(), pool)
		}

	case config.BackendSQLite:
		sqliteStorage, err := article.OpenSQLiteStorage(cfg.SQLitePath)
		must(log, err, "open sqlite database")
		defer func() {
			log.Info("closing sqlite database")
			if cerr := sqliteStorage.Close(); cerr != nil {
				log.Error("sqlite close error", slog.Any("error", cerr))
			}
		}()

		storage = sqliteStorage
		checkStorage = func() error {
			return sqliteStorage.Ping(context.Background())
		}

	default:
		storage = article.NewMemoryStorage()
	}

	// ── 4. Review Cache ───────────────────────────────────────────────────
	// Docmap responses are cached in Redis when configured, otherwise in
	// a process-local TTL map.
	var (
		reviewCache reviews.Cache
		checkCache  func() error
	)
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		reviewCache = reviews.NewRedisCache(rdb)
		checkCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	} else {
		memoryCache := reviews.NewMemoryCache()
		memoryCache.StartCleanup(appCtx)
		reviewCache = memoryCache
	}

	// ── 5. Token Verification ─────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize token service")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckStorage: checkStorage,
		CheckCache:   checkCache,
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	repository := article.NewRepository(storage)
	articleService := article.NewService(repository, log)
	if cfg.DocmapEndpoint != "" {
		reviewFetcher := reviews.NewHTTPFetcher(cfg.DocmapEndpoint, nil)
		articleService.WithReviewProvider(reviews.NewService(reviewFetcher, reviewCache, log))
	}
	articleHandler := article.NewHandler(articleService)

	citationExporter := citations.NewHTTPExporter(cfg.CitationEndpoint, nil)
	citationHandler := citations.NewHandler(repository, citationExporter)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Article:   articleHandler,
		Citations: citationHandler,
	}

	server := api.NewServer(appCtx, cfg, log, jwtSvc, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
