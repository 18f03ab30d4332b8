// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

// Command import ingests a directory of converter output into the
// article store.
//
// It is run after the conversion pipeline finishes a batch. Manuscripts
// whose content hash matches what the store already holds are skipped,
// so re-running over the same output directory is cheap and idempotent.
//
// Usage:
//
//	import -dir ./converter-output
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/lectern-pub/lectern/internal/article"
	"github.com/lectern-pub/lectern/internal/ingest"
	"github.com/lectern-pub/lectern/internal/platform/config"
	"github.com/lectern-pub/lectern/internal/platform/migration"
	pgstore "github.com/lectern-pub/lectern/internal/platform/postgres"
)

func main() {
	dir := flag.String("dir", "./converter-output", "directory of converter JSON documents")
	timeout := flag.Duration("timeout", 30*time.Minute, "deadline for the whole import run")
	flag.Parse()

	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With(slog.String("app", "lectern-import"))
	slog.SetDefault(log)

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// ── 3. Article Storage ────────────────────────────────────────────────
	var storage article.Storage

	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer pool.Close()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")
		storage = article.NewPostgresStorage(pool)

	case config.BackendSQLite:
		sqliteStorage, err := article.OpenSQLiteStorage(cfg.SQLitePath)
		must(log, err, "open sqlite database")
		defer sqliteStorage.Close()
		storage = sqliteStorage

	default:
		// An in-memory import discards everything at exit. Refuse it
		// rather than silently doing useless work.
		log.Error("startup failure",
			slog.String("context", "select storage backend"),
			slog.String("error", "the import command needs a durable backend (sqlite or postgres)"),
		)
		os.Exit(1)
	}

	// ── 4. Import Run ─────────────────────────────────────────────────────
	repository := article.NewRepository(storage)
	importer := ingest.NewImporter(repository, log)

	stats, err := importer.ImportDirectory(ctx, *dir)
	must(log, err, "import directory")

	log.Info("import_finished",
		slog.String("dir", *dir),
		slog.Int("stored", stats.Stored),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
	)

	if stats.Failed > 0 {
		os.Exit(1)
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
