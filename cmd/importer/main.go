// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command importer loads the legacy CSV dump into an empty database.
//
// The directory comes from the first argument, or IMPORT_DIR when no
// argument is given. Migrations run first; the import itself is a single
// transaction.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/yamdb/internal/importer"
	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/migration"
	pgstore "github.com/taibuivan/yamdb/internal/platform/postgres"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With(slog.String("app", "yamdb-importer"))
	slog.SetDefault(log)

	cfg, err := config.Load()
	must(log, err, "load configuration")

	dir := cfg.ImportDir
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	log.Info("import_started", slog.String("dir", dir))

	counts, err := importer.New(pool, log).Run(ctx, os.DirFS(dir))
	if err != nil {
		log.Error("import_failed", slog.Any("error", err))
		pool.Close()
		os.Exit(1)
	}

	log.Info("import_finished", slog.Any("rows", counts))
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
