package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"backoffice/internal/app"
	"backoffice/internal/audit"
	"backoffice/internal/platform/config"
	"backoffice/internal/platform/logger"
	"backoffice/internal/platform/migrations"
	"backoffice/internal/platform/postgres"
	"backoffice/internal/seed"
	"backoffice/pkg/requestcontext"
)

// main applies a YAML fixture to the database named by DATABASE_URL. Rows
// that already exist are skipped, so the command can run on every deploy.
func main() {
	path := flag.String("file", "cmd/seed/fixture.yaml", "fixture to apply")
	flag.Parse()

	config.LoadDotEnv()
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, *path, log); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, path string, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = requestcontext.WithActor(ctx, "seed")

	fixture, err := seed.LoadFile(path)
	if err != nil {
		return err
	}

	opts := app.Options{Logger: log}
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := migrations.Apply(ctx, db); err != nil {
			return err
		}
		opts.DB = db
		opts.Audit = audit.NewPublisher(audit.NewPostgresStore(db), log)
	} else {
		log.Warn("DATABASE_URL not set, seeding in-memory stores (dry run)")
	}

	res, err := seed.New(app.New(opts), log).Apply(ctx, fixture)
	if err != nil {
		return err
	}
	log.Info("seed applied", "created", res.Created, "skipped", res.Skipped)
	return nil
}
