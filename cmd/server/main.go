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

	"golang.org/x/sync/errgroup"

	"backoffice/internal/app"
	"backoffice/internal/audit"
	httpapi "backoffice/internal/http"
	jwttoken "backoffice/internal/jwt_token"
	"backoffice/internal/platform/cache"
	"backoffice/internal/platform/config"
	"backoffice/internal/platform/httpserver"
	"backoffice/internal/platform/logger"
	"backoffice/internal/platform/metrics"
	"backoffice/internal/platform/migrations"
	"backoffice/internal/platform/postgres"
	redisclient "backoffice/internal/platform/redis"
	authmw "backoffice/pkg/platform/middleware/auth"
)

// main wires the infrastructure chosen by the environment, builds the module
// graph and serves it until SIGINT or SIGTERM.
func main() {
	config.LoadDotEnv()
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	health := map[string]httpapi.HealthCheck{}

	var db *sql.DB
	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := migrations.Apply(ctx, db); err != nil {
			return err
		}
		health["postgres"] = db.PingContext
		log.Info("using postgres stores")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	var readCache cache.Cache = cache.Noop{}
	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rc != nil {
		defer rc.Close()
		readCache = cache.NewRedis(rc.Client, cfg.Redis.CacheTTL, cache.WithLogger(log), cache.WithMetrics(m))
		health["redis"] = rc.Health
	}

	var (
		outbox audit.Outbox
		store  audit.Store
	)
	if db != nil {
		pg := audit.NewPostgresStore(db)
		outbox, store = pg, pg
	} else {
		mem := audit.NewMemoryStore()
		outbox, store = mem, mem
	}

	svc := app.New(app.Options{
		DB:      db,
		Logger:  log,
		Metrics: m,
		Cache:   readCache,
		Audit:   audit.NewPublisher(store, log),
	})

	var validator authmw.JWTValidator
	if cfg.JWTSigningKey != "" {
		validator = jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience))
	}
	if cfg.AdminToken == "" && validator == nil {
		log.Warn("neither ADMIN_API_TOKEN nor JWT_SIGNING_KEY is set, every API request will be rejected")
	}

	router := httpapi.NewRouter(svc, httpapi.Config{
		Logger:         log,
		Metrics:        m,
		AdminToken:     cfg.AdminToken,
		Validator:      validator,
		RequestTimeout: cfg.RequestTimeout,
		Health:         health,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting backoffice", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if len(cfg.Audit.Brokers) > 0 {
		client, err := audit.NewKafkaClient(cfg.Audit.Brokers)
		if err != nil {
			return err
		}
		defer client.Close()
		if err := audit.EnsureTopic(ctx, client, cfg.Audit.Topic, 1, 1); err != nil {
			log.Warn("audit topic bootstrap failed", "topic", cfg.Audit.Topic, "error", err)
		}
		relay := audit.NewRelay(outbox, audit.NewKafkaSink(client, cfg.Audit.Topic), svc.Tx,
			audit.WithInterval(cfg.Audit.PollInterval),
			audit.WithBatchSize(cfg.Audit.BatchSize),
			audit.WithRelayLogger(log),
			audit.WithRelayMetrics(m),
		)
		g.Go(func() error {
			if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}
