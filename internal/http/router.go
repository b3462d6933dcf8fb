package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"backoffice/internal/app"
	budgethandler "backoffice/internal/budget/handler"
	currencyhandler "backoffice/internal/currency/handler"
	designationhandler "backoffice/internal/designation/handler"
	planninghandler "backoffice/internal/planning/handler"
	"backoffice/internal/platform/metrics"
	platformmw "backoffice/internal/platform/middleware"
	"backoffice/internal/reference"
	securityhandler "backoffice/internal/security/handler"
	authmw "backoffice/pkg/platform/middleware/auth"
	"backoffice/pkg/platform/middleware/metadata"
	request "backoffice/pkg/platform/middleware/request"
	"backoffice/pkg/platform/middleware/requesttime"
)

// HealthCheck reports whether one backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Config carries everything the router needs besides the services.
type Config struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	AdminToken     string
	Validator      authmw.JWTValidator
	RequestTimeout time.Duration
	// Health maps a dependency name to its check.
	Health map[string]HealthCheck
}

// NewRouter mounts every module behind the shared middleware chain. /health
// and /metrics stay outside authentication.
func NewRouter(svc *app.Services, cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	log := cfg.Logger

	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(log))
	r.Use(request.Timeout(cfg.RequestTimeout))
	r.Use(platformmw.Latency(cfg.Metrics))

	r.Get("/health", healthHandler(cfg.Health, log))
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Group(func(api chi.Router) {
		api.Use(request.ContentTypeJSON)
		api.Use(authmw.RequireAuth(cfg.Validator, cfg.AdminToken, log))

		currencyhandler.New(svc.Currencies, log).Register(api)
		for _, d := range svc.Designations {
			designationhandler.New(d.Kind, d.Service, log).Register(api)
		}
		reference.NewHandler(svc.Structures, svc.Documents, log).Register(api)
		budgethandler.New(svc.BudgetTypes, svc.Operations, svc.Modifications, log).Register(api)
		planninghandler.New(planninghandler.Services{
			Domains:       svc.Domains,
			Rubrics:       svc.Rubrics,
			Items:         svc.Items,
			PlannedItems:  svc.PlannedItems,
			Distributions: svc.Distributions,
		}, log).Register(api)
		securityhandler.New(svc.Authorities, svc.Permissions, svc.Roles, svc.Groups, svc.Users, log).Register(api)
	})

	return r
}
