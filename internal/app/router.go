package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/facturio/facturio/internal/history"
	"github.com/facturio/facturio/internal/invoices"
	"github.com/facturio/facturio/internal/observability"
	"github.com/facturio/facturio/internal/offline"
	"github.com/facturio/facturio/internal/platform/httpx"
	"github.com/facturio/facturio/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	InvoicesHandler *invoices.Handler
	HistoryHandler  *history.Handler
	OfflineHandler  *offline.Handler
	JobHandler      *jobs.Handler
	Pool            *pgxpool.Pool
	Redis           *redis.Client
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with Facturio defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if params.Pool != nil {
			if err := params.Pool.Ping(ctx); err != nil {
				params.Logger.Warn("healthz db ping", slog.Any("error", err))
				httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/health/deep", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		check := func(name string, err error) {
			if err != nil {
				checks[name] = err.Error()
				healthy = false
				return
			}
			checks[name] = "ok"
		}
		if params.Pool != nil {
			check("postgres", params.Pool.Ping(ctx))
		}
		if params.Redis != nil {
			check("redis", params.Redis.Ping(ctx).Err())
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		httpx.JSON(w, status, map[string]any{"healthy": healthy, "checks": checks})
	})

	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	r.Route("/invoices", params.InvoicesHandler.MountRoutes)
	r.Route("/history", func(r chi.Router) {
		history.MountRoutes(r, params.HistoryHandler)
	})
	if params.OfflineHandler != nil {
		r.Route("/offline", func(r chi.Router) {
			offline.MountRoutes(r, params.OfflineHandler)
		})
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
