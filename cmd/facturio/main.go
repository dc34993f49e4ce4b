package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/facturio/facturio/internal/app"
	"github.com/facturio/facturio/internal/history"
	"github.com/facturio/facturio/internal/invoices"
	"github.com/facturio/facturio/internal/observability"
	"github.com/facturio/facturio/internal/offline"
	"github.com/facturio/facturio/internal/platform/cache"
	"github.com/facturio/facturio/internal/platform/db"
	"github.com/facturio/facturio/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, dashboard cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	historyRepo := history.NewRepository(dbpool)
	offlineRepo := offline.NewRepository(dbpool)
	if err := historyRepo.EnsureSchema(ctx); err != nil {
		logger.Error("ensure history schema", slog.Any("error", err))
		os.Exit(1)
	}
	if err := offlineRepo.EnsureSchema(ctx); err != nil {
		logger.Error("ensure offline schema", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	statsCache := history.NewStatsCache(redisClient, cfg.StatsCacheTTL)
	historyService := history.NewService(historyRepo, statsCache)
	historyHandler := history.NewHandler(logger, historyService)

	offlineService := offline.NewService(offlineRepo, logger, cfg.OfflineMaxRetries)
	offlineHandler := offline.NewHandler(logger, offlineService)

	invoicesHandler := invoices.NewHandler(logger, metrics, cfg.UploadMaxBytes)

	var jobHandler *jobs.Handler
	if redisClient != nil {
		inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		InvoicesHandler: invoicesHandler,
		HistoryHandler:  historyHandler,
		OfflineHandler:  offlineHandler,
		JobHandler:      jobHandler,
		Pool:            dbpool,
		Redis:           redisClient,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
