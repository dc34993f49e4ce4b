package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/facturio/facturio/internal/app"
	"github.com/facturio/facturio/internal/offline"
	"github.com/facturio/facturio/internal/platform/db"
	"github.com/facturio/facturio/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	offlineRepo := offline.NewRepository(pool)
	if err := offlineRepo.EnsureSchema(ctx); err != nil {
		logger.Error("ensure offline schema", slog.Any("error", err))
		os.Exit(1)
	}
	offlineService := offline.NewService(offlineRepo, logger, cfg.OfflineMaxRetries)
	sender := offline.NewHTTPSender(cfg.UpstreamURL, cfg.UpstreamTimeout)

	drainTask, err := jobs.NewOfflineDrainTask(jobs.OfflineDrainPayload{Limit: offline.DefaultDrainLimit})
	if err != nil {
		logger.Error("build drain task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskOfflineDrain, Handler: jobs.NewOfflineDrainHandler(offlineService, sender, logger)},
			{Type: jobs.TaskOfflinePurge, Handler: jobs.NewOfflinePurgeHandler(offlineService, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.OfflineDrainCron, Task: drainTask, Options: []asynq.Option{asynq.MaxRetry(1)}},
			{Spec: "0 3 * * *", Task: jobs.NewOfflinePurgeTask(), Options: []asynq.Option{asynq.MaxRetry(1)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
