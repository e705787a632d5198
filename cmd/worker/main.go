package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/belegwerk/belegwerk/internal/app"
	"github.com/belegwerk/belegwerk/internal/assets"
	"github.com/belegwerk/belegwerk/internal/customers"
	"github.com/belegwerk/belegwerk/internal/documents"
	"github.com/belegwerk/belegwerk/internal/platform/cache"
	"github.com/belegwerk/belegwerk/internal/platform/db"
	"github.com/belegwerk/belegwerk/internal/profiles"
	"github.com/belegwerk/belegwerk/internal/render"
	"github.com/belegwerk/belegwerk/jobs"
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
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	assetService := assets.NewService(assets.NewRepository(pool), redisClient, cfg.AssetCacheTTL, logger)
	customerService := customers.NewService(customers.NewRepository(pool), logger)
	profileService := profiles.NewService(profiles.NewRepository(pool), assetService, logger)
	documentService := documents.NewService(
		documents.NewRepository(pool),
		customerService,
		profileService,
		assetService,
		render.NewRenderer(logger),
		nil,
		logger,
	)

	var mailer jobs.Mailer = jobs.LogMailer{Logger: logger}
	if cfg.SMTPHost != "" {
		mailer = jobs.SMTPMailer{Host: cfg.SMTPHost, Port: cfg.SMTPPort, From: cfg.SMTPFrom}
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDocumentDeliver, Handler: jobs.NewDocumentDeliverHandler(documentService, mailer, logger)},
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
