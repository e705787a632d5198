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

	"github.com/belegwerk/belegwerk/internal/app"
	"github.com/belegwerk/belegwerk/internal/assets"
	"github.com/belegwerk/belegwerk/internal/customers"
	"github.com/belegwerk/belegwerk/internal/documents"
	"github.com/belegwerk/belegwerk/internal/platform/cache"
	"github.com/belegwerk/belegwerk/internal/platform/db"
	"github.com/belegwerk/belegwerk/internal/profiles"
	"github.com/belegwerk/belegwerk/internal/render"
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
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	queue := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()

	assetService := assets.NewService(assets.NewRepository(dbpool), redisClient, cfg.AssetCacheTTL, logger)

	customerService := customers.NewService(customers.NewRepository(dbpool), logger)
	profileService := profiles.NewService(profiles.NewRepository(dbpool), assetService, logger)

	documentService := documents.NewService(
		documents.NewRepository(dbpool),
		customerService,
		profileService,
		assetService,
		render.NewRenderer(logger),
		queue,
		logger,
	)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		CustomersHandler: customers.NewHandler(logger, customerService),
		ProfilesHandler:  profiles.NewHandler(logger, profileService),
		DocumentsHandler: documents.NewHandler(logger, documentService),
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
