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

	"github.com/meridian-web/console-core/internal/activity"
	"github.com/meridian-web/console-core/internal/app"
	"github.com/meridian-web/console-core/internal/auth"
	"github.com/meridian-web/console-core/internal/authz"
	"github.com/meridian-web/console-core/internal/observability"
	"github.com/meridian-web/console-core/internal/platform/cache"
	"github.com/meridian-web/console-core/internal/platform/db"
	"github.com/meridian-web/console-core/internal/roles"
	"github.com/meridian-web/console-core/internal/session"
	"github.com/meridian-web/console-core/jobs"
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

	metrics := observability.NewMetrics()
	codec := session.NewCodec()
	revocations := session.NewRevocationList(redisClient)

	rolesRepo := roles.NewRepository(dbpool)
	rolesService := roles.NewService(rolesRepo, logger)
	if err := rolesService.Seed(ctx); err != nil {
		logger.Error("seed system roles", slog.Any("error", err))
		os.Exit(1)
	}

	gate := authz.NewGate(codec, rolesService, revocations, logger)
	authzMiddleware := authz.Middleware{Gate: gate, Logger: logger, SecureCookie: cfg.IsProduction()}

	retryClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := retryClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	activityRepo := activity.NewRepository(dbpool)
	recorder := activity.NewRecorder(activityRepo, retryClient, metrics, logger)
	activityHandler := activity.NewHandler(logger, recorder)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, codec, gate, revocations, recorder, cfg.SessionTTL, cfg.IsProduction())

	rolesHandler := roles.NewHandler(logger, rolesService, recorder, authzMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		Gate:            gate,
		AuthzMiddleware: authzMiddleware,
		AuthHandler:     authHandler,
		RolesHandler:    rolesHandler,
		ActivityHandler: activityHandler,
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
