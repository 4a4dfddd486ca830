package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/catalyst-admin/catalyst-admin/internal/admin"
	"github.com/catalyst-admin/catalyst-admin/internal/apiclient"
	"github.com/catalyst-admin/catalyst-admin/internal/app"
	"github.com/catalyst-admin/catalyst-admin/internal/credentials"
	"github.com/catalyst-admin/catalyst-admin/internal/dashboard"
	"github.com/catalyst-admin/catalyst-admin/internal/entities"
	"github.com/catalyst-admin/catalyst-admin/internal/notify"
	"github.com/catalyst-admin/catalyst-admin/internal/observability"
	"github.com/catalyst-admin/catalyst-admin/internal/rbac"
	"github.com/catalyst-admin/catalyst-admin/internal/shared"
	"github.com/catalyst-admin/catalyst-admin/internal/view"
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

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "catalyst_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	client := apiclient.New(apiclient.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Logger:  logger,
		Metrics: apiclient.NewMetrics(metrics.Registerer()),
	})

	deps := &admin.Deps{
		Logger:      logger,
		Templates:   templates,
		Client:      client,
		Credentials: credentials.NewService(client, logger),
		Sessions:    sessionManager,
		CSRF:        csrfManager,
		Notifier:    notify.NewSessionNotifier(cfg.NotifyDuration),
		Entities:    entities.Catalog(cfg.DefaultPageSize),
	}

	dashboardService := dashboard.NewService(dashboard.NewCache(redisClient, cfg.DashboardCacheTTL), logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Deps:             deps,
		AuthHandler:      admin.NewAuthHandler(deps, cfg.LoginRateLimit),
		DashboardHandler: dashboard.NewHandler(deps, dashboardService),
		RBACMiddleware:   rbac.Middleware{Logger: logger},
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("api", cfg.APIBaseURL))
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
