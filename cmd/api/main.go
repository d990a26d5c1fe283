package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/countdown-service/internal/api/http"
	"github.com/spec-kit/countdown-service/internal/api/http/handlers"
	"github.com/spec-kit/countdown-service/internal/auth"
	"github.com/spec-kit/countdown-service/internal/config"
	"github.com/spec-kit/countdown-service/internal/events"
	"github.com/spec-kit/countdown-service/internal/observability"
	"github.com/spec-kit/countdown-service/internal/persistence"
	"github.com/spec-kit/countdown-service/internal/repository"
	"github.com/spec-kit/countdown-service/internal/service"
	"github.com/spec-kit/countdown-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	userRepo := repository.NewUserRepository(pg.PoolHandle())
	tokenRepo := repository.NewTokenRepository(redis)
	settingsRepo := repository.NewSettingsRepository(redis)
	feedbackRepo := repository.NewFeedbackRepository(redis)
	visitRepo := repository.NewVisitRepository(redis)

	settingsService := service.NewSettingsService(settingsRepo)
	tokenService := service.NewTokenService(tokenRepo, settingsService, dispatcher)
	authService := service.NewAuthService(cfg.Auth, userRepo, tokenService)
	userService := service.NewUserService(userRepo, tokenService, dispatcher, cfg.Auth.BcryptCost)
	feedbackService := service.NewFeedbackService(feedbackRepo)
	visitService := service.NewVisitService(visitRepo)
	cleanupService := service.NewCleanupService(tokenService, settingsService, metrics, logger, cfg.Cleanup.Probability)
	adminService := service.NewAdminService(settingsService, tokenService, authService, userRepo, feedbackRepo, visitRepo, logger)

	if err := authService.SeedDefaultAdmin(ctx, logger); err != nil {
		logger.Fatal("failed to seed default admin", zap.Error(err))
	}

	gate := auth.NewGate(tokenService, userRepo)

	auditWorker := worker.NewAuditWorker(dispatcher, logger)
	auditWorker.Start()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Status:   handlers.NewStatusHandler(cfg.App.Name, cfg.App.Version, redis, pg, cleanupService),
		Auth:     handlers.NewAuthHandler(authService, tokenService),
		Tokens:   handlers.NewTokensHandler(tokenService, settingsService),
		Config:   handlers.NewConfigHandler(settingsService),
		Users:    handlers.NewUsersHandler(userService),
		Feedback: handlers.NewFeedbackHandler(feedbackService),
		Visits:   handlers.NewVisitsHandler(visitService),
		Data:     handlers.NewDataHandler(adminService),
		Gate:     gate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
