package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/civnet/issue-service/internal/api/http"
	"github.com/civnet/issue-service/internal/api/http/handlers"
	"github.com/civnet/issue-service/internal/auth"
	"github.com/civnet/issue-service/internal/config"
	"github.com/civnet/issue-service/internal/events"
	"github.com/civnet/issue-service/internal/observability"
	"github.com/civnet/issue-service/internal/persistence"
	"github.com/civnet/issue-service/internal/repository"
	"github.com/civnet/issue-service/internal/service"
	"github.com/civnet/issue-service/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	issueRepo := repository.NewIssueRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo, logger)
	issueService := service.NewIssueService(issueRepo, dispatcher)
	commentService := service.NewCommentService(commentRepo, issueRepo, dispatcher)
	adminService := service.NewAdminService(userRepo, cfg.Auth.BcryptCost, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, redis.Client, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)

	if err := authService.SeedAdmins(ctx); err != nil {
		logger.Fatal("failed to seed bootstrap admins", zap.Error(err))
	}

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Issues:         handlers.NewIssuesHandler(issueService, commentService),
		Admin:          handlers.NewAdminHandler(adminService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
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
