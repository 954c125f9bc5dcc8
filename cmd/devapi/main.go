package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/hr-client/internal/api/http"
	"github.com/spec-kit/hr-client/internal/api/http/handlers"
	"github.com/spec-kit/hr-client/internal/auth"
	"github.com/spec-kit/hr-client/internal/config"
	"github.com/spec-kit/hr-client/internal/observability"
	"github.com/spec-kit/hr-client/internal/persistence"
	"github.com/spec-kit/hr-client/internal/repository"
	"github.com/spec-kit/hr-client/internal/service"
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

	deps := map[string]handlers.Pinger{}
	var accounts repository.AccountRepository = repository.NewMemoryAccountRepository()
	if cfg.Postgres.DSN != "" {
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		if err := pg.RequireTables(ctx, persistence.AccountTables...); err != nil {
			logger.Fatal("account schema not ready", zap.Error(err))
		}
		accounts = repository.NewAccountRepository(pg.PoolHandle())
		deps["postgres"] = pg
	}

	authService := service.NewAuthService(cfg.DevAPI, accounts, logger)
	if err := authService.Seed(ctx, service.DefaultSeedAccounts()); err != nil {
		logger.Fatal("failed to seed accounts", zap.Error(err))
	}
	directory := service.NewDirectoryService(service.DefaultDirectory())
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: "hr-devapi"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), nil)
	httptransport.RegisterDevAPIRoutes(app, httptransport.DevAPIRouteConfig{
		Health:         handlers.NewHealthHandler("hr-devapi", cfg.App.Version, deps),
		Auth:           handlers.NewAuthHandler(authService),
		Directory:      handlers.NewDirectoryHandler(directory),
		Bearer:         auth.NewBearerMiddleware(authService.TokenManager()),
		Metrics:        metrics,
		PathPrefix:     cfg.DevAPI.PathPrefix,
		LoginPerMinute: cfg.DevAPI.LoginPerMinute,
	})

	go func() {
		if err := app.Listen(cfg.DevAPI.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))

	_ = app.Shutdown()
}
