package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/hr-client/internal/api/http"
	"github.com/spec-kit/hr-client/internal/api/http/handlers"
	"github.com/spec-kit/hr-client/internal/apiclient"
	"github.com/spec-kit/hr-client/internal/auth"
	"github.com/spec-kit/hr-client/internal/config"
	"github.com/spec-kit/hr-client/internal/credential"
	"github.com/spec-kit/hr-client/internal/events"
	"github.com/spec-kit/hr-client/internal/guard"
	"github.com/spec-kit/hr-client/internal/navigation"
	"github.com/spec-kit/hr-client/internal/observability"
	"github.com/spec-kit/hr-client/internal/persistence"
	"github.com/spec-kit/hr-client/internal/service"
	"github.com/spec-kit/hr-client/internal/session"
	"github.com/spec-kit/hr-client/internal/worker"
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

	metrics := observability.NewMetrics()

	store, deps, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open credential store", zap.Error(err))
	}
	defer cleanup()

	var decoderOpts []auth.DecoderOption
	if cfg.Session.VerifySecret != "" {
		decoderOpts = append(decoderOpts, auth.WithVerification(cfg.Session.VerifySecret, cfg.Session.Issuer, cfg.Session.Audience))
	}
	decoder := auth.NewDecoder(logger, metrics, decoderOpts...)

	history := navigation.NewHistory(logger)
	dispatcher := events.NewInMemoryDispatcher(logger)
	notices := service.NewNotificationService(dispatcher, logger, 0)

	sessions := session.NewService(session.Dependencies{
		Store:     store,
		Decoder:   decoder,
		Publisher: session.NewPublisher(),
		Navigator: history,
		Events:    dispatcher,
		Logger:    logger,
		Metrics:   metrics,
	})
	classifier := apiclient.NewClassifier(apiclient.ClassifierDependencies{
		Session:   sessions,
		Navigator: history,
		Events:    dispatcher,
		LoginPath: cfg.API.LoginPath,
		Logger:    logger,
		Metrics:   metrics,
	})
	client := apiclient.New(cfg.API, sessions, classifier, nil, logger)
	sessions.SetLoginClient(client)

	stopWatcher := worker.StartSessionWatcher(ctx, sessions, notices, metrics, logger)
	defer stopWatcher()

	state := sessions.Initialize(ctx)
	logger.Info("session initialized", zap.Bool("authenticated", state.Authenticated))

	authGuard := guard.NewAuthGuard(sessions, history, logger, metrics)
	roleGuard := guard.NewRoleGuard(sessions, authGuard, history, logger, metrics)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), httptransport.ShellRedirects())
	httptransport.RegisterShellRoutes(app, httptransport.ShellRouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Shell: handlers.NewShellHandler(handlers.ShellDependencies{
			Session: sessions,
			API:     client,
			History: history,
			Notices: notices,
		}),
		AuthGuard: authGuard,
		RoleGuard: roleGuard,
		Metrics:   metrics,
		DataPaths: httptransport.DefaultDataPaths(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// buildStore opens the configured credential backend and returns the
// dependencies the readiness probe should check.
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (credential.Store, map[string]handlers.Pinger, func(), error) {
	deps := map[string]handlers.Pinger{}
	switch cfg.Session.Store {
	case config.StoreMemory:
		return credential.NewMemoryStore(), deps, func() {}, nil
	case config.StoreRedis:
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		deps["redis"] = redis
		return redis.SessionStore(cfg.Session.TokenKey, logger), deps, redis.Close, nil
	case config.StorePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
				pg.Close()
				return nil, nil, nil, err
			}
		}
		if err := pg.RequireTables(ctx, persistence.SessionTables...); err != nil {
			pg.Close()
			return nil, nil, nil, fmt.Errorf("session schema: %w", err)
		}
		deps["postgres"] = pg
		return credential.NewPostgresStore(pg.PoolHandle(), cfg.Session.TokenKey, logger), deps, pg.Close, nil
	default:
		return credential.NewFileStore(cfg.Session.FilePath, cfg.Session.TokenKey, logger), deps, func() {}, nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
