package main

import (
	"context"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/identity-service/internal/api/http"
	"github.com/spec-kit/identity-service/internal/api/http/handlers"
	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/observability"
	"github.com/spec-kit/identity-service/internal/persistence"
	"github.com/spec-kit/identity-service/internal/repository"
	"github.com/spec-kit/identity-service/internal/service"
	"github.com/spec-kit/identity-service/internal/worker"
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
	backend := &repository.Backend{
		Users:     repository.NewUserRepository(pool),
		Tenants:   repository.NewTenantRepository(pool),
		Tokens:    repository.NewCachedTokenRepository(repository.NewTokenRepository(pool), redis.Client),
		Roles:     repository.NewRoleRepository(pool),
		Services:  repository.NewServiceRepository(pool),
		Endpoints: repository.NewEndpointRepository(pool),
	}

	metrics, registry := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	identity := service.NewIdentityService(cfg.Auth, service.Dependencies{
		Backend:    backend,
		Hasher:     auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tokens:    handlers.NewTokensHandler(identity),
		Tenants:   handlers.NewTenantsHandler(identity),
		Users:     handlers.NewUsersHandler(identity),
		Roles:     handlers.NewRolesHandler(identity),
		Services:  handlers.NewServicesHandler(identity),
		Endpoints: handlers.NewEndpointsHandler(identity),
	})

	go func() {
		mux := nethttp.NewServeMux()
		mux.Handle("/metrics", observability.Handler(registry))
		if err := nethttp.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
			logger.Warn("metrics listener stopped", zap.Error(err))
		}
	}()

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
