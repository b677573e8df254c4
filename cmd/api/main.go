package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/facilityops/resolution-service/internal/api/http"
	"github.com/facilityops/resolution-service/internal/api/http/handlers"
	"github.com/facilityops/resolution-service/internal/auth"
	"github.com/facilityops/resolution-service/internal/classifier"
	"github.com/facilityops/resolution-service/internal/config"
	"github.com/facilityops/resolution-service/internal/events"
	"github.com/facilityops/resolution-service/internal/notifier"
	"github.com/facilityops/resolution-service/internal/observability"
	"github.com/facilityops/resolution-service/internal/persistence"
	"github.com/facilityops/resolution-service/internal/repository"
	"github.com/facilityops/resolution-service/internal/service"
	"github.com/facilityops/resolution-service/internal/worker"
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
	ticketRepo := repository.NewTicketRepository(pool)
	activityRepo := repository.NewActivityLogRepository(pool)
	statRepo := repository.NewResolverStatRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	membershipRepo := repository.NewMembershipRepository(pool)

	rules := classifier.NewDefault()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	counts := service.NewActiveCountsProvider(ticketRepo, redis.Client,
		time.Duration(cfg.SLA.CountsCacheTTLSecond)*time.Second, logger)

	intakeService := service.NewIntakeService(service.IntakeDependencies{
		TicketRepo:        ticketRepo,
		StatRepo:          statRepo,
		CatalogRepo:       catalogRepo,
		Classifier:        rules,
		Counts:            counts,
		Dispatcher:        dispatcher,
		Logger:            logger,
		DefaultSLAMinutes: cfg.SLA.DefaultMinutes,
	})
	flowService := service.NewTicketFlowService(service.FlowDependencies{
		TicketRepo:   ticketRepo,
		ActivityRepo: activityRepo,
		CatalogRepo:  catalogRepo,
		Classifier:   rules,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	resolverService := service.NewResolverService(service.ResolverDependencies{
		StatRepo:       statRepo,
		MembershipRepo: membershipRepo,
		CatalogRepo:    catalogRepo,
		Counts:         counts,
		Shifts:         redis.Client,
		Logger:         logger,
	})

	webhook := notifier.NewWebhookNotifier(cfg.Notifier, logger)
	notificationService := service.NewNotificationService(dispatcher, webhook, logger)
	worker.StartNotificationWorker(notificationService)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, 60)
	authMiddleware := auth.NewAuthMiddleware(tokens)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(),
		Tickets:        handlers.NewTicketsHandler(intakeService, flowService),
		Resolvers:      handlers.NewResolversHandler(resolverService),
		Ops:            handlers.NewOpsHandler(metrics),
		AuthMiddleware: authMiddleware,
		OpsKeyHash:     cfg.Auth.OpsKeyHash,
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
