package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/kirimjek/internal/pkg/config"
	"github.com/piresc/kirimjek/internal/pkg/constants"
	"github.com/piresc/kirimjek/internal/pkg/database"
	"github.com/piresc/kirimjek/internal/pkg/health"
	"github.com/piresc/kirimjek/internal/pkg/logger"
	"github.com/piresc/kirimjek/internal/pkg/middleware"
	natspkg "github.com/piresc/kirimjek/internal/pkg/nats"
	nrpkg "github.com/piresc/kirimjek/internal/pkg/newrelic"
	"github.com/piresc/kirimjek/internal/pkg/server"
	"github.com/piresc/kirimjek/services/dispatch"
	"github.com/piresc/kirimjek/services/dispatch/gateway"
	"github.com/piresc/kirimjek/services/dispatch/handler"
	"github.com/piresc/kirimjek/services/dispatch/repository"
	"github.com/piresc/kirimjek/services/dispatch/usecase"
	"github.com/piresc/kirimjek/services/driver"
	driverRepo "github.com/piresc/kirimjek/services/driver/repository"
)

func main() {
	appName := "dispatch-service"
	configPath := "config/dispatch.env"
	configs := config.InitConfig(configPath)

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	logger.SetGlobalLogger(zapLogger)

	if err := config.ValidateDispatch(configs.Dispatch); err != nil {
		zapLogger.Fatal("Invalid dispatch configuration", logger.Err(err))
	}

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
		logger.String("coordinator_backend", configs.Dispatch.Backend),
		logger.String("delivery_backend", configs.Dispatch.DeliveryBackend),
		logger.Float64("broadcast_radius_km", configs.Dispatch.BroadcastRadiusKm),
		logger.Int("offer_timeout_seconds", configs.Dispatch.OfferTimeoutSeconds),
	)

	healthHandler := health.NewHandler(appName, configs.App.Version)

	e := echo.New()
	e.HideBanner = true

	// Panic recovery goes first so it also covers the other middlewares
	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	e.Use(nrpkg.Middleware(nrApp))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port,
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)

	if nrApp != nil {
		srv.OnShutdown(func(context.Context) error {
			nrApp.Shutdown(10 * time.Second)
			return nil
		})
	}

	// Postgres is shared by the delivery store and the driver directory
	var postgresClient *database.PostgresClient
	if configs.Dispatch.DeliveryBackend == "postgres" || configs.Driver.Backend == "postgres" {
		postgresClient, err = database.NewPostgresClient(configs.Database)
		if err != nil {
			zapLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
		}
		srv.OnShutdown(func(context.Context) error { return postgresClient.Close() })
		healthHandler.AddChecker("postgres", health.NewPostgresHealthChecker(postgresClient))
	}

	var deliveries dispatch.DeliveryStore
	if configs.Dispatch.DeliveryBackend == "postgres" {
		deliveries = repository.NewPostgresDeliveryStore(postgresClient.GetDB())
	} else {
		deliveries = repository.NewMemoryDeliveryStore()
	}

	var directory driver.Directory
	if configs.Driver.Backend == "postgres" {
		directory = driverRepo.NewPostgresDirectory(postgresClient.GetDB())
	} else {
		directory = driverRepo.NewMemoryDirectory(configs.Driver.SeedIDs...)
	}

	var coordinator dispatch.CoordinatorStore
	switch configs.Dispatch.Backend {
	case "redis":
		redisClient, err := database.NewRedisClient(configs.Redis)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
		}
		srv.OnShutdown(func(context.Context) error { return redisClient.Close() })
		healthHandler.AddChecker("redis", health.NewRedisHealthChecker(redisClient))
		retention := time.Duration(configs.Dispatch.RetentionSeconds) * time.Second
		coordinator = repository.NewRedisCoordinatorStore(redisClient, retention)
	default:
		coordinator = repository.NewMemoryCoordinatorStore()
	}

	natsClient, err := natspkg.NewClient(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", logger.Err(err))
	}
	srv.OnShutdown(func(context.Context) error { return natsClient.Drain() })
	healthHandler.AddChecker("nats", health.NewNATSHealthChecker(natsClient))

	streamCtx, cancelStream := context.WithTimeout(context.Background(), 10*time.Second)
	err = natsClient.EnsureStream(streamCtx, constants.StreamDeliveryStatus, constants.StreamDeliveryStatusWC)
	cancelStream()
	if err != nil {
		zapLogger.Fatal("Failed to ensure delivery status stream", logger.Err(err))
	}

	locationClient := gateway.NewLocationClient(configs.Services.LocationServiceURL, configs.Server.APIKey)
	dispatchGW := gateway.NewDispatchGW(natsClient)

	dispatchUC := usecase.NewDispatchUC(configs, deliveries, coordinator, locationClient, directory, dispatchGW, nrApp)

	// Offer timeouts are driven by the sweeper, stopped before the stores close
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		if err := dispatchUC.RunExpiryMonitor(monitorCtx); err != nil {
			logger.Error("Expiry monitor stopped", logger.Err(err))
		}
	}()

	dispatchHandler := handler.NewHandler(dispatchUC, natsClient, configs, nrApp)
	if err := dispatchHandler.InitNATSConsumers(); err != nil {
		zapLogger.Fatal("Failed to initialize NATS consumers", logger.Err(err))
	}
	srv.OnShutdown(func(ctx context.Context) error {
		dispatchHandler.Close()
		stopMonitor()
		select {
		case <-monitorDone:
		case <-ctx.Done():
		}
		return nil
	})

	healthHandler.RegisterHealthEndpoints(e)
	dispatchHandler.RegisterRoutes(e)

	if err := srv.Start(); err != nil {
		zapLogger.Error("Server exited with error", logger.Err(err))
	}
	_ = zapLogger.Sync()
}
