package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/kirimjek/internal/pkg/config"
	"github.com/piresc/kirimjek/internal/pkg/database"
	"github.com/piresc/kirimjek/internal/pkg/health"
	"github.com/piresc/kirimjek/internal/pkg/logger"
	"github.com/piresc/kirimjek/internal/pkg/middleware"
	natspkg "github.com/piresc/kirimjek/internal/pkg/nats"
	nrpkg "github.com/piresc/kirimjek/internal/pkg/newrelic"
	"github.com/piresc/kirimjek/internal/pkg/server"
	"github.com/piresc/kirimjek/services/driver"
	driverRepo "github.com/piresc/kirimjek/services/driver/repository"
	"github.com/piresc/kirimjek/services/location"
	"github.com/piresc/kirimjek/services/location/gateway"
	"github.com/piresc/kirimjek/services/location/handler"
	"github.com/piresc/kirimjek/services/location/repository"
	"github.com/piresc/kirimjek/services/location/usecase"
)

func main() {
	appName := "location-service"
	configPath := "config/location.env"
	configs := config.InitConfig(configPath)

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
		logger.String("location_backend", configs.Location.Backend),
		logger.String("driver_backend", configs.Driver.Backend),
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

	// Driver directory
	var directory driver.Directory
	switch configs.Driver.Backend {
	case "postgres":
		postgresClient, err := database.NewPostgresClient(configs.Database)
		if err != nil {
			zapLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
		}
		srv.OnShutdown(func(context.Context) error { return postgresClient.Close() })
		healthHandler.AddChecker("postgres", health.NewPostgresHealthChecker(postgresClient))
		directory = driverRepo.NewPostgresDirectory(postgresClient.GetDB())
	default:
		directory = driverRepo.NewMemoryDirectory(configs.Driver.SeedIDs...)
	}

	// Position store
	var locationRepo location.LocationRepo
	switch configs.Location.Backend {
	case "redis":
		redisClient, err := database.NewRedisClient(configs.Redis)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
		}
		srv.OnShutdown(func(context.Context) error { return redisClient.Close() })
		healthHandler.AddChecker("redis", health.NewRedisHealthChecker(redisClient))
		locationRepo = repository.NewRedisStore(redisClient)
	default:
		locationRepo = repository.NewMemoryStore()
	}

	natsClient, err := natspkg.NewClient(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", logger.Err(err))
	}
	srv.OnShutdown(func(context.Context) error { return natsClient.Drain() })
	healthHandler.AddChecker("nats", health.NewNATSHealthChecker(natsClient))

	locationGW := gateway.NewLocationGW(natsClient)
	locationUC := usecase.NewLocationUC(locationRepo, directory, locationGW)

	locationHandler := handler.NewHandler(locationUC, natsClient, configs, nrApp)
	if err := locationHandler.InitNATSConsumers(); err != nil {
		zapLogger.Fatal("Failed to initialize NATS consumers", logger.Err(err))
	}
	srv.OnShutdown(func(context.Context) error {
		locationHandler.Close()
		return nil
	})

	healthHandler.RegisterHealthEndpoints(e)
	locationHandler.RegisterRoutes(e)

	if err := srv.Start(); err != nil {
		zapLogger.Error("Server exited with error", logger.Err(err))
	}
	_ = zapLogger.Sync()
}
