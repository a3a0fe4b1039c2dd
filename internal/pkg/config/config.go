package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/piresc/kirimjek/internal/pkg/models"
	"github.com/spf13/viper"
)

// InitConfig loads configuration from the environment. When APP_ENV is local
// the file at configPath is loaded into the environment first.
func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	// Create config from environment variables
	return loadConfigFromEnv(newEnv())
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "local")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_READ_TIMEOUT", 10)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 10)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 15)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_IDLE_CONNS", 5)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOCATION_SERVICE_URL", "http://localhost:9991")
	v.SetDefault("LOCATION_BACKEND", "memory")
	v.SetDefault("DRIVER_BACKEND", "memory")

	v.SetDefault("DISPATCH_INITIAL_RADIUS_KM", 1.5)
	v.SetDefault("DISPATCH_RADIUS_STEP_KM", 1.0)
	v.SetDefault("DISPATCH_MAX_RADIUS_KM", 10.0)
	v.SetDefault("DISPATCH_BROADCAST_RADIUS_KM", 3.0)
	v.SetDefault("DISPATCH_ASSUMED_SPEED_KMH", 35.0)
	v.SetDefault("DISPATCH_OFFER_TIMEOUT_SECONDS", 30)
	v.SetDefault("DISPATCH_MAX_REBROADCAST_RETRIES", 3)
	v.SetDefault("DISPATCH_BACKEND", "memory")
	v.SetDefault("DISPATCH_DELIVERY_BACKEND", "memory")
	v.SetDefault("DISPATCH_SWEEP_INTERVAL_SECONDS", 1)
	v.SetDefault("DISPATCH_RETENTION_SECONDS", 600)
	return v
}

func loadConfigFromEnv(v *viper.Viper) *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = v.GetString("APP_NAME")
	configs.App.Environment = v.GetString("APP_ENV")
	configs.App.Debug = v.GetBool("APP_DEBUG")
	configs.App.Version = v.GetString("APP_VERSION")

	// Server config
	configs.Server.Host = v.GetString("SERVER_HOST")
	configs.Server.Port = v.GetInt("SERVER_PORT")
	configs.Server.ReadTimeout = v.GetInt("SERVER_READ_TIMEOUT")
	configs.Server.WriteTimeout = v.GetInt("SERVER_WRITE_TIMEOUT")
	configs.Server.ShutdownTimeout = v.GetInt("SERVER_SHUTDOWN_TIMEOUT")
	configs.Server.APIKey = v.GetString("SERVER_API_KEY")

	// Database config
	configs.Database.Driver = v.GetString("DB_DRIVER")
	configs.Database.Host = v.GetString("DB_HOST")
	configs.Database.Port = v.GetInt("DB_PORT")
	configs.Database.Username = v.GetString("DB_USERNAME")
	configs.Database.Password = v.GetString("DB_PASSWORD")
	configs.Database.Database = v.GetString("DB_DATABASE")
	configs.Database.SSLMode = v.GetString("DB_SSL_MODE")
	configs.Database.MaxConns = v.GetInt("DB_MAX_CONNS")
	configs.Database.IdleConns = v.GetInt("DB_IDLE_CONNS")

	// Redis config
	configs.Redis.Host = v.GetString("REDIS_HOST")
	configs.Redis.Port = v.GetInt("REDIS_PORT")
	configs.Redis.Password = v.GetString("REDIS_PASSWORD")
	configs.Redis.DB = v.GetInt("REDIS_DB")
	configs.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")

	// NATS config
	configs.NATS.URL = v.GetString("NATS_URL")

	// NewRelic config
	configs.NewRelic.LicenseKey = v.GetString("NEW_RELIC_LICENSE_KEY")
	configs.NewRelic.AppName = v.GetString("NEW_RELIC_APP_NAME")
	configs.NewRelic.Enabled = v.GetBool("NEW_RELIC_ENABLED")
	configs.NewRelic.LogsEnabled = v.GetBool("NEW_RELIC_LOGS_ENABLED")
	configs.NewRelic.ForwardLogs = v.GetBool("NEW_RELIC_FORWARD_LOGS")

	// Logger config
	configs.Logger.Level = v.GetString("LOG_LEVEL")
	configs.Logger.FilePath = v.GetString("LOG_FILE_PATH")
	configs.Logger.Format = v.GetString("LOG_FORMAT")

	// Services config
	configs.Services.LocationServiceURL = v.GetString("LOCATION_SERVICE_URL")

	// Location config
	configs.Location.Backend = v.GetString("LOCATION_BACKEND")

	// Driver directory config
	configs.Driver.Backend = v.GetString("DRIVER_BACKEND")
	configs.Driver.SeedIDs = splitList(v.GetString("DRIVER_SEED_IDS"))

	// Dispatch config
	configs.Dispatch.InitialRadiusKm = v.GetFloat64("DISPATCH_INITIAL_RADIUS_KM")
	configs.Dispatch.RadiusStepKm = v.GetFloat64("DISPATCH_RADIUS_STEP_KM")
	configs.Dispatch.MaxRadiusKm = v.GetFloat64("DISPATCH_MAX_RADIUS_KM")
	configs.Dispatch.BroadcastRadiusKm = v.GetFloat64("DISPATCH_BROADCAST_RADIUS_KM")
	configs.Dispatch.AssumedSpeedKmh = v.GetFloat64("DISPATCH_ASSUMED_SPEED_KMH")
	configs.Dispatch.OfferTimeoutSeconds = v.GetInt("DISPATCH_OFFER_TIMEOUT_SECONDS")
	configs.Dispatch.MaxRebroadcastRetries = v.GetInt("DISPATCH_MAX_REBROADCAST_RETRIES")
	configs.Dispatch.Backend = v.GetString("DISPATCH_BACKEND")
	configs.Dispatch.DeliveryBackend = v.GetString("DISPATCH_DELIVERY_BACKEND")
	configs.Dispatch.SweepIntervalSeconds = v.GetInt("DISPATCH_SWEEP_INTERVAL_SECONDS")
	configs.Dispatch.RetentionSeconds = v.GetInt("DISPATCH_RETENTION_SECONDS")

	return configs
}

// splitList parses a comma separated env value, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateDispatch checks that the dispatch tuning surface describes a
// terminating ring search and a usable broadcast window
func ValidateDispatch(cfg models.DispatchConfig) error {
	switch {
	case cfg.InitialRadiusKm <= 0:
		return fmt.Errorf("initial radius must be positive, got %v", cfg.InitialRadiusKm)
	case cfg.RadiusStepKm <= 0:
		return fmt.Errorf("radius step must be positive, got %v", cfg.RadiusStepKm)
	case cfg.MaxRadiusKm < cfg.InitialRadiusKm:
		return fmt.Errorf("max radius %v is below initial radius %v", cfg.MaxRadiusKm, cfg.InitialRadiusKm)
	case cfg.BroadcastRadiusKm <= 0:
		return fmt.Errorf("broadcast radius must be positive, got %v", cfg.BroadcastRadiusKm)
	case cfg.AssumedSpeedKmh <= 0:
		return fmt.Errorf("assumed speed must be positive, got %v", cfg.AssumedSpeedKmh)
	case cfg.OfferTimeoutSeconds <= 0:
		return fmt.Errorf("offer timeout must be positive, got %d", cfg.OfferTimeoutSeconds)
	case cfg.MaxRebroadcastRetries < 0:
		return fmt.Errorf("max rebroadcast retries must not be negative, got %d", cfg.MaxRebroadcastRetries)
	}
	return nil
}

// GetEnv returns the environment variable or defaultValue when unset
func GetEnv(key, defaultValue string) string {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(key, defaultValue)
	if value := v.GetString(key); value != "" {
		return value
	}
	return defaultValue
}
