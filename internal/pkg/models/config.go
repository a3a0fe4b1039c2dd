package models

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	NewRelic NewRelicConfig
	Logger   LoggerConfig
	Services ServicesConfig
	Location LocationConfig
	Driver   DriverConfig
	Dispatch DispatchConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	APIKey          string
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// NewRelicConfig contains New Relic agent configuration
type NewRelicConfig struct {
	LicenseKey  string
	AppName     string
	Enabled     bool
	LogsEnabled bool
	ForwardLogs bool
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
	Format   string
}

// ServicesConfig contains URLs for other services
type ServicesConfig struct {
	LocationServiceURL string
}

// LocationConfig selects the driver position backend
type LocationConfig struct {
	Backend string `json:"backend"` // "memory" or "redis"
}

// DriverConfig selects the driver directory backend. SeedIDs registers
// drivers in the memory directory for local runs.
type DriverConfig struct {
	Backend string   `json:"backend"` // "memory" or "postgres"
	SeedIDs []string `json:"seed_ids"`
}

// DispatchConfig contains the matching and dispatch tuning surface
type DispatchConfig struct {
	InitialRadiusKm       float64 `json:"initial_radius_km"`
	RadiusStepKm          float64 `json:"radius_step_km"`
	MaxRadiusKm           float64 `json:"max_radius_km"`
	BroadcastRadiusKm     float64 `json:"broadcast_radius_km"`
	AssumedSpeedKmh       float64 `json:"assumed_speed_kmh"`
	OfferTimeoutSeconds   int     `json:"offer_timeout_seconds"`
	MaxRebroadcastRetries int     `json:"max_rebroadcast_retries"`

	// Infrastructure knobs for the coordinator, not part of the matching surface
	Backend              string `json:"backend"`          // "memory" or "redis"
	DeliveryBackend      string `json:"delivery_backend"` // "memory" or "postgres"
	SweepIntervalSeconds int    `json:"sweep_interval_seconds"`
	RetentionSeconds     int    `json:"retention_seconds"`
}
