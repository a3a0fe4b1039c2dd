package health

import (
	"context"
	"errors"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/kirimjek/internal/pkg/database"
	"github.com/piresc/kirimjek/internal/pkg/nats"
)

// HealthChecker checks one dependency
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// CheckerFunc adapts a function to HealthChecker
type CheckerFunc func(ctx context.Context) error

// CheckHealth calls f
func (f CheckerFunc) CheckHealth(ctx context.Context) error { return f(ctx) }

// NewRedisHealthChecker checks a Redis client with PING
func NewRedisHealthChecker(client *database.RedisClient) HealthChecker {
	return CheckerFunc(func(ctx context.Context) error {
		if client == nil {
			return nil
		}
		return client.Ping(ctx)
	})
}

// NewPostgresHealthChecker checks a PostgreSQL client with a ping
func NewPostgresHealthChecker(client *database.PostgresClient) HealthChecker {
	return CheckerFunc(func(ctx context.Context) error {
		if client == nil {
			return nil
		}
		return client.Ping(ctx)
	})
}

// NewNATSHealthChecker reports whether the NATS connection is up
func NewNATSHealthChecker(client *nats.Client) HealthChecker {
	return CheckerFunc(func(ctx context.Context) error {
		if client == nil {
			return nil
		}
		if !client.IsConnected() {
			return errors.New("nats not connected")
		}
		return nil
	})
}

// BuildInfo contains information about the build
type BuildInfo struct {
	Version     string    `json:"version"`
	ServiceName string    `json:"service_name"`
	GoVersion   string    `json:"go_version"`
	Hostname    string    `json:"hostname"`
	ServerTime  time.Time `json:"server_time"`
}

// ReadinessReport is the body of the readiness endpoint
type ReadinessReport struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

// Handler serves the liveness and readiness endpoints
type Handler struct {
	serviceName string
	version     string
	checkers    map[string]HealthChecker
	timeout     time.Duration
}

// NewHandler creates a health handler for serviceName
func NewHandler(serviceName, version string) *Handler {
	if version == "" {
		version = "development"
	}
	return &Handler{
		serviceName: serviceName,
		version:     version,
		checkers:    make(map[string]HealthChecker),
		timeout:     2 * time.Second,
	}
}

// AddChecker registers a dependency checked by readiness
func (h *Handler) AddChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

// Ping returns build information
func (h *Handler) Ping(c echo.Context) error {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return c.JSON(http.StatusOK, BuildInfo{
		Version:     h.version,
		ServiceName: h.serviceName,
		GoVersion:   runtime.Version(),
		Hostname:    hostname,
		ServerTime:  time.Now(),
	})
}

// Ready checks every dependency; any failure yields 503
func (h *Handler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	report := ReadinessReport{Status: "ok", Dependencies: make(map[string]string, len(h.checkers))}
	code := http.StatusOK
	for name, checker := range h.checkers {
		if err := checker.CheckHealth(ctx); err != nil {
			report.Dependencies[name] = err.Error()
			report.Status = "unavailable"
			code = http.StatusServiceUnavailable
			continue
		}
		report.Dependencies[name] = "ok"
	}
	return c.JSON(code, report)
}

// RegisterHealthEndpoints registers the health check endpoints
func (h *Handler) RegisterHealthEndpoints(e *echo.Echo) {
	e.GET("/ping", h.Ping)
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/health/ready", h.Ready)
}
