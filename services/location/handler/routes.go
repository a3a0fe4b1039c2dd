package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/piresc/kirimjek/internal/pkg/middleware"
	"github.com/piresc/kirimjek/internal/pkg/models"
	natspkg "github.com/piresc/kirimjek/internal/pkg/nats"
	"github.com/piresc/kirimjek/services/location"
	httpHandler "github.com/piresc/kirimjek/services/location/handler/http"
	natsHandler "github.com/piresc/kirimjek/services/location/handler/nats"
)

// Handler combines the HTTP and NATS surfaces of the location service
type Handler struct {
	locationHTTP *httpHandler.LocationHandler
	locationNATS *natsHandler.LocationHandler
	cfg          *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(
	locationUC location.LocationUC,
	natsClient *natspkg.Client,
	cfg *models.Config,
	nrApp *newrelic.Application,
) *Handler {
	return &Handler{
		locationHTTP: httpHandler.NewLocationHandler(locationUC),
		locationNATS: natsHandler.NewLocationHandler(locationUC, natsClient, nrApp),
		cfg:          cfg,
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// service-to-service and driver-app routes share the API key guard
	v1 := e.Group("/v1", middleware.ValidateAPIKey(h.cfg.Server.APIKey))

	v1.GET("/drivers/nearby", h.locationHTTP.Nearby)
	v1.PUT("/drivers/:id/location", h.locationHTTP.UpsertPosition)
	v1.GET("/drivers/:id/location", h.locationHTTP.GetPosition)
	v1.DELETE("/drivers/:id/location", h.locationHTTP.MarkOffline)
}

// InitNATSConsumers initializes all NATS consumers
func (h *Handler) InitNATSConsumers() error {
	return h.locationNATS.InitNATSConsumers()
}

// Close stops the NATS consumers
func (h *Handler) Close() {
	h.locationNATS.Close()
}
