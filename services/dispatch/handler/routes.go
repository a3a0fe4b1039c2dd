package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/piresc/kirimjek/internal/pkg/middleware"
	"github.com/piresc/kirimjek/internal/pkg/models"
	natspkg "github.com/piresc/kirimjek/internal/pkg/nats"
	"github.com/piresc/kirimjek/services/dispatch"
	httpHandler "github.com/piresc/kirimjek/services/dispatch/handler/http"
	natsHandler "github.com/piresc/kirimjek/services/dispatch/handler/nats"
)

// Handler combines the HTTP and NATS surfaces of the dispatch service
type Handler struct {
	dispatchHTTP *httpHandler.DispatchHandler
	dispatchNATS *natsHandler.DispatchHandler
	cfg          *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(
	dispatchUC dispatch.DispatchUC,
	natsClient *natspkg.Client,
	cfg *models.Config,
	nrApp *newrelic.Application,
) *Handler {
	return &Handler{
		dispatchHTTP: httpHandler.NewDispatchHandler(dispatchUC),
		dispatchNATS: natsHandler.NewDispatchHandler(dispatchUC, natsClient, nrApp),
		cfg:          cfg,
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/v1", middleware.ValidateAPIKey(h.cfg.Server.APIKey))

	deliveries := v1.Group("/deliveries")
	deliveries.GET("/nearest", h.dispatchHTTP.NearestDriver)
	deliveries.POST("/:id/dispatch", h.dispatchHTTP.Dispatch)
	deliveries.POST("/:id/cancel", h.dispatchHTTP.Cancel)

	attempts := v1.Group("/attempts")
	attempts.GET("/:id", h.dispatchHTTP.GetAttempt)
	attempts.POST("/:id/accept", h.dispatchHTTP.AcceptOffer)

	v1.POST("/drivers/:id/release", h.dispatchHTTP.ReleaseDriver)
	v1.GET("/eta", h.dispatchHTTP.EstimateETA)
}

// InitNATSConsumers initializes all NATS consumers
func (h *Handler) InitNATSConsumers() error {
	return h.dispatchNATS.InitNATSConsumers()
}

// Close stops the NATS consumers
func (h *Handler) Close() {
	h.dispatchNATS.Close()
}
