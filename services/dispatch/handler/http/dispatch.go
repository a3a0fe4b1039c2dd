package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/piresc/kirimjek/internal/pkg/geo"
	"github.com/piresc/kirimjek/internal/pkg/logger"
	"github.com/piresc/kirimjek/internal/pkg/middleware"
	"github.com/piresc/kirimjek/internal/pkg/models"
	"github.com/piresc/kirimjek/internal/utils"
	"github.com/piresc/kirimjek/services/dispatch"
)

const msgNoDriversNearby = "No drivers nearby"

// DispatchHandler handles HTTP requests for matching and assignment
type DispatchHandler struct {
	dispatchUC dispatch.DispatchUC
}

// NewDispatchHandler creates a new dispatch HTTP handler
func NewDispatchHandler(dispatchUC dispatch.DispatchUC) *DispatchHandler {
	return &DispatchHandler{
		dispatchUC: dispatchUC,
	}
}

type dispatchRequest struct {
	Strategy models.DispatchStrategy `json:"strategy"`
	Pickup   *models.Location        `json:"pickup"`
}

type acceptRequest struct {
	DriverID string `json:"driver_id"`
}

type releaseRequest struct {
	DeliveryID string `json:"delivery_id"`
}

type nearestResponse struct {
	Candidate  *models.MatchCandidate `json:"candidate"`
	ETAMinutes int                    `json:"eta_minutes"`
}

// Dispatch starts matching a delivery
func (h *DispatchHandler) Dispatch(c echo.Context) error {
	deliveryID := c.Param("id")
	if deliveryID == "" {
		return utils.BadRequestResponse(c, "delivery_id is required")
	}
	middleware.SetDeliveryID(c, deliveryID)

	var req dispatchRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", logger.Err(err))
		return utils.BadRequestResponse(c, "invalid request body")
	}

	result, err := h.dispatchUC.Dispatch(c.Request().Context(), models.DispatchRequest{
		DeliveryID: deliveryID,
		Strategy:   req.Strategy,
		Pickup:     req.Pickup,
	})
	if errors.Is(err, dispatch.ErrNoDriverFound) && result != nil {
		return utils.SuccessResponse(c, http.StatusOK, msgNoDriversNearby, result)
	}
	if err != nil {
		return h.respondError(c, err, "failed to dispatch delivery")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Delivery dispatched", result)
}

// AcceptOffer records a driver's acceptance of an attempt
func (h *DispatchHandler) AcceptOffer(c echo.Context) error {
	attemptID := c.Param("id")
	if attemptID == "" {
		return utils.BadRequestResponse(c, "attempt_id is required")
	}
	middleware.SetAttemptID(c, attemptID)

	var req acceptRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", logger.Err(err))
		return utils.BadRequestResponse(c, "invalid request body")
	}
	if req.DriverID == "" {
		return utils.BadRequestResponse(c, "driver_id is required")
	}
	middleware.SetDriverID(c, req.DriverID)

	result, err := h.dispatchUC.AcceptOffer(c.Request().Context(), attemptID, req.DriverID)
	if err != nil {
		return h.respondError(c, err, "failed to accept offer")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Offer accepted", result)
}

// GetAttempt returns an attempt. With wait=true it blocks until the
// attempt is resolved or the request is cancelled.
func (h *DispatchHandler) GetAttempt(c echo.Context) error {
	attemptID := c.Param("id")
	if attemptID == "" {
		return utils.BadRequestResponse(c, "attempt_id is required")
	}

	ctx := c.Request().Context()
	var (
		attempt *models.DispatchAttempt
		err     error
	)
	if c.QueryParam("wait") == "true" {
		attempt, err = h.dispatchUC.WaitForOutcome(ctx, attemptID)
	} else {
		attempt, err = h.dispatchUC.GetAttempt(ctx, attemptID)
	}
	if err != nil {
		return h.respondError(c, err, "failed to get attempt")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Attempt retrieved", attempt)
}

// Cancel stops matching for a delivery
func (h *DispatchHandler) Cancel(c echo.Context) error {
	deliveryID := c.Param("id")
	if deliveryID == "" {
		return utils.BadRequestResponse(c, "delivery_id is required")
	}
	middleware.SetDeliveryID(c, deliveryID)

	result, err := h.dispatchUC.Cancel(c.Request().Context(), deliveryID)
	if err != nil {
		return h.respondError(c, err, "failed to cancel delivery")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Cancellation processed", result)
}

// ReleaseDriver frees a driver after the assigned delivery ended
func (h *DispatchHandler) ReleaseDriver(c echo.Context) error {
	driverID := c.Param("id")
	if driverID == "" {
		return utils.BadRequestResponse(c, "driver_id is required")
	}

	var req releaseRequest
	if err := c.Bind(&req); err != nil || req.DeliveryID == "" {
		return utils.BadRequestResponse(c, "delivery_id is required")
	}

	if err := h.dispatchUC.ReleaseDriver(c.Request().Context(), driverID, req.DeliveryID); err != nil {
		return h.respondError(c, err, "failed to release driver")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Driver released", map[string]string{
		"driver_id":   driverID,
		"delivery_id": req.DeliveryID,
	})
}

// NearestDriver runs the ring search without committing anything
func (h *DispatchHandler) NearestDriver(c echo.Context) error {
	lat, errLat := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if errLat != nil || errLon != nil {
		return utils.BadRequestResponse(c, "lat and lon must be numbers")
	}

	candidate, err := h.dispatchUC.FindNearestDriver(c.Request().Context(), lat, lon, nil)
	if errors.Is(err, dispatch.ErrNoDriverFound) {
		return utils.SuccessResponse(c, http.StatusOK, msgNoDriversNearby, nearestResponse{})
	}
	if err != nil {
		return h.respondError(c, err, "failed to find nearest driver")
	}

	eta, err := h.dispatchUC.EstimateETA(candidate.DistanceKm)
	if err != nil {
		return h.respondError(c, err, "failed to estimate eta")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Nearest driver found", nearestResponse{
		Candidate:  candidate,
		ETAMinutes: eta,
	})
}

// EstimateETA converts a distance into minutes at the configured speed
func (h *DispatchHandler) EstimateETA(c echo.Context) error {
	distance, err := strconv.ParseFloat(c.QueryParam("distance_km"), 64)
	if err != nil {
		return utils.BadRequestResponse(c, "distance_km must be a number")
	}

	eta, err := h.dispatchUC.EstimateETA(distance)
	if err != nil {
		return h.respondError(c, err, "failed to estimate eta")
	}
	return utils.SuccessResponse(c, http.StatusOK, "ETA estimated", map[string]interface{}{
		"distance_km": distance,
		"eta_minutes": eta,
	})
}

func (h *DispatchHandler) respondError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, dispatch.ErrInvalidStrategy),
		errors.Is(err, geo.ErrInvalidCoordinate),
		errors.Is(err, geo.ErrInvalidInput):
		return utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, dispatch.ErrDeliveryNotFound), errors.Is(err, dispatch.ErrAttemptNotFound):
		return utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, dispatch.ErrDriverUnavailable),
		errors.Is(err, dispatch.ErrNotCandidate),
		errors.Is(err, dispatch.ErrInvalidTransition):
		return utils.ConflictResponse(c, err.Error())
	case errors.Is(err, dispatch.ErrAttemptExpired):
		return utils.GoneResponse(c, err.Error())
	}
	logger.ErrorCtx(c.Request().Context(), fallback,
		logger.String("path", c.Path()),
		logger.Err(err))
	return utils.InternalServerErrorResponse(c, fallback)
}
