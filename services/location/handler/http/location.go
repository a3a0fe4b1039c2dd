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
	"github.com/piresc/kirimjek/services/location"
)

// LocationHandler handles HTTP requests for location operations
type LocationHandler struct {
	locationUC location.LocationUC
}

// NewLocationHandler creates a new location HTTP handler
func NewLocationHandler(locationUC location.LocationUC) *LocationHandler {
	return &LocationHandler{
		locationUC: locationUC,
	}
}

type upsertPositionRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// UpsertPosition stores the latest fix of a driver
func (h *LocationHandler) UpsertPosition(c echo.Context) error {
	driverID := c.Param("id")
	if driverID == "" {
		return utils.BadRequestResponse(c, "driver_id is required")
	}
	middleware.SetDriverID(c, driverID)

	var req upsertPositionRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", logger.Err(err))
		return utils.BadRequestResponse(c, "invalid request body")
	}
	if req.Latitude == nil || req.Longitude == nil {
		return utils.BadRequestResponse(c, "latitude and longitude are required")
	}

	pos, err := h.locationUC.UpsertPosition(c.Request().Context(), driverID, *req.Latitude, *req.Longitude)
	if err != nil {
		return h.respondError(c, err, "failed to update driver location")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Driver location updated", pos)
}

// GetPosition returns the stored fix of a driver
func (h *LocationHandler) GetPosition(c echo.Context) error {
	driverID := c.Param("id")
	if driverID == "" {
		return utils.BadRequestResponse(c, "driver_id is required")
	}

	pos, err := h.locationUC.GetPosition(c.Request().Context(), driverID)
	if err != nil {
		return h.respondError(c, err, "failed to get driver location")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Driver location retrieved", pos)
}

// MarkOffline removes a driver from proximity results
func (h *LocationHandler) MarkOffline(c echo.Context) error {
	driverID := c.Param("id")
	if driverID == "" {
		return utils.BadRequestResponse(c, "driver_id is required")
	}

	if err := h.locationUC.MarkOffline(c.Request().Context(), driverID); err != nil {
		return h.respondError(c, err, "failed to remove driver location")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Driver marked offline", map[string]string{"driver_id": driverID})
}

// Nearby finds drivers around a point
func (h *LocationHandler) Nearby(c echo.Context) error {
	lat, errLat := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.QueryParam("lon"), 64)
	radius, errRadius := strconv.ParseFloat(c.QueryParam("radius_km"), 64)
	if errLat != nil || errLon != nil || errRadius != nil {
		return utils.BadRequestResponse(c, "lat, lon and radius_km must be numbers")
	}

	candidates, err := h.locationUC.Nearby(c.Request().Context(), lat, lon, radius)
	if err != nil {
		return h.respondError(c, err, "failed to find nearby drivers")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Nearby drivers", models.NearbyResponse{
		Candidates: candidates,
		Count:      len(candidates),
	})
}

func (h *LocationHandler) respondError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, location.ErrDriverNotFound):
		return utils.BadRequestResponse(c, "unknown driver")
	case errors.Is(err, location.ErrInvalidCoordinate), errors.Is(err, geo.ErrInvalidInput):
		return utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, location.ErrPositionNotFound):
		return utils.NotFoundResponse(c, "driver location not found")
	}
	logger.ErrorCtx(c.Request().Context(), fallback,
		logger.String("path", c.Path()),
		logger.Err(err))
	return utils.InternalServerErrorResponse(c, fallback)
}
