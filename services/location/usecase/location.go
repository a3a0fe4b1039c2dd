package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/piresc/kirimjek/internal/pkg/geo"
	"github.com/piresc/kirimjek/internal/pkg/logger"
	"github.com/piresc/kirimjek/internal/pkg/models"
	nrpkg "github.com/piresc/kirimjek/internal/pkg/newrelic"
	"github.com/piresc/kirimjek/services/driver"
	"github.com/piresc/kirimjek/services/location"
)

// LocationUC implements the location.LocationUC interface
type LocationUC struct {
	repo      location.LocationRepo
	directory driver.Directory
	gateway   location.LocationGW
}

// NewLocationUC creates a new location use case. gw may be nil, in which
// case accepted updates are not fanned out.
func NewLocationUC(repo location.LocationRepo, directory driver.Directory, gw location.LocationGW) *LocationUC {
	return &LocationUC{
		repo:      repo,
		directory: directory,
		gateway:   gw,
	}
}

// UpsertPosition validates and stores the latest fix of a driver. Invalid
// coordinates and unknown drivers are rejected before anything is written.
func (uc *LocationUC) UpsertPosition(ctx context.Context, driverID string, lat, lon float64) (*models.DriverPosition, error) {
	if err := geo.ValidateCoordinate(lat, lon); err != nil {
		return nil, err
	}
	if driverID == "" {
		return nil, fmt.Errorf("%w: empty driver id", location.ErrDriverNotFound)
	}

	exists, err := uc.directory.DriverExists(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up driver: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", location.ErrDriverNotFound, driverID)
	}

	pos := models.DriverPosition{
		DriverID:  driverID,
		Latitude:  lat,
		Longitude: lon,
		UpdatedAt: models.Now(),
	}
	err = nrpkg.WithSegment(ctx, "Location.Upsert", func() error {
		return uc.repo.Upsert(ctx, pos)
	})
	if err != nil {
		return nil, err
	}

	if uc.gateway != nil {
		if err := uc.gateway.PublishPositionUpdated(ctx, pos); err != nil {
			logger.WarnCtx(ctx, "Failed to publish position update",
				logger.DriverID(driverID),
				logger.Err(err))
		}
	}
	return &pos, nil
}

// GetPosition returns the stored fix of a driver
func (uc *LocationUC) GetPosition(ctx context.Context, driverID string) (*models.DriverPosition, error) {
	return uc.repo.Get(ctx, driverID)
}

// MarkOffline removes a driver from proximity results
func (uc *LocationUC) MarkOffline(ctx context.Context, driverID string) error {
	if err := uc.repo.Remove(ctx, driverID); err != nil {
		return err
	}
	logger.Info("Driver went offline", logger.DriverID(driverID))
	return nil
}

// Nearby returns every driver within radiusKm of the point, nearest first
// with ties broken by driver id. The store returns a superset; the exact
// haversine filter here is authoritative.
func (uc *LocationUC) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]models.MatchCandidate, error) {
	if err := geo.ValidateCoordinate(lat, lon); err != nil {
		return nil, err
	}
	if math.IsNaN(radiusKm) || radiusKm < 0 {
		return nil, fmt.Errorf("%w: radius %v km", geo.ErrInvalidInput, radiusKm)
	}

	center := models.Location{Latitude: lat, Longitude: lon}
	positions, err := nrpkg.WithSegmentAndReturn(ctx, "Location.FetchWithin", func() ([]models.DriverPosition, error) {
		return uc.repo.FetchWithin(ctx, center, radiusKm)
	})
	if err != nil {
		return nil, err
	}
	return geo.WithinRadius(center, radiusKm, positions), nil
}
