package location

import (
	"context"

	"github.com/piresc/kirimjek/internal/pkg/models"
)

// LocationUC is the Location Store and Proximity Search surface
type LocationUC interface {
	UpsertPosition(ctx context.Context, driverID string, lat, lon float64) (*models.DriverPosition, error)
	GetPosition(ctx context.Context, driverID string) (*models.DriverPosition, error)
	MarkOffline(ctx context.Context, driverID string) error
	Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]models.MatchCandidate, error)
}
