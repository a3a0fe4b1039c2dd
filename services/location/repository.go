package location

import (
	"context"

	"github.com/piresc/kirimjek/internal/pkg/models"
)

// LocationRepo stores the latest position of every driver, keyed by driver id
type LocationRepo interface {
	// Upsert overwrites the stored position of pos.DriverID
	Upsert(ctx context.Context, pos models.DriverPosition) error
	// Get returns ErrPositionNotFound when nothing is stored for driverID
	Get(ctx context.Context, driverID string) (*models.DriverPosition, error)
	// Remove deletes the position; removing an absent driver is not an error
	Remove(ctx context.Context, driverID string) error
	// FetchWithin returns a superset of the drivers within radiusKm of center.
	// Callers apply the exact distance filter.
	FetchWithin(ctx context.Context, center models.Location, radiusKm float64) ([]models.DriverPosition, error)
}
