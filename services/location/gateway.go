package location

import (
	"context"

	"github.com/piresc/kirimjek/internal/pkg/models"
)

// LocationGW fans accepted position updates out to other services
type LocationGW interface {
	PublishPositionUpdated(ctx context.Context, pos models.DriverPosition) error
}
