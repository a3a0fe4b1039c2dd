package dispatch

import (
	"context"

	"github.com/piresc/kirimjek/internal/pkg/models"
)

// ProximitySearcher is the Proximity Search collaborator
type ProximitySearcher interface {
	Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]models.MatchCandidate, error)
}

// DispatchGW is the notification transport and status event producer
type DispatchGW interface {
	// SendDeliveryOffer is fire-and-forget with at-least-once delivery
	SendDeliveryOffer(ctx context.Context, offer models.DeliveryOffer) error
	PublishStatusChanged(ctx context.Context, event models.StatusChangedEvent) error
}
