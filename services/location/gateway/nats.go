package gateway

import (
	"context"

	"github.com/piresc/kirimjek/internal/pkg/constants"
	"github.com/piresc/kirimjek/internal/pkg/models"
	natspkg "github.com/piresc/kirimjek/internal/pkg/nats"
	"github.com/piresc/kirimjek/services/location"
)

type locationGW struct {
	client *natspkg.Client
}

// NewLocationGW creates a new location gateway
func NewLocationGW(client *natspkg.Client) location.LocationGW {
	return &locationGW{
		client: client,
	}
}

// PublishPositionUpdated publishes an accepted driver position
func (g *locationGW) PublishPositionUpdated(_ context.Context, pos models.DriverPosition) error {
	return g.client.PublishJSON(constants.SubjectDriverLocationUpdated, pos)
}
