package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/piresc/kirimjek/internal/pkg/constants"
	"github.com/piresc/kirimjek/internal/pkg/logger"
	"github.com/piresc/kirimjek/internal/pkg/models"
	natspkg "github.com/piresc/kirimjek/internal/pkg/nats"
	"github.com/piresc/kirimjek/services/dispatch"
)

type dispatchGW struct {
	client *natspkg.Client
}

// NewDispatchGW creates the NATS notification and status event gateway
func NewDispatchGW(client *natspkg.Client) dispatch.DispatchGW {
	return &dispatchGW{
		client: client,
	}
}

// SendDeliveryOffer publishes the offer on the driver's own subject
func (g *dispatchGW) SendDeliveryOffer(_ context.Context, offer models.DeliveryOffer) error {
	subject := fmt.Sprintf(constants.SubjectDeliveryOffer, offer.DriverID)
	return g.client.PublishJSON(subject, offer)
}

// PublishStatusChanged writes the event to the status stream. The event id
// is the JetStream message id, so a republished event is stored once.
func (g *dispatchGW) PublishStatusChanged(ctx context.Context, event models.StatusChangedEvent) error {
	subject := fmt.Sprintf(constants.SubjectDeliveryStatus, strings.ToLower(string(event.Status)))
	duplicate, err := g.client.PublishJetStream(ctx, subject, event.EventID, event)
	if err != nil {
		return err
	}
	if duplicate {
		logger.Debug("Status event already stored",
			logger.DeliveryID(event.DeliveryID),
			logger.String("event_id", event.EventID))
	}
	return nil
}
