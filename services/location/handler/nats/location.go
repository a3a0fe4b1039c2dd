package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/piresc/kirimjek/internal/pkg/constants"
	"github.com/piresc/kirimjek/internal/pkg/logger"
	"github.com/piresc/kirimjek/internal/pkg/models"
	natspkg "github.com/piresc/kirimjek/internal/pkg/nats"
	nrpkg "github.com/piresc/kirimjek/internal/pkg/newrelic"
	"github.com/piresc/kirimjek/services/location"
)

// LocationHandler consumes driver position reports from NATS
type LocationHandler struct {
	locationUC location.LocationUC
	natsClient *natspkg.Client
	nrApp      *newrelic.Application
	subs       []*nats.Subscription
}

// NewLocationHandler creates a new location NATS handler
func NewLocationHandler(locationUC location.LocationUC, client *natspkg.Client, nrApp *newrelic.Application) *LocationHandler {
	return &LocationHandler{
		locationUC: locationUC,
		natsClient: client,
		nrApp:      nrApp,
		subs:       make([]*nats.Subscription, 0),
	}
}

// InitNATSConsumers subscribes to the driver location subjects
func (h *LocationHandler) InitNATSConsumers() error {
	subjects := map[string]natspkg.MessageHandler{
		constants.SubjectDriverLocation: h.handleLocationUpdate,
		constants.SubjectDriverOffline:  h.handleDriverOffline,
	}
	for subject, handler := range subjects {
		sub, err := h.natsClient.QueueSubscribe(subject, constants.QueueLocation, handler)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		h.subs = append(h.subs, sub)
	}

	logger.Info("Location NATS consumers initialized", logger.Int("subscriptions", len(h.subs)))
	return nil
}

// Close unsubscribes every consumer
func (h *LocationHandler) Close() {
	for _, sub := range h.subs {
		_ = sub.Unsubscribe()
	}
	h.subs = nil
}

func (h *LocationHandler) handleLocationUpdate(msg []byte) error {
	var update models.LocationUpdate
	if err := json.Unmarshal(msg, &update); err != nil {
		return fmt.Errorf("failed to unmarshal location update: %w", err)
	}

	ctx, end := nrpkg.StartBackgroundTransaction(context.Background(), h.nrApp, "NATS "+constants.SubjectDriverLocation)
	defer end()

	_, err := h.locationUC.UpsertPosition(ctx, update.DriverID, update.Location.Latitude, update.Location.Longitude)
	if errors.Is(err, location.ErrInvalidCoordinate) {
		// malformed reports are dropped, a later report will replace them
		logger.Warn("Rejected location update",
			logger.DriverID(update.DriverID),
			logger.Float64("latitude", update.Location.Latitude),
			logger.Float64("longitude", update.Location.Longitude),
			logger.Err(err))
		return nil
	}
	return err
}

func (h *LocationHandler) handleDriverOffline(msg []byte) error {
	var event models.DriverOfflineEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal driver offline event: %w", err)
	}

	ctx, end := nrpkg.StartBackgroundTransaction(context.Background(), h.nrApp, "NATS "+constants.SubjectDriverOffline)
	defer end()

	return h.locationUC.MarkOffline(ctx, event.DriverID)
}
