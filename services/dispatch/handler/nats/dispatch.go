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
	"github.com/piresc/kirimjek/services/dispatch"
)

// DispatchHandler consumes delivery lifecycle events and driver answers from NATS
type DispatchHandler struct {
	dispatchUC dispatch.DispatchUC
	natsClient *natspkg.Client
	nrApp      *newrelic.Application
	subs       []*nats.Subscription
}

// NewDispatchHandler creates a new dispatch NATS handler
func NewDispatchHandler(dispatchUC dispatch.DispatchUC, client *natspkg.Client, nrApp *newrelic.Application) *DispatchHandler {
	return &DispatchHandler{
		dispatchUC: dispatchUC,
		natsClient: client,
		nrApp:      nrApp,
		subs:       make([]*nats.Subscription, 0),
	}
}

// InitNATSConsumers subscribes to the dispatch subjects
func (h *DispatchHandler) InitNATSConsumers() error {
	subjects := map[string]natspkg.MessageHandler{
		constants.SubjectDeliveryCreated:   h.handleDeliveryCreated,
		constants.SubjectOfferAccepted:     h.handleOfferAccepted,
		constants.SubjectDeliveryCompleted: h.handleDeliveryCompleted,
	}
	for subject, handler := range subjects {
		sub, err := h.natsClient.QueueSubscribe(subject, constants.QueueDispatch, handler)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		h.subs = append(h.subs, sub)
	}

	logger.Info("Dispatch NATS consumers initialized", logger.Int("subscriptions", len(h.subs)))
	return nil
}

// Close unsubscribes every consumer
func (h *DispatchHandler) Close() {
	for _, sub := range h.subs {
		_ = sub.Unsubscribe()
	}
	h.subs = nil
}

func (h *DispatchHandler) handleDeliveryCreated(msg []byte) error {
	var event models.DeliveryCreatedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal delivery created event: %w", err)
	}

	ctx, end := nrpkg.StartBackgroundTransaction(context.Background(), h.nrApp, "NATS "+constants.SubjectDeliveryCreated)
	defer end()
	nrpkg.AddAttribute(ctx, "delivery_id", event.DeliveryID)

	_, err := h.dispatchUC.Dispatch(ctx, models.DispatchRequest{
		DeliveryID: event.DeliveryID,
		Strategy:   event.Strategy,
		Pickup:     event.Pickup,
	})
	if errors.Is(err, dispatch.ErrNoDriverFound) {
		// already published as UNMATCHED
		return nil
	}
	return err
}

func (h *DispatchHandler) handleOfferAccepted(msg []byte) error {
	var event models.OfferAcceptedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal offer accepted event: %w", err)
	}

	ctx, end := nrpkg.StartBackgroundTransaction(context.Background(), h.nrApp, "NATS "+constants.SubjectOfferAccepted)
	defer end()

	_, err := h.dispatchUC.AcceptOffer(ctx, event.AttemptID, event.DriverID)
	switch {
	case errors.Is(err, dispatch.ErrDriverUnavailable),
		errors.Is(err, dispatch.ErrAttemptExpired),
		errors.Is(err, dispatch.ErrNotCandidate):
		// losing an acceptance race is a normal outcome
		logger.Info("Offer acceptance not applied",
			logger.AttemptID(event.AttemptID),
			logger.DriverID(event.DriverID),
			logger.Err(err))
		return nil
	}
	return err
}

func (h *DispatchHandler) handleDeliveryCompleted(msg []byte) error {
	var event models.DeliveryCompletedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal delivery completed event: %w", err)
	}

	ctx, end := nrpkg.StartBackgroundTransaction(context.Background(), h.nrApp, "NATS "+constants.SubjectDeliveryCompleted)
	defer end()

	return h.dispatchUC.ReleaseDriver(ctx, event.DriverID, event.DeliveryID)
}
