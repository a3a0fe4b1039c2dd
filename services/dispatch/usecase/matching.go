package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/piresc/kirimjek/internal/pkg/geo"
	"github.com/piresc/kirimjek/internal/pkg/logger"
	"github.com/piresc/kirimjek/internal/pkg/models"
	nrpkg "github.com/piresc/kirimjek/internal/pkg/newrelic"
	"github.com/piresc/kirimjek/services/dispatch"
)

// EstimateETA converts a distance into whole minutes at the assumed speed
func (uc *DispatchUC) EstimateETA(distanceKm float64) (int, error) {
	return geo.ETAMinutes(distanceKm, uc.cfg.AssumedSpeedKmh)
}

// DefaultEligibility rejects drivers holding a committed delivery and
// drivers the directory does not consider online, active and unblocked
func (uc *DispatchUC) DefaultEligibility(ctx context.Context, driverID string) (bool, error) {
	holds, err := uc.coordinator.DriverHolds(ctx, driverID)
	if err != nil {
		return false, fmt.Errorf("failed to check driver claim: %w", err)
	}
	if holds {
		return false, nil
	}
	return uc.directory.IsEligible(ctx, driverID)
}

// FindNearestDriver runs the expanding-ring search and returns the nearest
// eligible driver of the first ring that has one. It changes no state.
func (uc *DispatchUC) FindNearestDriver(ctx context.Context, lat, lon float64, eligible dispatch.EligibilityFunc) (*models.MatchCandidate, error) {
	candidate, _, err := uc.nearest(ctx, lat, lon, eligible)
	return candidate, err
}

func (uc *DispatchUC) nearest(ctx context.Context, lat, lon float64, eligible dispatch.EligibilityFunc) (*models.MatchCandidate, float64, error) {
	if err := geo.ValidateCoordinate(lat, lon); err != nil {
		return nil, 0, err
	}
	if eligible == nil {
		eligible = uc.DefaultEligibility
	}

	radii, err := geo.RingRadii(uc.cfg.InitialRadiusKm, uc.cfg.RadiusStepKm, uc.cfg.MaxRadiusKm)
	if err != nil {
		return nil, 0, err
	}

	// a driver rejected in an inner ring is not asked again in the outer ones
	checked := make(map[string]bool)
	for _, radius := range radii {
		candidates, err := uc.proximity.Nearby(ctx, lat, lon, radius)
		if err != nil {
			return nil, 0, fmt.Errorf("proximity search failed: %w", err)
		}

		for i := range candidates {
			c := candidates[i]
			ok, seen := checked[c.DriverID]
			if !seen {
				ok, err = eligible(ctx, c.DriverID)
				if err != nil {
					return nil, 0, fmt.Errorf("eligibility check failed for %s: %w", c.DriverID, err)
				}
				checked[c.DriverID] = ok
			}
			if ok {
				return &c, radius, nil
			}
		}
	}
	return nil, 0, dispatch.ErrNoDriverFound
}

// Dispatch starts matching a delivery with the requested strategy. A
// delivery that is already matching returns its open attempt and a
// terminal delivery returns its current outcome.
func (uc *DispatchUC) Dispatch(ctx context.Context, req models.DispatchRequest) (*models.DispatchResult, error) {
	strategy := req.Strategy
	if strategy == "" {
		strategy = models.StrategyBroadcast
	}
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %q", dispatch.ErrInvalidStrategy, req.Strategy)
	}
	if req.DeliveryID == "" {
		return nil, fmt.Errorf("%w: empty delivery id", dispatch.ErrDeliveryNotFound)
	}

	if req.Pickup != nil {
		if err := geo.ValidateCoordinate(req.Pickup.Latitude, req.Pickup.Longitude); err != nil {
			return nil, err
		}
		created, err := uc.deliveries.CreateDelivery(ctx, models.DeliveryRequest{ID: req.DeliveryID, Pickup: *req.Pickup})
		if err != nil {
			return nil, err
		}
		if created {
			logger.InfoCtx(ctx, "Delivery registered", logger.DeliveryID(req.DeliveryID))
		}
	}

	unlock := uc.locks.Lock(req.DeliveryID)
	defer unlock()

	d, err := uc.deliveries.LoadDelivery(ctx, req.DeliveryID)
	if err != nil {
		return nil, err
	}
	nrpkg.AddAttribute(ctx, "delivery_id", d.ID)
	nrpkg.AddAttribute(ctx, "strategy", string(strategy))

	switch {
	case d.Status.IsTerminal():
		return resultOf(d, strategy), nil
	case d.Status == models.DeliveryStatusMatching:
		open, err := uc.coordinator.OpenAttemptFor(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		if open != nil {
			result := resultOf(d, strategy)
			result.Attempt = open
			return result, nil
		}
	default:
		if err := uc.deliveries.SaveDeliveryStatus(ctx, d.ID, models.DeliveryStatusMatching, ""); err != nil {
			return nil, err
		}
		d.Status = models.DeliveryStatusMatching
		uc.publishStatus(ctx, d.ID, models.DeliveryStatusMatching, "", "")
	}

	if strategy == models.StrategyDirect {
		return uc.dispatchDirect(ctx, d)
	}
	return uc.broadcastUntilOpen(ctx, d, 0)
}

// dispatchDirect commits the nearest eligible driver. A lost commit race
// reruns the search, which skips the driver that is now held.
func (uc *DispatchUC) dispatchDirect(ctx context.Context, d *models.DeliveryRequest) (*models.DispatchResult, error) {
	var (
		winner  *models.MatchCandidate
		attempt *models.DispatchAttempt
	)
	err := uc.retrier.Execute(ctx, func(ctx context.Context) error {
		c, radius, err := uc.nearest(ctx, d.Pickup.Latitude, d.Pickup.Longitude, uc.DefaultEligibility)
		if err != nil {
			return err
		}

		now := uc.now()
		a := &models.DispatchAttempt{
			ID:         uuid.NewString(),
			DeliveryID: d.ID,
			Candidates: []string{c.DriverID},
			WinnerID:   c.DriverID,
			State:      models.AttemptCommitted,
			RadiusKm:   radius,
			CreatedAt:  now,
			Deadline:   now,
			ResolvedAt: now,
		}
		if err := uc.coordinator.CommitDirect(ctx, a); err != nil {
			return err
		}
		winner, attempt = c, a
		return nil
	})
	if errors.Is(err, dispatch.ErrNoDriverFound) {
		result, saveErr := uc.markUnmatched(ctx, d, models.StrategyDirect, "")
		if saveErr != nil {
			return nil, saveErr
		}
		return result, dispatch.ErrNoDriverFound
	}
	if err != nil {
		return nil, err
	}

	if err := uc.deliveries.SaveDeliveryStatus(ctx, d.ID, models.DeliveryStatusAssigned, winner.DriverID); err != nil {
		// the delivery stays MATCHING; dispatching it again reruns the search
		uc.revertCommit(ctx, attempt, winner.DriverID, false)
		return nil, err
	}
	uc.publishStatus(ctx, d.ID, models.DeliveryStatusAssigned, winner.DriverID, attempt.ID)

	eta, err := uc.EstimateETA(winner.DistanceKm)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Delivery assigned to nearest driver",
		logger.DeliveryID(d.ID),
		logger.DriverID(winner.DriverID),
		logger.Float64("distance_km", winner.DistanceKm),
		logger.Int("eta_minutes", eta))

	return &models.DispatchResult{
		DeliveryID: d.ID,
		Strategy:   models.StrategyDirect,
		Status:     models.DeliveryStatusAssigned,
		DriverID:   winner.DriverID,
		ETAMinutes: eta,
		Attempt:    attempt,
	}, nil
}

func resultOf(d *models.DeliveryRequest, strategy models.DispatchStrategy) *models.DispatchResult {
	return &models.DispatchResult{
		DeliveryID: d.ID,
		Strategy:   strategy,
		Status:     d.Status,
		DriverID:   d.AssignedDriverID,
	}
}

// markUnmatched ends matching for a delivery nobody can take
func (uc *DispatchUC) markUnmatched(ctx context.Context, d *models.DeliveryRequest, strategy models.DispatchStrategy, attemptID string) (*models.DispatchResult, error) {
	if err := uc.deliveries.SaveDeliveryStatus(ctx, d.ID, models.DeliveryStatusUnmatched, ""); err != nil {
		return nil, err
	}
	uc.publishStatus(ctx, d.ID, models.DeliveryStatusUnmatched, "", attemptID)
	logger.InfoCtx(ctx, "No driver found for delivery", logger.DeliveryID(d.ID))

	return &models.DispatchResult{
		DeliveryID: d.ID,
		Strategy:   strategy,
		Status:     models.DeliveryStatusUnmatched,
	}, nil
}

// publishStatus emits a status event. Failures are logged; the status
// change itself is already persisted.
func (uc *DispatchUC) publishStatus(ctx context.Context, deliveryID string, status models.DeliveryStatus, driverID, attemptID string) {
	event := models.StatusChangedEvent{
		EventID:    uuid.NewString(),
		DeliveryID: deliveryID,
		Status:     status,
		DriverID:   driverID,
		AttemptID:  attemptID,
		OccurredAt: uc.now(),
	}
	if err := uc.gateway.PublishStatusChanged(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish status change",
			logger.DeliveryID(deliveryID),
			logger.String("status", string(status)),
			logger.Err(err))
	}
}
