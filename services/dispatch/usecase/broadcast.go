package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/piresc/kirimjek/internal/pkg/logger"
	"github.com/piresc/kirimjek/internal/pkg/models"
	nrpkg "github.com/piresc/kirimjek/internal/pkg/newrelic"
	"github.com/piresc/kirimjek/services/dispatch"
)

// broadcastRadius widens the broadcast radius by one ring step per retry,
// capped at the maximum search radius
func (uc *DispatchUC) broadcastRadius(retry int) float64 {
	radius := uc.cfg.BroadcastRadiusKm + float64(retry)*uc.cfg.RadiusStepKm
	if radius > uc.cfg.MaxRadiusKm {
		radius = math.Max(uc.cfg.MaxRadiusKm, uc.cfg.BroadcastRadiusKm)
	}
	return radius
}

// Broadcast opens one attempt for the delivery and offers it to every
// eligible driver within radiusKm. Without candidates the attempt is stored
// already EXPIRED and no offer is sent.
func (uc *DispatchUC) Broadcast(ctx context.Context, d *models.DeliveryRequest, radiusKm float64, retry int) (*models.DispatchAttempt, error) {
	candidates, err := nrpkg.WithSegmentAndReturn(ctx, "Dispatch.Nearby", func() ([]models.MatchCandidate, error) {
		return uc.proximity.Nearby(ctx, d.Pickup.Latitude, d.Pickup.Longitude, radiusKm)
	})
	if err != nil {
		return nil, fmt.Errorf("proximity search failed: %w", err)
	}

	eligible := make([]models.MatchCandidate, 0, len(candidates))
	for _, c := range candidates {
		ok, err := uc.DefaultEligibility(ctx, c.DriverID)
		if err != nil {
			return nil, fmt.Errorf("eligibility check failed for %s: %w", c.DriverID, err)
		}
		if ok {
			eligible = append(eligible, c)
		}
	}

	now := uc.now()
	attempt := &models.DispatchAttempt{
		ID:         uuid.NewString(),
		DeliveryID: d.ID,
		Candidates: make([]string, 0, len(eligible)),
		State:      models.AttemptOpen,
		Retry:      retry,
		RadiusKm:   radiusKm,
		CreatedAt:  now,
		Deadline:   now.Add(models.Seconds(uc.cfg.OfferTimeoutSeconds)),
	}
	for _, c := range eligible {
		attempt.Candidates = append(attempt.Candidates, c.DriverID)
	}
	if len(eligible) == 0 {
		attempt.State = models.AttemptExpired
		attempt.ResolvedAt = now
	}

	if err := uc.coordinator.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	for _, c := range eligible {
		uc.offer(ctx, attempt, c)
	}

	logger.InfoCtx(ctx, "Dispatch attempt opened",
		logger.DeliveryID(d.ID),
		logger.AttemptID(attempt.ID),
		logger.Int("candidates", len(eligible)),
		logger.Float64("radius_km", radiusKm),
		logger.Int("retry", retry))
	return attempt, nil
}

// offer notifies one candidate. Duplicate notifications of the same
// attempt are suppressed and transport failures only logged.
func (uc *DispatchUC) offer(ctx context.Context, attempt *models.DispatchAttempt, c models.MatchCandidate) {
	first, err := uc.coordinator.MarkOffered(ctx, attempt.ID, c.DriverID)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to record offer",
			logger.AttemptID(attempt.ID),
			logger.DriverID(c.DriverID),
			logger.Err(err))
		return
	}
	if !first {
		return
	}

	eta, err := uc.EstimateETA(c.DistanceKm)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to estimate ETA", logger.DriverID(c.DriverID), logger.Err(err))
	}

	offer := models.DeliveryOffer{
		AttemptID:  attempt.ID,
		DeliveryID: attempt.DeliveryID,
		DriverID:   c.DriverID,
		ETAMinutes: eta,
		ExpiresAt:  attempt.Deadline,
	}
	if err := uc.gateway.SendDeliveryOffer(ctx, offer); err != nil {
		logger.WarnCtx(ctx, "Failed to send delivery offer",
			logger.AttemptID(attempt.ID),
			logger.DriverID(c.DriverID),
			logger.Err(err))
	}
}

// broadcastUntilOpen broadcasts from the given retry onward until an
// attempt has candidates. Once the retries are spent the delivery is
// marked UNMATCHED.
func (uc *DispatchUC) broadcastUntilOpen(ctx context.Context, d *models.DeliveryRequest, retry int) (*models.DispatchResult, error) {
	for ; ; retry++ {
		attempt, err := uc.Broadcast(ctx, d, uc.broadcastRadius(retry), retry)
		if err != nil {
			return nil, err
		}

		if attempt.State == models.AttemptOpen {
			return &models.DispatchResult{
				DeliveryID: d.ID,
				Strategy:   models.StrategyBroadcast,
				Status:     models.DeliveryStatusMatching,
				Attempt:    attempt,
			}, nil
		}

		if retry >= uc.cfg.MaxRebroadcastRetries {
			result, err := uc.markUnmatched(ctx, d, models.StrategyBroadcast, attempt.ID)
			if err != nil {
				return nil, err
			}
			result.Attempt = attempt
			return result, dispatch.ErrNoDriverFound
		}
	}
}
