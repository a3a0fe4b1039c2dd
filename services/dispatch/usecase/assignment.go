package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/piresc/kirimjek/internal/pkg/logger"
	"github.com/piresc/kirimjek/internal/pkg/models"
	nrpkg "github.com/piresc/kirimjek/internal/pkg/newrelic"
	"github.com/piresc/kirimjek/services/dispatch"
)

// GetAttempt returns the current state of an attempt
func (uc *DispatchUC) GetAttempt(ctx context.Context, attemptID string) (*models.DispatchAttempt, error) {
	return uc.coordinator.GetAttempt(ctx, attemptID)
}

// AcceptOffer commits driverID as the winner of an open attempt and assigns
// the delivery. Of any number of concurrent acceptances for one attempt or
// one driver, exactly one succeeds.
func (uc *DispatchUC) AcceptOffer(ctx context.Context, attemptID, driverID string) (*models.DispatchResult, error) {
	current, err := uc.coordinator.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	// Holding the delivery lock across commit and save keeps a concurrent
	// cancel from slipping in between them.
	unlock := uc.locks.Lock(current.DeliveryID)
	defer unlock()

	attempt, err := nrpkg.WithSegmentAndReturn(ctx, "Dispatch.CommitOffer", func() (*models.DispatchAttempt, error) {
		return uc.coordinator.CommitOffer(ctx, attemptID, driverID, uc.now())
	})
	if err != nil {
		logger.InfoCtx(ctx, "Offer acceptance rejected",
			logger.AttemptID(attemptID),
			logger.DriverID(driverID),
			logger.Err(err))
		return nil, err
	}

	if err := uc.deliveries.SaveDeliveryStatus(ctx, attempt.DeliveryID, models.DeliveryStatusAssigned, driverID); err != nil {
		// a delivery that left MATCHING elsewhere must not be offered again
		uc.revertCommit(ctx, attempt, driverID, !errors.Is(err, dispatch.ErrInvalidTransition))
		return nil, err
	}
	uc.publishStatus(ctx, attempt.DeliveryID, models.DeliveryStatusAssigned, driverID, attempt.ID)

	logger.InfoCtx(ctx, "Delivery assigned",
		logger.DeliveryID(attempt.DeliveryID),
		logger.AttemptID(attempt.ID),
		logger.DriverID(driverID))

	return &models.DispatchResult{
		DeliveryID: attempt.DeliveryID,
		Strategy:   models.StrategyBroadcast,
		Status:     models.DeliveryStatusAssigned,
		DriverID:   driverID,
		Attempt:    attempt,
	}, nil
}

// ExpireAttempt closes an open attempt. If this call expired it and the
// delivery is still matching, the delivery is rebroadcast with a wider
// radius or marked UNMATCHED once the retries are spent.
func (uc *DispatchUC) ExpireAttempt(ctx context.Context, attemptID string) (*models.DispatchAttempt, error) {
	current, err := uc.coordinator.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	unlock := uc.locks.Lock(current.DeliveryID)
	defer unlock()

	attempt, expired, err := uc.coordinator.ExpireAttempt(ctx, attemptID, uc.now())
	if err != nil {
		return nil, err
	}
	if !expired {
		return attempt, nil
	}
	logger.InfoCtx(ctx, "Dispatch attempt expired",
		logger.DeliveryID(attempt.DeliveryID),
		logger.AttemptID(attempt.ID),
		logger.Int("retry", attempt.Retry))

	if err := uc.continueAfterExpiry(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// continueAfterExpiry rebroadcasts a still matching delivery whose attempt
// expired, or marks it UNMATCHED once the retries are spent. The caller
// holds the delivery lock.
func (uc *DispatchUC) continueAfterExpiry(ctx context.Context, attempt *models.DispatchAttempt) error {
	d, err := uc.deliveries.LoadDelivery(ctx, attempt.DeliveryID)
	if err != nil {
		return err
	}
	if d.Status != models.DeliveryStatusMatching {
		return nil
	}

	if attempt.Retry >= uc.cfg.MaxRebroadcastRetries {
		_, err := uc.markUnmatched(ctx, d, models.StrategyBroadcast, attempt.ID)
		return err
	}

	if err := uc.deliveries.SaveDeliveryStatus(ctx, d.ID, models.DeliveryStatusMatching, ""); err != nil {
		return err
	}
	uc.publishStatus(ctx, d.ID, models.DeliveryStatusMatching, "", attempt.ID)

	if _, err := uc.broadcastUntilOpen(ctx, d, attempt.Retry+1); err != nil {
		logger.InfoCtx(ctx, "Rebroadcast ended without an open attempt",
			logger.DeliveryID(d.ID),
			logger.Err(err))
	}
	return nil
}

// revertCommit undoes a commit whose assignment was not saved. A reopened
// attempt keeps accepting until its deadline; one that had to expire hands
// the delivery to the rebroadcast path when reopen was asked for.
func (uc *DispatchUC) revertCommit(ctx context.Context, attempt *models.DispatchAttempt, driverID string, reopen bool) {
	reverted, err := uc.coordinator.RevertCommit(ctx, attempt.ID, driverID, reopen, uc.now())
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to revert commit",
			logger.AttemptID(attempt.ID),
			logger.DriverID(driverID),
			logger.Err(err))
		nrpkg.NoticeError(ctx, err)
		return
	}
	logger.WarnCtx(ctx, "Commit reverted after failed assignment",
		logger.DeliveryID(reverted.DeliveryID),
		logger.AttemptID(reverted.ID),
		logger.DriverID(driverID),
		logger.String("state", string(reverted.State)))

	if reopen && reverted.State == models.AttemptExpired {
		if err := uc.continueAfterExpiry(ctx, reverted); err != nil {
			logger.WarnCtx(ctx, "Failed to continue matching after revert",
				logger.DeliveryID(reverted.DeliveryID),
				logger.Err(err))
		}
	}
}

// WaitForOutcome blocks until the attempt is committed or expired. An
// attempt still open at its deadline is expired by the caller.
func (uc *DispatchUC) WaitForOutcome(ctx context.Context, attemptID string) (*models.DispatchAttempt, error) {
	ticker := time.NewTicker(uc.pollInterval)
	defer ticker.Stop()

	for {
		attempt, err := uc.coordinator.GetAttempt(ctx, attemptID)
		if err != nil {
			return nil, err
		}
		if attempt.IsResolved() {
			return attempt, nil
		}
		if !uc.now().Before(attempt.Deadline) {
			return uc.ExpireAttempt(ctx, attemptID)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Cancel stops matching for a delivery. Calling it again, or after the
// delivery left the matching phase, changes nothing. An assignment that
// was committed first is kept.
func (uc *DispatchUC) Cancel(ctx context.Context, deliveryID string) (*models.CancelResult, error) {
	unlock := uc.locks.Lock(deliveryID)
	defer unlock()

	d, err := uc.deliveries.LoadDelivery(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	result := &models.CancelResult{DeliveryID: deliveryID, Status: d.Status}
	if d.Status.IsTerminal() {
		return result, nil
	}

	open, err := uc.coordinator.OpenAttemptFor(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		attempt, expired, err := uc.coordinator.ExpireAttempt(ctx, open.ID, uc.now())
		if err != nil {
			return nil, err
		}
		if !expired && attempt.State == models.AttemptCommitted {
			result.Status = models.DeliveryStatusAssigned
			return result, nil
		}
		result.ExpiredAttempt = attempt.ID
	}

	if err := uc.deliveries.SaveDeliveryStatus(ctx, deliveryID, models.DeliveryStatusCancelled, ""); err != nil {
		return nil, err
	}
	uc.publishStatus(ctx, deliveryID, models.DeliveryStatusCancelled, "", result.ExpiredAttempt)
	logger.InfoCtx(ctx, "Delivery cancelled", logger.DeliveryID(deliveryID))

	result.Cancelled = true
	result.Status = models.DeliveryStatusCancelled
	return result, nil
}

// ReleaseDriver frees a driver once the assigned delivery is over
func (uc *DispatchUC) ReleaseDriver(ctx context.Context, driverID, deliveryID string) error {
	released, err := uc.coordinator.ReleaseDriver(ctx, driverID, deliveryID)
	if err != nil {
		return err
	}
	if !released {
		logger.Debug("Driver claim already released or held for another delivery",
			logger.DriverID(driverID),
			logger.DeliveryID(deliveryID))
	}
	return nil
}
