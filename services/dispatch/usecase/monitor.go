package usecase

import (
	"context"
	"time"

	"github.com/piresc/kirimjek/internal/pkg/logger"
	"github.com/piresc/kirimjek/internal/pkg/models"
	nrpkg "github.com/piresc/kirimjek/internal/pkg/newrelic"
)

// RunExpiryMonitor expires due attempts every sweep interval and prunes
// resolved attempts older than the retention window. It returns when ctx
// is done.
func (uc *DispatchUC) RunExpiryMonitor(ctx context.Context) error {
	interval := models.Seconds(uc.cfg.SweepIntervalSeconds)
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Expiry monitor started", logger.Duration("interval", interval))
	lastPrune := uc.now()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Expiry monitor stopped")
			return nil
		case <-ticker.C:
			uc.sweep(ctx)
			if retention := models.Seconds(uc.cfg.RetentionSeconds); retention > 0 && uc.now().Sub(lastPrune) >= retention {
				uc.prune(ctx, retention)
				lastPrune = uc.now()
			}
		}
	}
}

// sweep expires every attempt whose deadline has passed
func (uc *DispatchUC) sweep(ctx context.Context) int {
	txnCtx, end := nrpkg.StartBackgroundTransaction(ctx, uc.nrApp, "Dispatch.ExpirySweep")
	defer end()

	due, err := uc.coordinator.ListDueAttempts(txnCtx, uc.now())
	if err != nil {
		logger.ErrorCtx(txnCtx, "Failed to list due attempts", logger.Err(err))
		nrpkg.NoticeError(txnCtx, err)
		return 0
	}

	expired := 0
	for _, id := range due {
		if _, err := uc.ExpireAttempt(txnCtx, id); err != nil {
			logger.WarnCtx(txnCtx, "Failed to expire attempt", logger.AttemptID(id), logger.Err(err))
			continue
		}
		expired++
	}
	nrpkg.AddAttribute(txnCtx, "expired_attempts", expired)
	return expired
}

func (uc *DispatchUC) prune(ctx context.Context, retention time.Duration) {
	pruned, err := uc.coordinator.PruneResolved(ctx, uc.now().Add(-retention))
	if err != nil {
		logger.Warn("Failed to prune resolved attempts", logger.Err(err))
		return
	}
	if pruned > 0 {
		logger.Debug("Pruned resolved attempts", logger.Int("count", pruned))
	}
}
