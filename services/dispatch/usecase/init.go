package usecase

import (
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/piresc/kirimjek/internal/pkg/keylock"
	"github.com/piresc/kirimjek/internal/pkg/models"
	"github.com/piresc/kirimjek/internal/pkg/retry"
	"github.com/piresc/kirimjek/services/dispatch"
	"github.com/piresc/kirimjek/services/driver"
)

const defaultPollInterval = 50 * time.Millisecond

// DispatchUC implements the dispatch.DispatchUC interface
type DispatchUC struct {
	cfg         models.DispatchConfig
	deliveries  dispatch.DeliveryStore
	coordinator dispatch.CoordinatorStore
	proximity   dispatch.ProximitySearcher
	directory   driver.Directory
	gateway     dispatch.DispatchGW
	nrApp       *newrelic.Application

	// status changes of one delivery are serialized on its id
	locks   *keylock.Locker
	retrier *retry.Retrier

	now          func() time.Time
	pollInterval time.Duration
}

// NewDispatchUC creates a new dispatch use case. nrApp may be nil.
func NewDispatchUC(
	cfg *models.Config,
	deliveries dispatch.DeliveryStore,
	coordinator dispatch.CoordinatorStore,
	proximity dispatch.ProximitySearcher,
	directory driver.Directory,
	gw dispatch.DispatchGW,
	nrApp *newrelic.Application,
) *DispatchUC {
	return &DispatchUC{
		cfg:         cfg.Dispatch,
		deliveries:  deliveries,
		coordinator: coordinator,
		proximity:   proximity,
		directory:   directory,
		gateway:     gw,
		nrApp:       nrApp,
		locks:       keylock.New(),
		retrier: retry.New(retry.Config{
			MaxRetries:    3,
			BaseDelay:     10 * time.Millisecond,
			MaxDelay:      100 * time.Millisecond,
			Multiplier:    2,
			Jitter:        true,
			RetryableFunc: retry.RetryOn(dispatch.ErrDriverUnavailable),
		}, nil),
		now:          models.Now,
		pollInterval: defaultPollInterval,
	}
}
