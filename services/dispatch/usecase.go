package dispatch

import (
	"context"

	"github.com/piresc/kirimjek/internal/pkg/models"
)

// EligibilityFunc decides whether a candidate may be matched
type EligibilityFunc func(ctx context.Context, driverID string) (bool, error)

// DispatchUC is the matching and assignment surface of the dispatch service
type DispatchUC interface {
	EstimateETA(distanceKm float64) (int, error)
	FindNearestDriver(ctx context.Context, lat, lon float64, eligible EligibilityFunc) (*models.MatchCandidate, error)
	DefaultEligibility(ctx context.Context, driverID string) (bool, error)
	Dispatch(ctx context.Context, req models.DispatchRequest) (*models.DispatchResult, error)
	Broadcast(ctx context.Context, delivery *models.DeliveryRequest, radiusKm float64, retry int) (*models.DispatchAttempt, error)
	AcceptOffer(ctx context.Context, attemptID, driverID string) (*models.DispatchResult, error)
	GetAttempt(ctx context.Context, attemptID string) (*models.DispatchAttempt, error)
	ExpireAttempt(ctx context.Context, attemptID string) (*models.DispatchAttempt, error)
	WaitForOutcome(ctx context.Context, attemptID string) (*models.DispatchAttempt, error)
	Cancel(ctx context.Context, deliveryID string) (*models.CancelResult, error)
	ReleaseDriver(ctx context.Context, driverID, deliveryID string) error
	RunExpiryMonitor(ctx context.Context) error
}
