package dispatch

import (
	"context"
	"time"

	"github.com/piresc/kirimjek/internal/pkg/models"
)

// DeliveryStore is the delivery persistence collaborator
type DeliveryStore interface {
	// CreateDelivery inserts d in status CREATED unless the id already exists
	CreateDelivery(ctx context.Context, d models.DeliveryRequest) (bool, error)
	// LoadDelivery returns ErrDeliveryNotFound for unknown ids
	LoadDelivery(ctx context.Context, deliveryID string) (*models.DeliveryRequest, error)
	// SaveDeliveryStatus applies a transition allowed by DeliveryStatus.CanTransitionTo
	// and returns ErrInvalidTransition otherwise. assignedDriverID is only kept for ASSIGNED.
	SaveDeliveryStatus(ctx context.Context, deliveryID string, status models.DeliveryStatus, assignedDriverID string) error
}

// CoordinatorStore holds dispatch attempts and driver claims. Every method
// that changes a driver claim is an atomic compare-and-commit scoped to that
// driver id.
type CoordinatorStore interface {
	// CreateAttempt stores a new attempt. OPEN attempts become due at their deadline.
	CreateAttempt(ctx context.Context, attempt *models.DispatchAttempt) error
	// GetAttempt returns ErrAttemptNotFound for unknown ids
	GetAttempt(ctx context.Context, attemptID string) (*models.DispatchAttempt, error)
	// OpenAttemptFor returns the OPEN attempt of a delivery, or nil
	OpenAttemptFor(ctx context.Context, deliveryID string) (*models.DispatchAttempt, error)
	// MarkOffered records that driverID was notified and reports whether this was the first time
	MarkOffered(ctx context.Context, attemptID, driverID string) (bool, error)
	// CommitOffer atomically moves an OPEN attempt to COMMITTED with driverID as
	// winner and claims the driver. It fails with ErrAttemptExpired,
	// ErrNotCandidate or ErrDriverUnavailable.
	CommitOffer(ctx context.Context, attemptID, driverID string, now time.Time) (*models.DispatchAttempt, error)
	// CommitDirect claims attempt.WinnerID and stores the already committed
	// attempt, or fails with ErrDriverUnavailable
	CommitDirect(ctx context.Context, attempt *models.DispatchAttempt) error
	// RevertCommit undoes the commit of driverID when the assignment could not
	// be persisted: the driver claim is released and the attempt goes back to
	// OPEN (reopen set, deadline not passed) or to EXPIRED. Attempts no longer
	// committed to driverID are returned unchanged.
	RevertCommit(ctx context.Context, attemptID, driverID string, reopen bool, now time.Time) (*models.DispatchAttempt, error)
	// ExpireAttempt moves an OPEN attempt to EXPIRED. expired is false when
	// the attempt was already resolved.
	ExpireAttempt(ctx context.Context, attemptID string, now time.Time) (attempt *models.DispatchAttempt, expired bool, err error)
	// ListDueAttempts returns OPEN attempts whose deadline is not after now
	ListDueAttempts(ctx context.Context, now time.Time) ([]string, error)
	// DriverHolds reports whether the driver holds a committed attempt
	DriverHolds(ctx context.Context, driverID string) (bool, error)
	// ReleaseDriver drops the driver's claim if it belongs to deliveryID
	ReleaseDriver(ctx context.Context, driverID, deliveryID string) (bool, error)
	// PruneResolved forgets attempts resolved before the given time
	PruneResolved(ctx context.Context, before time.Time) (int, error)
}
