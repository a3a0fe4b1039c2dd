package dispatch

import "errors"

var (
	// ErrNoDriverFound is a user-visible outcome: nothing eligible within the maximum radius
	ErrNoDriverFound = errors.New("no driver found")
	// ErrDriverUnavailable means a commit race was lost; callers retry matching
	ErrDriverUnavailable = errors.New("driver unavailable")
	// ErrAttemptExpired means the offer window closed before the acceptance arrived
	ErrAttemptExpired = errors.New("dispatch attempt expired")
	// ErrAttemptNotFound is returned for unknown or pruned attempt ids
	ErrAttemptNotFound = errors.New("dispatch attempt not found")
	// ErrNotCandidate rejects an acceptance from a driver that was never offered the attempt
	ErrNotCandidate = errors.New("driver is not a candidate of this attempt")
	// ErrDeliveryNotFound is returned when the delivery store has no such delivery
	ErrDeliveryNotFound = errors.New("delivery not found")
	// ErrInvalidTransition rejects a delivery status change the state machine forbids
	ErrInvalidTransition = errors.New("invalid delivery status transition")
	// ErrInvalidStrategy rejects an unknown dispatch strategy name
	ErrInvalidStrategy = errors.New("unknown dispatch strategy")
)
