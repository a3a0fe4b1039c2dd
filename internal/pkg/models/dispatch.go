package models

import "time"

// AttemptState is the state of a DispatchAttempt
type AttemptState string

const (
	AttemptOpen      AttemptState = "OPEN"
	AttemptCommitted AttemptState = "COMMITTED"
	AttemptExpired   AttemptState = "EXPIRED"
)

// DispatchAttempt is one broadcast-and-wait cycle for a delivery.
// WinnerID is set at most once, when the attempt is committed.
type DispatchAttempt struct {
	ID         string       `json:"id"`
	DeliveryID string       `json:"delivery_id"`
	Candidates []string     `json:"candidates"`
	WinnerID   string       `json:"winner_id,omitempty"`
	State      AttemptState `json:"state"`
	Retry      int          `json:"retry"`
	RadiusKm   float64      `json:"radius_km"`
	CreatedAt  time.Time    `json:"created_at"`
	Deadline   time.Time    `json:"deadline"`
	ResolvedAt time.Time    `json:"resolved_at,omitempty"`
}

// HasCandidate reports whether driverID was notified in this attempt
func (a *DispatchAttempt) HasCandidate(driverID string) bool {
	for _, id := range a.Candidates {
		if id == driverID {
			return true
		}
	}
	return false
}

// IsResolved reports whether the attempt left the OPEN state
func (a *DispatchAttempt) IsResolved() bool {
	return a.State != AttemptOpen
}

// DeliveryOffer is sent to each candidate driver of a broadcast
type DeliveryOffer struct {
	AttemptID  string    `json:"attempt_id"`
	DeliveryID string    `json:"delivery_id"`
	DriverID   string    `json:"driver_id"`
	ETAMinutes int       `json:"eta_minutes"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// OfferAcceptedEvent is a driver's answer to a DeliveryOffer
type OfferAcceptedEvent struct {
	AttemptID string `json:"attempt_id"`
	DriverID  string `json:"driver_id"`
}

// DispatchResult is returned to callers of a dispatch request
type DispatchResult struct {
	DeliveryID string           `json:"delivery_id"`
	Strategy   DispatchStrategy `json:"strategy"`
	Status     DeliveryStatus   `json:"status"`
	DriverID   string           `json:"driver_id,omitempty"`
	ETAMinutes int              `json:"eta_minutes,omitempty"`
	Attempt    *DispatchAttempt `json:"attempt,omitempty"`
}

// CancelResult reports what a cancellation did. Cancelled is false when the
// call was a no-op because the delivery was already assigned or terminal.
type CancelResult struct {
	DeliveryID     string         `json:"delivery_id"`
	Cancelled      bool           `json:"cancelled"`
	Status         DeliveryStatus `json:"status"`
	ExpiredAttempt string         `json:"expired_attempt,omitempty"`
}
