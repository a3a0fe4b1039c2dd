package models

import "time"

// DeliveryStatus is the matching-phase status of a delivery
type DeliveryStatus string

const (
	DeliveryStatusCreated   DeliveryStatus = "CREATED"
	DeliveryStatusMatching  DeliveryStatus = "MATCHING"
	DeliveryStatusAssigned  DeliveryStatus = "ASSIGNED"
	DeliveryStatusUnmatched DeliveryStatus = "UNMATCHED"
	DeliveryStatusCancelled DeliveryStatus = "CANCELLED"
)

// IsTerminal reports whether the matching phase is over for this status
func (s DeliveryStatus) IsTerminal() bool {
	switch s {
	case DeliveryStatusAssigned, DeliveryStatusUnmatched, DeliveryStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the matching state machine allows moving
// from s to next. MATCHING to MATCHING is a rebroadcast.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	switch s {
	case DeliveryStatusCreated:
		return next == DeliveryStatusMatching || next == DeliveryStatusCancelled
	case DeliveryStatusMatching:
		return next == DeliveryStatusMatching ||
			next == DeliveryStatusAssigned ||
			next == DeliveryStatusUnmatched ||
			next == DeliveryStatusCancelled
	}
	return false
}

// DeliveryRequest is the part of a delivery the dispatch engine reads and mutates.
// AssignedDriverID is non-empty iff Status is ASSIGNED.
type DeliveryRequest struct {
	ID               string         `json:"id" db:"id"`
	Pickup           Location       `json:"pickup"`
	Status           DeliveryStatus `json:"status" db:"status"`
	AssignedDriverID string         `json:"assigned_driver_id,omitempty"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// DispatchStrategy names how a delivery is matched to a driver
type DispatchStrategy string

const (
	// StrategyDirect assigns the single nearest eligible driver found by the ring search
	StrategyDirect DispatchStrategy = "direct"
	// StrategyBroadcast offers the delivery to every eligible driver in the broadcast radius
	StrategyBroadcast DispatchStrategy = "broadcast"
)

// Valid reports whether s is a known strategy
func (s DispatchStrategy) Valid() bool {
	return s == StrategyDirect || s == StrategyBroadcast
}

// DeliveryCreatedEvent enters the engine from the delivery service. Pickup
// is only needed when the delivery is not yet known to the delivery store.
type DeliveryCreatedEvent struct {
	DeliveryID string           `json:"delivery_id"`
	Strategy   DispatchStrategy `json:"strategy,omitempty"`
	Pickup     *Location        `json:"pickup,omitempty"`
}

// DispatchRequest asks the engine to match a delivery with the given strategy.
// An empty strategy means broadcast.
type DispatchRequest struct {
	DeliveryID string           `json:"delivery_id"`
	Strategy   DispatchStrategy `json:"strategy,omitempty"`
	Pickup     *Location        `json:"pickup,omitempty"`
}

// DeliveryCompletedEvent is emitted by the delivery lifecycle once the
// assigned driver is free again
type DeliveryCompletedEvent struct {
	DeliveryID string `json:"delivery_id"`
	DriverID   string `json:"driver_id"`
}

// StatusChangedEvent is published on every matching-phase status change
type StatusChangedEvent struct {
	EventID    string         `json:"event_id"`
	DeliveryID string         `json:"delivery_id"`
	Status     DeliveryStatus `json:"status"`
	DriverID   string         `json:"driver_id,omitempty"`
	AttemptID  string         `json:"attempt_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}
