package driver

import (
	"context"
)

// Directory answers identity and eligibility questions about drivers.
// Both the location and the dispatch service consult it.
type Directory interface {
	// DriverExists reports whether the id belongs to a registered driver
	DriverExists(ctx context.Context, driverID string) (bool, error)
	// IsEligible reports whether the driver is online, active and not blocked
	IsEligible(ctx context.Context, driverID string) (bool, error)
}
