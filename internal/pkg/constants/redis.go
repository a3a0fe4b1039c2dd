package constants

// Redis key formats
const (
	// Location Service
	KeyDriverGeo      = "drivers:geo"        // GEO set of the latest position of every driver
	KeyDriverPolar    = "drivers:polar"      // Set of drivers whose latitude is outside the Redis GEO range
	KeyDriverPosition = "driver:position:%s" // Format: driver:position:{driver_id}

	// Dispatch Service
	KeyAttempt           = "dispatch:attempt:%s"    // Format: dispatch:attempt:{attempt_id}
	KeyAttemptOffered    = "dispatch:offered:%s"    // Format: dispatch:offered:{attempt_id}
	KeyAttemptCandidates = "dispatch:candidates:%s" // Format: dispatch:candidates:{attempt_id}
	KeyAttemptDeadlines  = "dispatch:deadlines"     // Sorted set of open attempt ids scored by deadline
	KeyDeliveryAttempt   = "dispatch:delivery:%s"   // Format: dispatch:delivery:{delivery_id}
	KeyDriverClaim       = "dispatch:driver:%s"     // Format: dispatch:driver:{driver_id}
)

// Redis hash fields
const (
	FieldLatitude   = "lat"
	FieldLongitude  = "lng"
	FieldTimestamp  = "ts"
	FieldState      = "state"
	FieldDeliveryID = "delivery_id"
	FieldCandidates = "candidates"
	FieldWinner     = "winner"
	FieldRetry      = "retry"
	FieldRadius     = "radius_km"
	FieldCreatedAt  = "created_at"
	FieldDeadline   = "deadline"
	FieldResolvedAt = "resolved_at"
)

// Dispatch Service sorted sets
const (
	KeyAttemptsResolved = "dispatch:resolved" // Sorted set of resolved attempt ids scored by resolution time
)
