package constants

// NATS Subjects
const (
	// Location Service
	SubjectDriverLocation        = "driver.location"
	SubjectDriverOffline         = "driver.offline"
	SubjectDriverLocationUpdated = "driver.location.updated"

	// Delivery lifecycle
	SubjectDeliveryCreated   = "delivery.created"
	SubjectDeliveryCompleted = "delivery.completed"

	// Dispatch Service
	SubjectDeliveryOffer  = "dispatch.offer.%s" // Format: dispatch.offer.{driver_id}
	SubjectOfferAccepted  = "dispatch.offer.accepted"
	SubjectDeliveryStatus = "delivery.status.%s" // Format: delivery.status.{status}
)

// JetStream streams
const (
	StreamDeliveryStatus   = "DELIVERY_STATUS"
	StreamDeliveryStatusWC = "delivery.status.>"
)

// Queue groups
const (
	QueueLocation = "location-service"
	QueueDispatch = "dispatch-service"
)
