package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// AddAttribute adds a custom attribute to the current transaction
func AddAttribute(c echo.Context, key string, value interface{}) {
	if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
		txn.AddAttribute(key, value)
	}
}

// SetDriverID tags the current transaction with a driver id
func SetDriverID(c echo.Context, driverID string) {
	AddAttribute(c, "driver.id", driverID)
}

// SetDeliveryID tags the current transaction with a delivery id
func SetDeliveryID(c echo.Context, deliveryID string) {
	AddAttribute(c, "delivery.id", deliveryID)
}

// SetAttemptID tags the current transaction with a dispatch attempt id
func SetAttemptID(c echo.Context, attemptID string) {
	AddAttribute(c, "attempt.id", attemptID)
}
