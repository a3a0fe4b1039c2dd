package logger

import (
	"time"

	"go.uber.org/zap"
)

// Field is the structured field type accepted by every logging call
type Field = zap.Field

// String constructs a field that carries a string value
func String(key, val string) Field {
	return zap.String(key, val)
}

// Strings constructs a field that carries a slice of strings
func Strings(key string, val []string) Field {
	return zap.Strings(key, val)
}

// Err constructs a field that carries an error
func Err(err error) Field {
	return zap.Error(err)
}

// Int constructs a field that carries an int value
func Int(key string, val int) Field {
	return zap.Int(key, val)
}

// Int64 constructs a field that carries an int64 value
func Int64(key string, val int64) Field {
	return zap.Int64(key, val)
}

// Float64 constructs a field that carries a float64 value
func Float64(key string, val float64) Field {
	return zap.Float64(key, val)
}

// Bool constructs a field that carries a boolean value
func Bool(key string, val bool) Field {
	return zap.Bool(key, val)
}

// Duration constructs a field that carries a time.Duration value
func Duration(key string, val time.Duration) Field {
	return zap.Duration(key, val)
}

// Time constructs a field that carries a time.Time value
func Time(key string, val time.Time) Field {
	return zap.Time(key, val)
}

// Any constructs a field that carries an arbitrary value
func Any(key string, val interface{}) Field {
	return zap.Any(key, val)
}

// Domain field helpers keep key names consistent across services

// DriverID tags a log entry with a driver id
func DriverID(id string) Field {
	return zap.String("driver_id", id)
}

// DeliveryID tags a log entry with a delivery id
func DeliveryID(id string) Field {
	return zap.String("delivery_id", id)
}

// AttemptID tags a log entry with a dispatch attempt id
func AttemptID(id string) Field {
	return zap.String("attempt_id", id)
}
