package models

import (
	"time"
)

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}

// Seconds converts a configured number of seconds to a duration
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
