package models

import "time"

// Location is a WGS-84 coordinate in degrees
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// DriverPosition is the latest known fix of a single driver
type DriverPosition struct {
	DriverID  string    `json:"driver_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Location returns the coordinate part of the position
func (p DriverPosition) Location() Location {
	return Location{Latitude: p.Latitude, Longitude: p.Longitude}
}

// MatchCandidate is a driver found by a proximity search together with
// its distance to the search center
type MatchCandidate struct {
	DriverID   string    `json:"driver_id"`
	DistanceKm float64   `json:"distance_km"`
	PositionAt time.Time `json:"position_at"`
}

// LocationUpdate is the payload drivers publish on every position report
type LocationUpdate struct {
	DriverID  string    `json:"driver_id"`
	Location  Location  `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// DriverOfflineEvent signals that a driver stopped reporting and should
// disappear from proximity results
type DriverOfflineEvent struct {
	DriverID string    `json:"driver_id"`
	At       time.Time `json:"at"`
}

// NearbyResponse is the body of a proximity search over HTTP
type NearbyResponse struct {
	Candidates []MatchCandidate `json:"candidates"`
	Count      int              `json:"count"`
}
