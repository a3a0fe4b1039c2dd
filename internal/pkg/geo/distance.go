// Package geo holds the pure geographic helpers shared by the location and
// dispatch services: great-circle distance, candidate ordering, the ring
// radius schedule, ETA estimation and geohash cell coverage.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/piresc/kirimjek/internal/pkg/models"
)

// EarthRadiusKm is the mean Earth radius of the spherical model
const EarthRadiusKm = 6371.0

var (
	// ErrInvalidCoordinate is returned for a latitude or longitude outside WGS-84 range
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrInvalidInput is returned for negative distances, radii or non-positive speeds
	ErrInvalidInput = errors.New("invalid input")
)

// ValidateCoordinate checks lat ∈ [-90,90] and lon ∈ [-180,180]
func ValidateCoordinate(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinate, lat, lon)
	}
	return nil
}

// HaversineKm returns the great-circle distance in kilometres between two
// points given in decimal degrees
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Distance is HaversineKm over two locations
func Distance(a, b models.Location) float64 {
	return HaversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
