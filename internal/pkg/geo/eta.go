package geo

import (
	"fmt"
	"math"
)

// ETAMinutes converts a distance and an assumed speed into whole minutes,
// rounding up: ceil(distanceKm / speedKmh * 60)
func ETAMinutes(distanceKm, speedKmh float64) (int, error) {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return 0, fmt.Errorf("%w: distance %v km", ErrInvalidInput, distanceKm)
	}
	if math.IsNaN(speedKmh) || math.IsInf(speedKmh, 0) || speedKmh <= 0 {
		return 0, fmt.Errorf("%w: speed %v km/h", ErrInvalidInput, speedKmh)
	}
	return int(math.Ceil(distanceKm / speedKmh * 60)), nil
}
