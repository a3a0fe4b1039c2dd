package geo

import (
	"fmt"
	"math"
)

// ringEpsilon absorbs float noise in (max-initial)/step so an exact multiple
// does not produce a duplicated final ring
const ringEpsilon = 1e-9

// RingCount is the number of rings searched when nothing is found:
// ceil((maxKm - initialKm) / stepKm) + 1
func RingCount(initialKm, stepKm, maxKm float64) int {
	if maxKm <= initialKm {
		return 1
	}
	return int(math.Ceil((maxKm-initialKm)/stepKm-ringEpsilon)) + 1
}

// RingRadii returns the strictly increasing radius schedule of an
// expanding-ring search. The last radius is always maxKm.
func RingRadii(initialKm, stepKm, maxKm float64) ([]float64, error) {
	if initialKm <= 0 || stepKm <= 0 || maxKm < initialKm {
		return nil, fmt.Errorf("%w: ring initial=%v step=%v max=%v", ErrInvalidInput, initialKm, stepKm, maxKm)
	}

	n := RingCount(initialKm, stepKm, maxKm)
	radii := make([]float64, n)
	for i := 0; i < n; i++ {
		radii[i] = math.Min(initialKm+float64(i)*stepKm, maxKm)
	}
	radii[n-1] = maxKm
	return radii, nil
}
