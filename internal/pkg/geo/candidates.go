package geo

import (
	"cmp"
	"slices"

	"github.com/piresc/kirimjek/internal/pkg/models"
)

// WithinRadius computes the distance from center to every position and keeps
// those at or inside radiusKm, ordered by SortCandidates
func WithinRadius(center models.Location, radiusKm float64, positions []models.DriverPosition) []models.MatchCandidate {
	candidates := make([]models.MatchCandidate, 0, len(positions))
	for _, p := range positions {
		d := HaversineKm(center.Latitude, center.Longitude, p.Latitude, p.Longitude)
		if d > radiusKm {
			continue
		}
		candidates = append(candidates, models.MatchCandidate{
			DriverID:   p.DriverID,
			DistanceKm: d,
			PositionAt: p.UpdatedAt,
		})
	}
	SortCandidates(candidates)
	return candidates
}

// SortCandidates orders candidates by ascending distance, ties broken by
// ascending driver id
func SortCandidates(candidates []models.MatchCandidate) {
	slices.SortFunc(candidates, func(a, b models.MatchCandidate) int {
		if c := cmp.Compare(a.DistanceKm, b.DistanceKm); c != 0 {
			return c
		}
		return cmp.Compare(a.DriverID, b.DriverID)
	})
}
