package geo

import (
	"math"

	"github.com/mmcloughlin/geohash"
	"github.com/piresc/kirimjek/internal/pkg/models"
)

// CellPrecision is the geohash length used to bucket driver positions
// (cells of roughly 4.9 km x 4.9 km at the equator)
const CellPrecision uint = 5

// maxCoveringCells bounds the cell fan-out of a single query; wider queries
// fall back to a full scan
const maxCoveringCells = 1024

const kmPerDegreeLat = EarthRadiusKm * math.Pi / 180

// coverPad widens the bounding box slightly so rounding never drops an
// in-range position
const coverPad = 1.01

// Cell returns the index cell of a coordinate
func Cell(lat, lon float64) string {
	return geohash.EncodeWithPrecision(lat, lon, CellPrecision)
}

// CoveringCells returns every index cell intersecting the bounding box of the
// circle (center, radiusKm). ok is false when the circle is too large, crosses
// a pole, or crosses the antimeridian, in which case callers must scan everything.
func CoveringCells(center models.Location, radiusKm float64) (cells []string, ok bool) {
	radiusKm *= coverPad
	dLat := radiusKm / kmPerDegreeLat
	minLat, maxLat := center.Latitude-dLat, center.Latitude+dLat
	if minLat < -90 || maxLat > 90 {
		return nil, false
	}

	cosLat := math.Min(math.Cos(degreesToRadians(minLat)), math.Cos(degreesToRadians(maxLat)))
	if cosLat <= 0 {
		return nil, false
	}
	dLon := radiusKm / (kmPerDegreeLat * cosLat)
	minLon, maxLon := center.Longitude-dLon, center.Longitude+dLon
	if minLon < -180 || maxLon > 180 {
		return nil, false
	}

	box := geohash.BoundingBox(Cell(center.Latitude, center.Longitude))
	cellH := box.MaxLat - box.MinLat
	cellW := box.MaxLng - box.MinLng

	rows := int(math.Ceil((maxLat-minLat)/cellH)) + 1
	cols := int(math.Ceil((maxLon-minLon)/cellW)) + 1
	if rows*cols > maxCoveringCells {
		return nil, false
	}

	seen := make(map[string]struct{}, rows*cols)
	for _, lat := range samples(minLat, maxLat, cellH) {
		for _, lon := range samples(minLon, maxLon, cellW) {
			c := Cell(lat, lon)
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			cells = append(cells, c)
		}
	}
	return cells, true
}

// samples returns from, from+step, ... up to and including to, so that every
// step-wide interval intersecting [from, to] contains one sample
func samples(from, to, step float64) []float64 {
	var out []float64
	for v := from; v < to; v += step {
		out = append(out, v)
	}
	return append(out, to)
}
