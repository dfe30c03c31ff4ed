package geom

import (
	"math"

	"github.com/tidwall/geoindex"
	"github.com/tidwall/rtree"
)

// PointIndex is a spatial index over value-tagged points, used to find
// the nearest known elevation sample for a coordinate.
type PointIndex struct {
	index *geoindex.Index
}

// NewPointIndex creates an empty PointIndex
func NewPointIndex() *PointIndex {
	return &PointIndex{index: geoindex.Wrap(&rtree.RTree{})}
}

// Insert adds a point with an associated value to the index
func (p *PointIndex) Insert(lat, lon, value float64) {
	pt := [2]float64{lon, lat}
	p.index.Insert(pt, pt, value)
}

// Nearest returns the value of the indexed point closest to (lat, lon),
// as long as that point lies within maxMeters. The search window is the
// meter radius converted to degrees at the query latitude.
func (p *PointIndex) Nearest(lat, lon, maxMeters float64) (float64, bool) {
	latRad := lat * math.Pi / 180.0
	metersPerDegreeLat := EarthRadiusMeters * math.Pi / 180.0
	metersPerDegreeLon := metersPerDegreeLat * math.Cos(latRad)

	deltaLat := maxMeters / metersPerDegreeLat
	deltaLon := maxMeters / metersPerDegreeLon

	bestDist := -1.0
	bestValue := 0.0
	p.index.Search(
		[2]float64{lon - deltaLon, lat - deltaLat},
		[2]float64{lon + deltaLon, lat + deltaLat},
		func(min, max [2]float64, data interface{}) bool {
			d := GreatCircleDistance(lat, lon, min[1], min[0])
			if d <= maxMeters && (bestDist < 0 || d < bestDist) {
				bestDist = d
				bestValue = data.(float64)
			}
			return true
		},
	)
	return bestValue, bestDist >= 0
}

// Size returns the number of points in the index
func (p *PointIndex) Size() int {
	return p.index.Len()
}
