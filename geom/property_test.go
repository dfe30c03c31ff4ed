package geom

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDistanceProperties verifies the metric-like invariants the
// clustering and station-matching stages rely on.
func TestDistanceProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	latGen := gen.Float64Range(-85, 85)
	lonGen := gen.Float64Range(-180, 180)

	properties.Property("distance is symmetric", prop.ForAll(
		func(lat1, lon1, lat2, lon2 float64) bool {
			return GreatCircleDistance(lat1, lon1, lat2, lon2) ==
				GreatCircleDistance(lat2, lon2, lat1, lon1)
		},
		latGen, lonGen, latGen, lonGen,
	))

	properties.Property("distance to self is zero", prop.ForAll(
		func(lat, lon float64) bool {
			return GreatCircleDistance(lat, lon, lat, lon) == 0
		},
		latGen, lonGen,
	))

	properties.Property("distance is non-negative", prop.ForAll(
		func(lat1, lon1, lat2, lon2 float64) bool {
			return GreatCircleDistance(lat1, lon1, lat2, lon2) >= 0
		},
		latGen, lonGen, latGen, lonGen,
	))

	properties.Property("triangle inequality holds within float error", prop.ForAll(
		func(lat1, lon1, lat2, lon2, lat3, lon3 float64) bool {
			ab := GreatCircleDistance(lat1, lon1, lat2, lon2)
			bc := GreatCircleDistance(lat2, lon2, lat3, lon3)
			ac := GreatCircleDistance(lat1, lon1, lat3, lon3)
			return ac <= ab+bc+1e-6
		},
		latGen, lonGen, latGen, lonGen, latGen, lonGen,
	))

	properties.TestingRun(t)
}
