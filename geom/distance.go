package geom

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

const EarthRadiusMeters = 6371000.0

// CoordDecimals is the rounding precision used for coordinate identity
// (5 decimals is ~1.1m). Two points that round to the same key are
// treated as the same physical location.
const CoordDecimals = 5

// GreatCircleDistance calculates the distance between two points in meters using the Haversine formula
func GreatCircleDistance(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180.0 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	lat1Rad := toRad(lat1)
	lat2Rad := toRad(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// PathLength returns the total length in meters along an ordered polyline.
// Points follow the orb convention: [lon, lat]. Fewer than 2 points is 0.
func PathLength(line orb.LineString) float64 {
	total := 0.0
	for i := 1; i < len(line); i++ {
		total += GreatCircleDistance(line[i-1][1], line[i-1][0], line[i][1], line[i][0])
	}
	return total
}

// RoundCoord rounds a coordinate to CoordDecimals decimal places.
func RoundCoord(v float64) float64 {
	const scale = 1e5
	return math.Round(v*scale) / scale
}

// CoordKey builds the canonical "lat,lon" lookup key for a coordinate,
// with both values rounded to CoordDecimals and formatted without
// trailing zeros. The elevation table and the endpoint-to-node index
// are both keyed this way.
func CoordKey(lat, lon float64) string {
	return strconv.FormatFloat(RoundCoord(lat), 'f', -1, 64) +
		"," +
		strconv.FormatFloat(RoundCoord(lon), 'f', -1, 64)
}
