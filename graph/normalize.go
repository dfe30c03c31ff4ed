package graph

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"ski-graph/elevation"
	"ski-graph/geom"
	"ski-graph/osm"
)

// difficultyMap translates the OSM piste:difficulty vocabulary onto the
// four French colors. Unrecognized or missing values fall back to blue.
var difficultyMap = map[string]string{
	"novice":       "green",
	"easy":         "blue",
	"intermediate": "red",
	"advanced":     "black",
	"expert":       "black",
	"freeride":     "black",
}

const defaultDifficulty = "blue"

// liftTypeMap translates the OSM aerialway vocabulary onto lift
// categories. Unrecognized transport aerialways become chair_lift.
var liftTypeMap = map[string]string{
	"cable_car":    "cable_car",
	"gondola":      "gondola",
	"mixed_lift":   "gondola",
	"funicular":    "gondola",
	"chair_lift":   "chair_lift",
	"drag_lift":    "drag_lift",
	"t-bar":        "drag_lift",
	"j-bar":        "drag_lift",
	"platter":      "drag_lift",
	"rope_tow":     "drag_lift",
	"magic_carpet": "magic_carpet",
}

const defaultLiftType = "chair_lift"

// supportAerialways are infrastructure, not transport; ways tagged with
// these (or with no aerialway tag at all) are not lifts.
var supportAerialways = map[string]struct{}{
	"pylon":    {},
	"station":  {},
	"goods":    {},
	"zip_line": {},
	"":         {},
}

// NormalizeStats counts features kept and the reason each dropped
// feature was excluded.
type NormalizeStats struct {
	Kept            int
	RelationMembers int // standalone ways already covered by a relation
	ShortGeometry   int // fewer than 2 points
	NoElevation     int // an endpoint with no elevation sample
	Support         int // non-transport aerialway structures
}

// NormalizePistes converts raw piste elements into normalized slope
// segments: geometry top to bottom, difficulty mapped onto colors,
// connection pistes forced blue and flagged bidirectional.
func NormalizePistes(resp *osm.Response, table elevation.Table) ([]Segment, NormalizeStats) {
	var (
		segments []Segment
		stats    NormalizeStats
	)
	relationWays := resp.RelationWayIDs()

	for i := range resp.Elements {
		el := &resp.Elements[i]

		// A way that is also a relation member would be counted twice.
		if el.Type == "way" {
			if _, ok := relationWays[el.ID]; ok {
				stats.RelationMembers++
				continue
			}
		}

		rawGeom := el.Geometry
		if el.Type == "relation" && len(rawGeom) == 0 {
			rawGeom = resp.RelationGeometry(el)
		}
		if len(rawGeom) < 2 {
			stats.ShortGeometry++
			continue
		}

		first, last := rawGeom[0], rawGeom[len(rawGeom)-1]
		eleFirst, errFirst := table.Lookup(first.Lat, first.Lon)
		eleLast, errLast := table.Lookup(last.Lat, last.Lon)
		if errors.Is(errFirst, elevation.ErrUnknown) || errors.Is(errLast, elevation.ErrUnknown) {
			stats.NoElevation++
			continue
		}

		distance := geom.PathLength(toLineString(rawGeom))

		// Slopes run downhill: the higher endpoint is the top.
		var top, bottom Coordinate
		ordered := rawGeom
		if eleFirst >= eleLast {
			top = Coordinate{Lat: first.Lat, Lon: first.Lon, Ele: eleFirst}
			bottom = Coordinate{Lat: last.Lat, Lon: last.Lon, Ele: eleLast}
		} else {
			top = Coordinate{Lat: last.Lat, Lon: last.Lon, Ele: eleLast}
			bottom = Coordinate{Lat: first.Lat, Lon: first.Lon, Ele: eleFirst}
			ordered = reverseLatLon(rawGeom)
		}

		pisteType := el.Tag("piste:type")
		if pisteType == "" {
			pisteType = "downhill"
		}
		isConnection := pisteType == "connection"

		difficulty, ok := difficultyMap[el.Tag("piste:difficulty")]
		if !ok || isConnection {
			difficulty = defaultDifficulty
		}

		segments = append(segments, Segment{
			ID:             fmt.Sprintf("piste_%d", el.ID),
			OSMID:          el.ID,
			Name:           el.Name(),
			Category:       CategorySlope,
			Difficulty:     difficulty,
			Bidirectional:  isConnection,
			Top:            top,
			Bottom:         bottom,
			Distance:       int(math.Round(distance)),
			ElevationDelta: int(math.Round(top.Ele - bottom.Ele)),
			Geometry:       toRoundedLineString(ordered),
		})
		stats.Kept++
	}
	return segments, stats
}

// NormalizeLifts converts raw aerialway elements into normalized lift
// segments: geometry bottom to top, mechanism mapped onto categories,
// support structures discarded.
func NormalizeLifts(resp *osm.Response, table elevation.Table) ([]Segment, NormalizeStats) {
	var (
		segments []Segment
		stats    NormalizeStats
	)

	for i := range resp.Elements {
		el := &resp.Elements[i]
		if el.Type != "way" {
			continue
		}

		aerialway := el.Tag("aerialway")
		if _, skip := supportAerialways[aerialway]; skip {
			stats.Support++
			continue
		}

		rawGeom := el.Geometry
		if len(rawGeom) < 2 {
			stats.ShortGeometry++
			continue
		}

		first, last := rawGeom[0], rawGeom[len(rawGeom)-1]
		eleFirst, errFirst := table.Lookup(first.Lat, first.Lon)
		eleLast, errLast := table.Lookup(last.Lat, last.Lon)
		if errors.Is(errFirst, elevation.ErrUnknown) || errors.Is(errLast, elevation.ErrUnknown) {
			stats.NoElevation++
			continue
		}

		distance := geom.PathLength(toLineString(rawGeom))

		// Lifts run uphill: the lower endpoint is the bottom.
		var top, bottom Coordinate
		ordered := rawGeom
		if eleFirst <= eleLast {
			bottom = Coordinate{Lat: first.Lat, Lon: first.Lon, Ele: eleFirst}
			top = Coordinate{Lat: last.Lat, Lon: last.Lon, Ele: eleLast}
		} else {
			bottom = Coordinate{Lat: last.Lat, Lon: last.Lon, Ele: eleLast}
			top = Coordinate{Lat: first.Lat, Lon: first.Lon, Ele: eleFirst}
			ordered = reverseLatLon(rawGeom)
		}

		liftType, ok := liftTypeMap[aerialway]
		if !ok {
			liftType = defaultLiftType
		}

		segments = append(segments, Segment{
			ID:             fmt.Sprintf("lift_%d", el.ID),
			OSMID:          el.ID,
			Name:           el.Name(),
			Category:       CategoryLift,
			LiftType:       liftType,
			Top:            top,
			Bottom:         bottom,
			Distance:       int(math.Round(distance)),
			ElevationDelta: int(math.Round(top.Ele - bottom.Ele)),
			Geometry:       toRoundedLineString(ordered),
		})
		stats.Kept++
	}
	return segments, stats
}

func toLineString(pts []osm.LatLon) orb.LineString {
	line := make(orb.LineString, len(pts))
	for i, p := range pts {
		line[i] = orb.Point{p.Lon, p.Lat}
	}
	return line
}

func toRoundedLineString(pts []osm.LatLon) orb.LineString {
	line := make(orb.LineString, len(pts))
	for i, p := range pts {
		line[i] = orb.Point{geom.RoundCoord(p.Lon), geom.RoundCoord(p.Lat)}
	}
	return line
}

func reverseLatLon(pts []osm.LatLon) []osm.LatLon {
	out := make([]osm.LatLon, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}
