package graph

import (
	"ski-graph/geom"

	"github.com/paulmach/orb"
)

// EdgeStats counts emitted edges and dropped segments.
type EdgeStats struct {
	SlopeEdges int
	LiftEdges  int
	Unmapped   int // an endpoint no cluster claimed
	SelfLoops  int // both endpoints collapsed into one node
}

// BuildEdges synthesizes directed edges from normalized segments.
// Slopes point top to bottom with a negative elevation delta;
// connection pistes additionally get a reverse edge. Lifts point
// bottom to top with a positive delta and are never bidirectional.
// Segments whose endpoints are unmapped or collapse onto one node are
// dropped.
func BuildEdges(slopes, lifts []Segment, coordToNode map[string]string) ([]Edge, EdgeStats) {
	var (
		edges []Edge
		stats EdgeStats
	)

	for _, s := range slopes {
		source, target, ok := endpointNodes(s.Top, s.Bottom, coordToNode, &stats)
		if !ok {
			continue
		}

		edges = append(edges, Edge{
			ID:             s.ID,
			Source:         source,
			Target:         target,
			Name:           s.Name,
			Type:           CategorySlope,
			Difficulty:     s.Difficulty,
			Distance:       s.Distance,
			ElevationDelta: -s.ElevationDelta,
			Geometry:       Polyline(s.Geometry),
		})
		stats.SlopeEdges++

		if s.Bidirectional {
			edges = append(edges, Edge{
				ID:             s.ID + "_rev",
				Source:         target,
				Target:         source,
				Name:           s.Name,
				Type:           CategorySlope,
				Difficulty:     s.Difficulty,
				Distance:       s.Distance,
				ElevationDelta: s.ElevationDelta,
				Geometry:       Polyline(reverseLine(s.Geometry)),
			})
			stats.SlopeEdges++
		}
	}

	for _, l := range lifts {
		source, target, ok := endpointNodes(l.Bottom, l.Top, coordToNode, &stats)
		if !ok {
			continue
		}

		edges = append(edges, Edge{
			ID:             l.ID,
			Source:         source,
			Target:         target,
			Name:           l.Name,
			Type:           CategoryLift,
			LiftType:       l.LiftType,
			Distance:       l.Distance,
			ElevationDelta: l.ElevationDelta,
			Geometry:       Polyline(l.Geometry),
		})
		stats.LiftEdges++
	}

	return edges, stats
}

func endpointNodes(from, to Coordinate, coordToNode map[string]string, stats *EdgeStats) (string, string, bool) {
	source, okSource := coordToNode[geom.CoordKey(from.Lat, from.Lon)]
	target, okTarget := coordToNode[geom.CoordKey(to.Lat, to.Lon)]
	if !okSource || !okTarget {
		stats.Unmapped++
		return "", "", false
	}
	if source == target {
		stats.SelfLoops++
		return "", "", false
	}
	return source, target, true
}

func reverseLine(line orb.LineString) orb.LineString {
	out := make(orb.LineString, len(line))
	for i, pt := range line {
		out[len(line)-1-i] = pt
	}
	return out
}
