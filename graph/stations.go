package graph

import (
	"log"
	"math"

	"ski-graph/geom"
)

// DefaultStationMatchMaxM is the farthest a station may sit from its
// nearest node and still be assigned to it.
const DefaultStationMatchMaxM = 500.0

// StationSite is a curated real-world station location, prior to
// assignment.
type StationSite struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
	Ele  int     `yaml:"ele"`
}

// AssignStations maps each station onto its nearest node, accepting the
// match only within maxMeters. Runs in two phases: all matches are
// computed against the immutable node set first, then station names are
// written onto the matched nodes. Nodes are scanned in creation order
// and a closer node must be strictly closer to win, so equal-distance
// ties resolve to the earliest node deterministically.
func AssignStations(sites []StationSite, nodes map[string]*Node, order []string, maxMeters float64) []Station {
	type match struct {
		site   StationSite
		nodeID string
		dist   float64
	}

	var matches []match
	for _, site := range sites {
		bestID := ""
		bestDist := math.Inf(1)
		for _, id := range order {
			node := nodes[id]
			dist := geom.GreatCircleDistance(site.Lat, site.Lon, node.Lat, node.Lon)
			if dist < bestDist {
				bestDist = dist
				bestID = id
			}
		}

		if bestID != "" && bestDist < maxMeters {
			matches = append(matches, match{site: site, nodeID: bestID, dist: bestDist})
			log.Printf("Station %q -> node %s (%.0fm away)", site.Name, bestID, bestDist)
		} else {
			log.Printf("WARNING: station %q not matched (nearest: %.0fm)", site.Name, bestDist)
		}
	}

	assigned := make([]Station, 0, len(matches))
	for _, m := range matches {
		name := m.site.Name
		node := nodes[m.nodeID]
		node.Station = &name
		assigned = append(assigned, Station{
			Name:            name,
			NodeID:          m.nodeID,
			Lat:             node.Lat,
			Lon:             node.Lon,
			Ele:             node.Ele,
			DistanceFromRef: int(math.Round(m.dist)),
		})
	}
	return assigned
}
