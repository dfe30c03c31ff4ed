package graph

import (
	"fmt"
	"math"
	"sort"

	"ski-graph/geom"
)

const (
	// DefaultClusterRadiusM merges segment endpoints this close into a
	// single node.
	DefaultClusterRadiusM = 75.0
	// DefaultLatBandDeg bounds the forward scan during clustering:
	// once two endpoints differ by more than this in latitude (~111m)
	// they cannot be within any reasonable radius, so the scan stops.
	DefaultLatBandDeg = 0.001
)

// ClusterResult is the node partition produced from segment endpoints.
type ClusterResult struct {
	// Nodes by id.
	Nodes map[string]*Node
	// Order holds node ids in creation order; stages with
	// order-sensitive tie-breaking iterate this, never the map.
	Order []string
	// CoordToNode maps each member endpoint's rounded "lat,lon" key to
	// its owning node id.
	CoordToNode map[string]string
}

type endpoint struct {
	lat, lon, ele float64
}

// ClusterEndpoints collapses all segment endpoints within radiusMeters
// of each other into canonical nodes.
//
// The clustering is greedy and single-seeded: endpoints are sorted by
// latitude, each unvisited endpoint opens a cluster, and subsequent
// endpoints within the latitude band join it when within radius of the
// cluster's seed (not its evolving centroid). A chain of endpoints each
// near its neighbor can therefore form one cluster wider than the
// radius; that behavior is intentional and relied on by downstream
// data.
func ClusterEndpoints(segments []Segment, radiusMeters, latBandDeg float64) *ClusterResult {
	endpoints := make([]endpoint, 0, 2*len(segments))
	for _, s := range segments {
		if s.Category == CategoryLift {
			endpoints = append(endpoints,
				endpoint{s.Bottom.Lat, s.Bottom.Lon, s.Bottom.Ele},
				endpoint{s.Top.Lat, s.Top.Lon, s.Top.Ele})
		} else {
			endpoints = append(endpoints,
				endpoint{s.Top.Lat, s.Top.Lon, s.Top.Ele},
				endpoint{s.Bottom.Lat, s.Bottom.Lon, s.Bottom.Ele})
		}
	}

	sort.SliceStable(endpoints, func(i, j int) bool {
		return endpoints[i].lat < endpoints[j].lat
	})

	clustered := make([]bool, len(endpoints))
	var clusters [][]int

	for i := range endpoints {
		if clustered[i] {
			continue
		}
		cluster := []int{i}
		clustered[i] = true

		for j := i + 1; j < len(endpoints); j++ {
			if clustered[j] {
				continue
			}
			if math.Abs(endpoints[j].lat-endpoints[i].lat) > latBandDeg {
				break
			}
			dist := geom.GreatCircleDistance(endpoints[i].lat, endpoints[i].lon,
				endpoints[j].lat, endpoints[j].lon)
			if dist <= radiusMeters {
				cluster = append(cluster, j)
				clustered[j] = true
			}
		}
		clusters = append(clusters, cluster)
	}

	result := &ClusterResult{
		Nodes:       make(map[string]*Node, len(clusters)),
		Order:       make([]string, 0, len(clusters)),
		CoordToNode: make(map[string]string),
	}
	for idx, cluster := range clusters {
		nodeID := fmt.Sprintf("n%d", idx)

		var sumLat, sumLon, sumEle float64
		for _, i := range cluster {
			sumLat += endpoints[i].lat
			sumLon += endpoints[i].lon
			sumEle += endpoints[i].ele
		}
		n := float64(len(cluster))
		result.Nodes[nodeID] = &Node{
			Lat: geom.RoundCoord(sumLat / n),
			Lon: geom.RoundCoord(sumLon / n),
			Ele: int(math.Round(sumEle / n)),
		}
		result.Order = append(result.Order, nodeID)

		for _, i := range cluster {
			result.CoordToNode[geom.CoordKey(endpoints[i].lat, endpoints[i].lon)] = nodeID
		}
	}
	return result
}
