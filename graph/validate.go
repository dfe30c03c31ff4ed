package graph

import (
	"fmt"
	"log"
	"math"
	"sort"
)

// DefaultMaxElevationDeltaM is the largest plausible elevation change
// on a single edge; anything above it is flagged as a data error.
const DefaultMaxElevationDeltaM = 2000

// Report is the outcome of a validation pass over a finished graph.
// Everything in it is advisory; validation never mutates the graph.
type Report struct {
	NodeCount int
	EdgeCount int

	Isolated []string // degree 0
	Sinks    []string // incoming only (dead ends)
	Sources  []string // outgoing only

	EdgeIssues []string

	DifficultyCounts map[string]int
	LiftTypeCounts   map[string]int

	NamedSlopes   int
	UnnamedSlopes int
	NamedLifts    int
	UnnamedLifts  int

	MinEle int
	MaxEle int

	Unreachable []Reachability
	PairsTotal  int
}

// Validate runs the structural and quality checks over a graph and its
// assigned stations.
func Validate(g *Graph, stations []Station, maxElevationDeltaM int) *Report {
	r := &Report{
		NodeCount:        len(g.Nodes),
		EdgeCount:        len(g.Edges),
		DifficultyCounts: make(map[string]int),
		LiftTypeCounts:   make(map[string]int),
		MinEle:           math.MaxInt,
		MaxEle:           math.MinInt,
	}

	inDeg := make(map[string]int)
	outDeg := make(map[string]int)
	for _, e := range g.Edges {
		outDeg[e.Source]++
		inDeg[e.Target]++
	}

	for _, id := range SortedNodeIDs(g.Nodes) {
		in, out := inDeg[id], outDeg[id]
		switch {
		case in == 0 && out == 0:
			r.Isolated = append(r.Isolated, id)
		case out == 0 && in > 0:
			r.Sinks = append(r.Sinks, id)
		case in == 0 && out > 0:
			r.Sources = append(r.Sources, id)
		}
		ele := g.Nodes[id].Ele
		if ele < r.MinEle {
			r.MinEle = ele
		}
		if ele > r.MaxEle {
			r.MaxEle = ele
		}
	}

	for _, e := range g.Edges {
		if e.Distance <= 0 {
			r.EdgeIssues = append(r.EdgeIssues,
				fmt.Sprintf("edge %s: zero or negative distance (%dm)", e.ID, e.Distance))
		}
		if e.Type == CategorySlope && e.ElevationDelta > 0 {
			r.EdgeIssues = append(r.EdgeIssues,
				fmt.Sprintf("slope %s (%s): goes uphill (%+dm)", e.ID, e.Name, e.ElevationDelta))
		}
		if e.Type == CategoryLift && e.ElevationDelta < 0 {
			r.EdgeIssues = append(r.EdgeIssues,
				fmt.Sprintf("lift %s (%s): goes downhill (%+dm)", e.ID, e.Name, e.ElevationDelta))
		}
		if abs(e.ElevationDelta) > maxElevationDeltaM {
			r.EdgeIssues = append(r.EdgeIssues,
				fmt.Sprintf("edge %s: extreme elevation delta (%+dm)", e.ID, e.ElevationDelta))
		}

		switch e.Type {
		case CategorySlope:
			r.DifficultyCounts[e.Difficulty]++
			if e.Name != "" {
				r.NamedSlopes++
			} else {
				r.UnnamedSlopes++
			}
		case CategoryLift:
			r.LiftTypeCounts[e.LiftType]++
			if e.Name != "" {
				r.NamedLifts++
			} else {
				r.UnnamedLifts++
			}
		}
	}

	reachability := CheckStationReachability(stations, g.Edges)
	r.PairsTotal = len(reachability)
	for _, res := range reachability {
		if !res.Reachable {
			r.Unreachable = append(r.Unreachable, res)
		}
	}

	return r
}

// Passed reports whether the graph is free of warnings.
func (r *Report) Passed() bool {
	return len(r.Isolated) == 0 && len(r.EdgeIssues) == 0 && len(r.Unreachable) == 0
}

// Log prints the report in the pipeline's diagnostic format.
func (r *Report) Log() {
	log.Printf("Graph: %d nodes, %d edges", r.NodeCount, r.EdgeCount)
	if r.NodeCount > 0 {
		log.Printf("Elevation range: %dm - %dm", r.MinEle, r.MaxEle)
	}

	log.Printf("Isolated nodes: %d, sinks: %d, sources: %d",
		len(r.Isolated), len(r.Sinks), len(r.Sources))
	for i, id := range r.Sinks {
		if i >= 5 {
			break
		}
		log.Printf("  sink: %s", id)
	}
	for i, id := range r.Sources {
		if i >= 5 {
			break
		}
		log.Printf("  source: %s", id)
	}

	if len(r.EdgeIssues) > 0 {
		log.Printf("Edge quality: %d issues", len(r.EdgeIssues))
		for i, issue := range r.EdgeIssues {
			if i >= 10 {
				log.Printf("  ... and %d more", len(r.EdgeIssues)-10)
				break
			}
			log.Printf("  %s", issue)
		}
	} else {
		log.Printf("Edge quality: no issues")
	}

	for _, color := range []string{"green", "blue", "red", "black"} {
		log.Printf("  %s: %d", color, r.DifficultyCounts[color])
	}
	liftTypes := make([]string, 0, len(r.LiftTypeCounts))
	for lt := range r.LiftTypeCounts {
		liftTypes = append(liftTypes, lt)
	}
	sort.Strings(liftTypes)
	for _, lt := range liftTypes {
		log.Printf("  %s: %d", lt, r.LiftTypeCounts[lt])
	}
	log.Printf("Named slopes: %d, unnamed: %d", r.NamedSlopes, r.UnnamedSlopes)
	log.Printf("Named lifts: %d, unnamed: %d", r.NamedLifts, r.UnnamedLifts)

	if len(r.Unreachable) > 0 {
		log.Printf("UNREACHABLE station pairs: %d/%d", len(r.Unreachable), r.PairsTotal)
		for i, u := range r.Unreachable {
			if i >= 10 {
				log.Printf("  ... and %d more", len(r.Unreachable)-10)
				break
			}
			log.Printf("  %s -> %s", u.From, u.To)
		}
	} else {
		log.Printf("All %d station pairs are reachable", r.PairsTotal)
	}

	if r.Passed() {
		log.Printf("VALIDATION: PASSED")
	} else {
		log.Printf("VALIDATION: WARNINGS FOUND")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
