package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"ski-graph/config"
	"ski-graph/elevation"
	"ski-graph/graph"
	"ski-graph/osm"
)

func main() {
	configPath := flag.String("config", "data/config.yaml", "pipeline config file")
	tmpDir := flag.String("tmp", ".tmp", "directory holding raw data and elevations")
	outDir := flag.String("out", "data", "output directory for graph.json and stations.json")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	rawPistes, err := osm.LoadResponse(filepath.Join(*tmpDir, "raw_pistes.json"))
	if err != nil {
		log.Fatal(err)
	}
	rawLifts, err := osm.LoadResponse(filepath.Join(*tmpDir, "raw_lifts.json"))
	if err != nil {
		log.Fatal(err)
	}
	table, err := elevation.LoadTable(filepath.Join(*tmpDir, "elevations.json"))
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Loaded %d piste elements, %d lift elements, %d elevation points",
		len(rawPistes.Elements), len(rawLifts.Elements), len(table))

	slopes, slopeStats := graph.NormalizePistes(rawPistes, table)
	log.Printf("Parsed %d pistes (dropped: %d relation members, %d short, %d without elevation)",
		slopeStats.Kept, slopeStats.RelationMembers, slopeStats.ShortGeometry, slopeStats.NoElevation)

	lifts, liftStats := graph.NormalizeLifts(rawLifts, table)
	log.Printf("Parsed %d lifts (dropped: %d support structures, %d short, %d without elevation)",
		liftStats.Kept, liftStats.Support, liftStats.ShortGeometry, liftStats.NoElevation)

	log.Printf("Clustering endpoints (radius=%.0fm)", cfg.ClusterRadiusM)
	clusters := graph.ClusterEndpoints(append(slopes, lifts...), cfg.ClusterRadiusM, cfg.LatBandDeg)
	log.Printf("Created %d nodes from clustering", len(clusters.Order))

	stations := graph.AssignStations(cfg.Stations, clusters.Nodes, clusters.Order, cfg.StationMatchMaxM)
	log.Printf("Assigned %d/%d stations", len(stations), len(cfg.Stations))

	edges, edgeStats := graph.BuildEdges(slopes, lifts, clusters.CoordToNode)
	log.Printf("Created %d edges (%d slopes, %d lifts; dropped %d unmapped, %d self-loops)",
		len(edges), edgeStats.SlopeEdges, edgeStats.LiftEdges, edgeStats.Unmapped, edgeStats.SelfLoops)

	components := graph.Components(clusters.Order, edges)
	log.Printf("Connected components: %d", len(components))
	for i, comp := range components {
		var names []string
		for _, id := range comp {
			if s := clusters.Nodes[id].Station; s != nil {
				names = append(names, *s)
			}
		}
		log.Printf("  component %d: %d nodes, stations: %v", i+1, len(comp), names)
	}

	order, edges, _ := graph.PruneToLargest(clusters.Nodes, clusters.Order, edges, components)

	slopeEdges, liftEdges := 0, 0
	for _, e := range edges {
		if e.Type == graph.CategorySlope {
			slopeEdges++
		} else {
			liftEdges++
		}
	}

	// Stations may have been pruned away with their component.
	surviving := stations[:0]
	for _, s := range stations {
		if _, ok := clusters.Nodes[s.NodeID]; ok {
			surviving = append(surviving, s)
		}
	}
	stations = surviving

	for _, r := range graph.CheckStationReachability(stations, edges) {
		if !r.Reachable {
			log.Printf("WARNING: no directed route from %s to %s", r.From, r.To)
		}
	}

	g := &graph.Graph{
		Nodes: clusters.Nodes,
		Edges: edges,
		Metadata: graph.NewMetadata("osm", slopeEdges, liftEdges,
			len(order), len(edges), cfg.BoundingBox),
	}

	graphFile := filepath.Join(*outDir, "graph.json")
	if err := g.Save(graphFile); err != nil {
		log.Fatal(err)
	}
	stationsFile := filepath.Join(*outDir, "stations.json")
	if err := graph.SaveStations(stations, stationsFile); err != nil {
		log.Fatal(err)
	}

	log.Printf("Saved %s (%d nodes, %d edges) and %s (%d stations)",
		graphFile, len(g.Nodes), len(g.Edges), stationsFile, len(stations))
}
