package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"ski-graph/graph"
)

func main() {
	datasetPath := flag.String("dataset", "data/curated.yaml", "curated dataset file")
	outDir := flag.String("out", "data", "output directory for graph.json and stations.json")
	flag.Parse()

	ds, err := graph.LoadDataset(*datasetPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	g, stations, err := ds.Build()
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Generated graph from %q: %d nodes, %d edges (%d slopes, %d lifts), %d stations",
		ds.Source, len(g.Nodes), len(g.Edges), g.Metadata.SlopeCount, g.Metadata.LiftCount, len(stations))

	graphFile := filepath.Join(*outDir, "graph.json")
	if err := g.Save(graphFile); err != nil {
		log.Fatal(err)
	}
	stationsFile := filepath.Join(*outDir, "stations.json")
	if err := graph.SaveStations(stations, stationsFile); err != nil {
		log.Fatal(err)
	}
	log.Printf("Saved %s and %s", graphFile, stationsFile)
}
