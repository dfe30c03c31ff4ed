package main

import (
	"flag"
	"log"
	"os"

	"ski-graph/graph"
)

func main() {
	graphPath := flag.String("graph", "data/graph.json", "graph snapshot to validate")
	stationsPath := flag.String("stations", "data/stations.json", "assigned station list")
	maxDelta := flag.Int("max-ele-delta", graph.DefaultMaxElevationDeltaM, "largest plausible per-edge elevation change in meters")
	flag.Parse()

	g, err := graph.LoadGraph(*graphPath)
	if err != nil {
		log.Fatal(err)
	}
	stations, err := graph.LoadStations(*stationsPath)
	if err != nil {
		log.Fatal(err)
	}

	report := graph.Validate(g, stations, *maxDelta)
	report.Log()

	if !report.Passed() {
		os.Exit(1)
	}
}
