package main

import (
	"flag"
	"log"
	"path/filepath"

	"ski-graph/elevation"
	"ski-graph/osm"
)

func main() {
	tmpDir := flag.String("tmp", ".tmp", "directory holding raw data, receives elevations.json")
	primaryURL := flag.String("primary", elevation.DefaultPrimaryURL, "primary elevation API")
	fallbackURL := flag.String("fallback", elevation.DefaultFallbackURL, "fallback elevation API")
	flag.Parse()

	pistes, err := osm.LoadResponse(filepath.Join(*tmpDir, "raw_pistes.json"))
	if err != nil {
		log.Fatal(err)
	}
	lifts, err := osm.LoadResponse(filepath.Join(*tmpDir, "raw_lifts.json"))
	if err != nil {
		log.Fatal(err)
	}

	fetcher := elevation.NewFetcher()
	fetcher.PrimaryURL = *primaryURL
	fetcher.FallbackURL = *fallbackURL

	table, stats := elevation.Enrich(pistes, lifts, fetcher)

	outFile := filepath.Join(*tmpDir, "elevations.json")
	if err := table.Save(outFile); err != nil {
		log.Fatal(err)
	}

	log.Printf("Saved %s: %d points (%d from OSM tags, %d from API, %d estimated, %d defaulted)",
		outFile, len(table), stats.FromTags, stats.FromAPI, stats.Estimated, stats.Defaulted)
	if min, max, ok := table.Range(); ok {
		log.Printf("Elevation range: %.0fm - %.0fm", min, max)
	}
}
