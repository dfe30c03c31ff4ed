package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"ski-graph/config"
	"ski-graph/osm"
)

func main() {
	configPath := flag.String("config", "data/config.yaml", "pipeline config file")
	outDir := flag.String("out", ".tmp", "output directory for raw data")
	pbfFile := flag.String("pbf", "", "read features from a local .osm.pbf extract instead of Overpass")
	overpassURL := flag.String("overpass", osm.DefaultOverpassURL, "Overpass API endpoint")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	var pistes, lifts *osm.Response
	if *pbfFile != "" {
		log.Printf("Loading features from %s", *pbfFile)
		var err error
		pistes, lifts, err = osm.LoadPBF(*pbfFile)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		bbox := cfg.OverpassBBox()
		log.Printf("Fetching %s data from Overpass, bbox %s", cfg.Area, bbox)

		client := osm.NewClient(*overpassURL)
		pistes, err = client.FetchPistes(bbox)
		if err != nil {
			log.Fatal(err)
		}
		lifts, err = client.FetchLifts(bbox)
		if err != nil {
			log.Fatal(err)
		}
	}

	pisteFile := filepath.Join(*outDir, "raw_pistes.json")
	if err := pistes.Save(pisteFile); err != nil {
		log.Fatal(err)
	}
	liftFile := filepath.Join(*outDir, "raw_lifts.json")
	if err := lifts.Save(liftFile); err != nil {
		log.Fatal(err)
	}

	downhill, connection := 0, 0
	for i := range pistes.Elements {
		switch pistes.Elements[i].Tag("piste:type") {
		case "connection":
			connection++
		default:
			downhill++
		}
	}
	liftTypes := make(map[string]int)
	for i := range lifts.Elements {
		liftTypes[lifts.Elements[i].Tag("aerialway")]++
	}

	log.Printf("Saved %s: %d pistes (%d downhill, %d connection)", pisteFile, len(pistes.Elements), downhill, connection)
	log.Printf("Saved %s: %d lifts, types %v", liftFile, len(lifts.Elements), liftTypes)
}
