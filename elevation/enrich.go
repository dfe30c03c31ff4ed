package elevation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ski-graph/geom"
	"ski-graph/osm"
)

const (
	DefaultPrimaryURL  = "https://api.opentopodata.org/v1/srtm30m"
	DefaultFallbackURL = "https://api.open-elevation.com/api/v1/lookup"

	// BatchSize is the maximum number of locations per API request.
	BatchSize = 100
	// DefaultRequestDelay paces batches for the 1 req/s rate limit.
	DefaultRequestDelay = 1100 * time.Millisecond

	// NearestFillMaxMeters bounds the nearest-known-point estimate for
	// coordinates neither API could resolve.
	NearestFillMaxMeters = 1000.0
	// DefaultEle is the last-resort mid-mountain elevation.
	DefaultEle = 2000.0
)

// Stats reports where each elevation sample came from.
type Stats struct {
	Endpoints int
	FromTags  int
	FromAPI   int
	Estimated int
	Defaulted int
}

// Fetcher retrieves elevation samples from a primary API with a
// fallback API per failed batch.
type Fetcher struct {
	PrimaryURL  string
	FallbackURL string
	Delay       time.Duration
	Client      *http.Client
}

// NewFetcher creates a Fetcher with the production endpoints and pacing.
func NewFetcher() *Fetcher {
	return &Fetcher{
		PrimaryURL:  DefaultPrimaryURL,
		FallbackURL: DefaultFallbackURL,
		Delay:       DefaultRequestDelay,
		Client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// ExtractEndpoints collects the unique first/last polyline coordinates
// from the raw batches, rounded to coordinate precision, in first-seen
// order.
func ExtractEndpoints(batches ...*osm.Response) []osm.LatLon {
	seen := make(map[string]struct{})
	var out []osm.LatLon
	add := func(p osm.LatLon) {
		key := geom.CoordKey(p.Lat, p.Lon)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, osm.LatLon{Lat: geom.RoundCoord(p.Lat), Lon: geom.RoundCoord(p.Lon)})
	}
	for _, batch := range batches {
		for i := range batch.Elements {
			g := batch.Elements[i].Geometry
			if len(g) == 0 {
				continue
			}
			add(g[0])
			add(g[len(g)-1])
		}
	}
	return out
}

// KnownFromTags harvests elevations already present as OSM ele tags,
// associating each tagged element's elevation with its first and last
// geometry points. Lift stations often carry these.
func KnownFromTags(batches ...*osm.Response) Table {
	known := make(Table)
	for _, batch := range batches {
		for i := range batch.Elements {
			el := &batch.Elements[i]
			raw := el.Tag("ele")
			if raw == "" || len(el.Geometry) == 0 {
				continue
			}
			ele, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			first := el.Geometry[0]
			last := el.Geometry[len(el.Geometry)-1]
			known.Set(first.Lat, first.Lon, ele)
			known.Set(last.Lat, last.Lon, ele)
		}
	}
	return known
}

// FetchAll resolves elevations for the given coordinates in batches,
// falling back to the secondary API per batch; a batch that fails on
// both is skipped and left unresolved.
func (f *Fetcher) FetchAll(coords []osm.LatLon) Table {
	fetched := make(Table)
	if len(coords) == 0 {
		return fetched
	}

	var batches [][]osm.LatLon
	for i := 0; i < len(coords); i += BatchSize {
		end := i + BatchSize
		if end > len(coords) {
			end = len(coords)
		}
		batches = append(batches, coords[i:end])
	}
	log.Printf("Fetching %d points in %d batches of up to %d", len(coords), len(batches), BatchSize)

	for i, batch := range batches {
		result, err := f.fetchPrimary(batch)
		if err != nil {
			log.Printf("Batch %d/%d: primary API failed: %v, trying fallback", i+1, len(batches), err)
			result, err = f.fetchFallback(batch)
			if err != nil {
				log.Printf("Batch %d/%d: fallback also failed: %v, skipping batch", i+1, len(batches), err)
				continue
			}
		}
		for k, v := range result {
			fetched[k] = v
		}
		if i < len(batches)-1 && f.Delay > 0 {
			time.Sleep(f.Delay)
		}
	}
	return fetched
}

func (f *Fetcher) fetchPrimary(coords []osm.LatLon) (Table, error) {
	locs := make([]string, len(coords))
	for i, c := range coords {
		locs[i] = fmt.Sprintf("%v,%v", c.Lat, c.Lon)
	}
	u := f.PrimaryURL + "?locations=" + url.QueryEscape(strings.Join(locs, "|"))

	body, err := f.get(u)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Results []struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			Elevation *float64 `json:"elevation"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	out := make(Table)
	for _, r := range parsed.Results {
		if r.Elevation != nil {
			out.Set(r.Location.Lat, r.Location.Lng, *r.Elevation)
		}
	}
	return out, nil
}

func (f *Fetcher) fetchFallback(coords []osm.LatLon) (Table, error) {
	type loc struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	payload := struct {
		Locations []loc `json:"locations"`
	}{}
	for _, c := range coords {
		payload.Locations = append(payload.Locations, loc{Latitude: c.Lat, Longitude: c.Lon})
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := f.Client.Post(f.FallbackURL, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fallback API returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Results []struct {
			Latitude  float64  `json:"latitude"`
			Longitude float64  `json:"longitude"`
			Elevation *float64 `json:"elevation"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	out := make(Table)
	for _, r := range parsed.Results {
		if r.Elevation != nil {
			out.Set(r.Latitude, r.Longitude, *r.Elevation)
		}
	}
	return out, nil
}

func (f *Fetcher) get(u string) ([]byte, error) {
	resp, err := f.Client.Get(u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("primary API returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Enrich builds the complete elevation table for all endpoints in the
// raw batches: OSM ele tags first, then the remote APIs for the rest,
// then nearest-known-point estimates within NearestFillMaxMeters, and
// DefaultEle as last resort. The result covers every endpoint.
func Enrich(pistes, lifts *osm.Response, f *Fetcher) (Table, Stats) {
	endpoints := ExtractEndpoints(pistes, lifts)
	known := KnownFromTags(pistes, lifts)

	var missing []osm.LatLon
	for _, p := range endpoints {
		if _, err := known.Lookup(p.Lat, p.Lon); err != nil {
			missing = append(missing, p)
		}
	}
	log.Printf("Endpoints: %d total, %d with OSM ele tags, %d need lookup",
		len(endpoints), len(endpoints)-len(missing), len(missing))

	fetched := f.FetchAll(missing)

	all := make(Table, len(known)+len(fetched))
	for k, v := range known {
		all[k] = v
	}
	for k, v := range fetched {
		all[k] = v
	}

	stats := Stats{
		Endpoints: len(endpoints),
		FromTags:  len(endpoints) - len(missing),
		FromAPI:   len(fetched),
	}

	// Estimate the stragglers from nearby known samples.
	index := geom.NewPointIndex()
	for key, ele := range all {
		lat, lon, err := parseKey(key)
		if err != nil {
			continue
		}
		index.Insert(lat, lon, ele)
	}
	for _, p := range endpoints {
		if _, err := all.Lookup(p.Lat, p.Lon); err == nil {
			continue
		}
		if ele, ok := index.Nearest(p.Lat, p.Lon, NearestFillMaxMeters); ok {
			all.Set(p.Lat, p.Lon, ele)
			stats.Estimated++
			continue
		}
		log.Printf("WARNING: no elevation found near (%v, %v), defaulting to %.0fm", p.Lat, p.Lon, DefaultEle)
		all.Set(p.Lat, p.Lon, DefaultEle)
		stats.Defaulted++
	}

	return all, stats
}
