// Package elevation maintains the coordinate-to-elevation lookup table
// consumed by feature normalization, and the enrichment step that fills
// it from OSM tags and remote elevation services.
package elevation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"ski-graph/geom"
)

// ErrUnknown is returned when a coordinate has no elevation sample.
// Normalization treats it as "drop this feature", never as a default.
var ErrUnknown = errors.New("elevation unknown")

// Table maps the canonical "lat,lon" coordinate key (5-decimal
// rounding) to an elevation in meters.
type Table map[string]float64

// Lookup resolves the elevation at a coordinate, or ErrUnknown.
func (t Table) Lookup(lat, lon float64) (float64, error) {
	if ele, ok := t[geom.CoordKey(lat, lon)]; ok {
		return ele, nil
	}
	return 0, ErrUnknown
}

// Set records an elevation sample for a coordinate.
func (t Table) Set(lat, lon, ele float64) {
	t[geom.CoordKey(lat, lon)] = ele
}

// Range returns the minimum and maximum elevation in the table.
func (t Table) Range() (min, max float64, ok bool) {
	for _, ele := range t {
		if !ok {
			min, max, ok = ele, ele, true
			continue
		}
		if ele < min {
			min = ele
		}
		if ele > max {
			max = ele
		}
	}
	return min, max, ok
}

// LoadTable reads an elevation table from a JSON file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read elevation table: %w", err)
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse elevation table %s: %w", path, err)
	}
	return t, nil
}

// Save writes the table to a JSON file.
func (t Table) Save(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// parseKey splits a "lat,lon" table key back into coordinates.
func parseKey(key string) (lat, lon float64, err error) {
	parts := strings.SplitN(key, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed coordinate key %q", key)
	}
	lat, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, err
	}
	lon, err = strconv.ParseFloat(parts[1], 64)
	return lat, lon, err
}
