package osm

import (
	"encoding/json"
	"fmt"
	"os"
)

// LatLon is a raw coordinate as it appears in Overpass "out geom" output.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Member is a relation member. Overpass may embed the member way's
// geometry inline, or only carry a ref to a way elsewhere in the batch.
type Member struct {
	Type     string   `json:"type"`
	Ref      int64    `json:"ref"`
	Role     string   `json:"role,omitempty"`
	Geometry []LatLon `json:"geometry,omitempty"`
}

// Element is a single raw feature: a way or relation with its tags and
// ordered polyline geometry.
type Element struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Tags     map[string]string `json:"tags,omitempty"`
	Geometry []LatLon          `json:"geometry,omitempty"`
	Members  []Member          `json:"members,omitempty"`
}

// Tag returns the value for key, or "" when absent.
func (e *Element) Tag(key string) string {
	return e.Tags[key]
}

// Name returns the element's name tag, falling back to its ref tag.
func (e *Element) Name() string {
	if name := e.Tags["name"]; name != "" {
		return name
	}
	return e.Tags["ref"]
}

// Response is a raw-feature batch as returned by Overpass (and as
// written by the fetch stage).
type Response struct {
	Elements []Element `json:"elements"`
}

// LoadResponse reads a raw-feature batch from a JSON file.
func LoadResponse(path string) (*Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read raw data: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse raw data %s: %w", path, err)
	}
	return &resp, nil
}

// Save writes the batch to a JSON file.
func (r *Response) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RelationWayIDs collects the ids of all ways referenced as relation
// members anywhere in the batch. Standalone ways in this set are
// skipped during normalization so a relation and its component ways are
// not both counted.
func (r *Response) RelationWayIDs() map[int64]struct{} {
	ids := make(map[int64]struct{})
	for i := range r.Elements {
		el := &r.Elements[i]
		if el.Type != "relation" {
			continue
		}
		for _, m := range el.Members {
			if m.Type == "way" {
				ids[m.Ref] = struct{}{}
			}
		}
	}
	return ids
}

// RelationGeometry reconstructs a relation's polyline by concatenating
// its member-way geometries in member order. Members carrying inline
// geometry are used directly; otherwise the referenced way is looked up
// in the batch.
func (r *Response) RelationGeometry(rel *Element) []LatLon {
	wayByID := make(map[int64]*Element)
	for i := range r.Elements {
		if r.Elements[i].Type == "way" {
			wayByID[r.Elements[i].ID] = &r.Elements[i]
		}
	}

	var geom []LatLon
	for _, m := range rel.Members {
		if m.Type != "way" {
			continue
		}
		if len(m.Geometry) > 0 {
			geom = append(geom, m.Geometry...)
			continue
		}
		if way, ok := wayByID[m.Ref]; ok && len(way.Geometry) > 0 {
			geom = append(geom, way.Geometry...)
		}
	}
	return geom
}
