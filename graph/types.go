// Package graph builds and validates the resort routing graph: it
// normalizes raw trail and lift features into directed segments,
// clusters their endpoints into nodes, maps stations onto nodes,
// synthesizes directed edges, and prunes the result to a single
// connected component.
package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Category distinguishes the two traversable edge kinds.
type Category string

const (
	CategorySlope Category = "slope"
	CategoryLift  Category = "lift"
)

// Coordinate is a geographic point with a resolved elevation.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Ele float64 `json:"ele"`
}

// Segment is a directionally normalized trail or lift. Slope geometry
// runs top to bottom, lift geometry bottom to top.
type Segment struct {
	ID            string
	OSMID         int64
	Name          string
	Category      Category
	Difficulty    string // slopes: green|blue|red|black
	LiftType      string // lifts: cable_car|gondola|chair_lift|drag_lift|magic_carpet
	Bidirectional bool   // connection pistes are traversable both ways
	Top           Coordinate
	Bottom        Coordinate
	Distance       int // meters along the polyline, rounded
	ElevationDelta int // top.Ele - bottom.Ele, rounded, never negative
	Geometry       orb.LineString
}

// Node is a clustered endpoint identity. Station is nil until a
// station is assigned to it.
type Node struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Ele     int     `json:"ele"`
	Station *string `json:"station"`
}

// Polyline is an edge geometry that marshals as [[lat, lon], ...],
// while keeping orb's [lon, lat] point convention in memory.
type Polyline orb.LineString

func (p Polyline) MarshalJSON() ([]byte, error) {
	pairs := make([][2]float64, len(p))
	for i, pt := range p {
		pairs[i] = [2]float64{pt[1], pt[0]}
	}
	return json.Marshal(pairs)
}

func (p *Polyline) UnmarshalJSON(data []byte) error {
	var pairs [][]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	line := make(Polyline, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair) >= 2 {
			line = append(line, orb.Point{pair[1], pair[0]})
		}
	}
	*p = line
	return nil
}

// Edge is a directed traversable segment between two nodes.
type Edge struct {
	ID             string   `json:"id"`
	Source         string   `json:"source"`
	Target         string   `json:"target"`
	Name           string   `json:"name"`
	Type           Category `json:"type"`
	Difficulty     string   `json:"difficulty,omitempty"`
	LiftType       string   `json:"liftType,omitempty"`
	Distance       int      `json:"distance"`
	ElevationDelta int      `json:"elevationDelta"`
	Geometry       Polyline `json:"geometry"`
}

// BoundingBox is the geographic extent of the graph.
type BoundingBox struct {
	South float64 `json:"south" yaml:"south"`
	North float64 `json:"north" yaml:"north"`
	West  float64 `json:"west" yaml:"west"`
	East  float64 `json:"east" yaml:"east"`
}

// Metadata summarizes a graph snapshot.
type Metadata struct {
	Generated   string      `json:"generated"`
	BuildID     string      `json:"buildId,omitempty"`
	Source      string      `json:"source,omitempty"`
	SlopeCount  int         `json:"slopeCount"`
	LiftCount   int         `json:"liftCount"`
	NodeCount   int         `json:"nodeCount"`
	EdgeCount   int         `json:"edgeCount"`
	BoundingBox BoundingBox `json:"boundingBox"`
}

// NewMetadata stamps a snapshot with today's date and a fresh build id.
func NewMetadata(source string, slopes, lifts, nodes, edges int, bbox BoundingBox) Metadata {
	return Metadata{
		Generated:   time.Now().Format("2006-01-02"),
		BuildID:     uuid.NewString(),
		Source:      source,
		SlopeCount:  slopes,
		LiftCount:   lifts,
		NodeCount:   nodes,
		EdgeCount:   edges,
		BoundingBox: bbox,
	}
}

// Graph is the final routing graph snapshot.
type Graph struct {
	Nodes    map[string]*Node `json:"nodes"`
	Edges    []Edge           `json:"edges"`
	Metadata Metadata         `json:"metadata"`
}

// Station is a named real-world location mapped onto a graph node.
type Station struct {
	Name            string  `json:"name"`
	NodeID          string  `json:"nodeId"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	Ele             int     `json:"ele"`
	DistanceFromRef int     `json:"distance_from_ref,omitempty"`
}

// SortedNodeIDs returns the node ids in their canonical order:
// clustering ids ("n0", "n1", ...) numerically, anything else
// lexicographically. This is the iteration order every stage with
// order-sensitive tie-breaking uses when working from a persisted
// graph.
func SortedNodeIDs(nodes map[string]*Node) []string {
	ids := make([]string, 0, len(nodes))
	allNumeric := true
	for id := range nodes {
		ids = append(ids, id)
		if !strings.HasPrefix(id, "n") {
			allNumeric = false
			continue
		}
		if _, err := strconv.Atoi(id[1:]); err != nil {
			allNumeric = false
		}
	}
	if allNumeric {
		sort.Slice(ids, func(i, j int) bool {
			a, _ := strconv.Atoi(ids[i][1:])
			b, _ := strconv.Atoi(ids[j][1:])
			return a < b
		})
	} else {
		sort.Strings(ids)
	}
	return ids
}

// Save writes the graph snapshot to a JSON file.
func (g *Graph) Save(path string) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadGraph reads a graph snapshot from a JSON file.
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse graph %s: %w", path, err)
	}
	return &g, nil
}

// SaveStations writes the assigned station list to a JSON file.
func SaveStations(stations []Station, path string) error {
	data, err := json.MarshalIndent(stations, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadStations reads an assigned station list from a JSON file.
func LoadStations(path string) ([]Station, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stations: %w", err)
	}
	var stations []Station
	if err := json.Unmarshal(data, &stations); err != nil {
		return nil, fmt.Errorf("parse stations %s: %w", path, err)
	}
	return stations, nil
}
