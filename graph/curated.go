package graph

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"

	"ski-graph/geom"
)

// Switchback factors approximate real ski-path length from straight-line
// node distance: steep runs cut more directly, gentle runs wind more.
const (
	SwitchbackSteep  = 1.4 // red and black slopes
	SwitchbackGentle = 1.6 // green and blue slopes
)

// curatedGeometryPoints is the number of interpolated points generated
// for a curated edge's polyline.
const curatedGeometryPoints = 5

// DatasetNode is a curated physical location.
type DatasetNode struct {
	ID      string  `yaml:"id"`
	Lat     float64 `yaml:"lat"`
	Lon     float64 `yaml:"lon"`
	Ele     int     `yaml:"ele"`
	Station string  `yaml:"station,omitempty"`
}

// DatasetEdge is a curated lift or slope between two node ids.
type DatasetEdge struct {
	ID         string `yaml:"id"`
	Source     string `yaml:"source"`
	Target     string `yaml:"target"`
	Name       string `yaml:"name"`
	Difficulty string `yaml:"difficulty,omitempty"` // slopes
	LiftType   string `yaml:"liftType,omitempty"`   // lifts
}

// Dataset is a manually curated alternative to fetched OSM data: nodes
// and edges supplied directly as static tables. It satisfies the same
// output contract as the raw-feature pipeline.
type Dataset struct {
	Source      string        `yaml:"source"`
	BoundingBox BoundingBox   `yaml:"boundingBox"`
	Nodes       []DatasetNode `yaml:"nodes"`
	Lifts       []DatasetEdge `yaml:"lifts"`
	Slopes      []DatasetEdge `yaml:"slopes"`
}

// LoadDataset reads a curated dataset from a YAML file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return &ds, nil
}

// Build turns the curated tables into a graph and station list. Edge
// distances come straight from node coordinates; slope distances are
// inflated by the switchback factor for their difficulty.
func (d *Dataset) Build() (*Graph, []Station, error) {
	nodes := make(map[string]*Node, len(d.Nodes))
	for _, dn := range d.Nodes {
		n := &Node{Lat: dn.Lat, Lon: dn.Lon, Ele: dn.Ele}
		if dn.Station != "" {
			station := dn.Station
			n.Station = &station
		}
		nodes[dn.ID] = n
	}

	var edges []Edge
	for _, de := range d.Lifts {
		source, target, err := d.lookupPair(nodes, de)
		if err != nil {
			return nil, nil, err
		}
		edges = append(edges, Edge{
			ID:             de.ID,
			Source:         de.Source,
			Target:         de.Target,
			Name:           de.Name,
			Type:           CategoryLift,
			LiftType:       de.LiftType,
			Distance:       int(math.Round(geom.GreatCircleDistance(source.Lat, source.Lon, target.Lat, target.Lon))),
			ElevationDelta: target.Ele - source.Ele,
			Geometry:       interpolateGeometry(source, target),
		})
	}
	for _, de := range d.Slopes {
		source, target, err := d.lookupPair(nodes, de)
		if err != nil {
			return nil, nil, err
		}
		distance := geom.GreatCircleDistance(source.Lat, source.Lon, target.Lat, target.Lon)
		factor := SwitchbackGentle
		if de.Difficulty == "red" || de.Difficulty == "black" {
			factor = SwitchbackSteep
		}
		edges = append(edges, Edge{
			ID:             de.ID,
			Source:         de.Source,
			Target:         de.Target,
			Name:           de.Name,
			Type:           CategorySlope,
			Difficulty:     de.Difficulty,
			Distance:       int(math.Round(distance * factor)),
			ElevationDelta: target.Ele - source.Ele,
			Geometry:       interpolateGeometry(source, target),
		})
	}

	slopeCount := 0
	liftCount := 0
	for _, e := range edges {
		if e.Type == CategorySlope {
			slopeCount++
		} else {
			liftCount++
		}
	}

	g := &Graph{
		Nodes:    nodes,
		Edges:    edges,
		Metadata: NewMetadata(d.Source, slopeCount, liftCount, len(nodes), len(edges), d.BoundingBox),
	}

	var stations []Station
	for _, dn := range d.Nodes {
		if dn.Station == "" {
			continue
		}
		stations = append(stations, Station{
			Name:   dn.Station,
			NodeID: dn.ID,
			Lat:    dn.Lat,
			Lon:    dn.Lon,
			Ele:    dn.Ele,
		})
	}
	sort.Slice(stations, func(i, j int) bool { return stations[i].Name < stations[j].Name })

	return g, stations, nil
}

func (d *Dataset) lookupPair(nodes map[string]*Node, de DatasetEdge) (*Node, *Node, error) {
	source, ok := nodes[de.Source]
	if !ok {
		return nil, nil, fmt.Errorf("edge %s references unknown node %q", de.ID, de.Source)
	}
	target, ok := nodes[de.Target]
	if !ok {
		return nil, nil, fmt.Errorf("edge %s references unknown node %q", de.ID, de.Target)
	}
	return source, target, nil
}

func interpolateGeometry(source, target *Node) Polyline {
	line := make(Polyline, curatedGeometryPoints)
	for i := 0; i < curatedGeometryPoints; i++ {
		frac := float64(i) / float64(curatedGeometryPoints-1)
		lat := geom.RoundCoord(source.Lat + (target.Lat-source.Lat)*frac)
		lon := geom.RoundCoord(source.Lon + (target.Lon-source.Lon)*frac)
		line[i] = orb.Point{lon, lat}
	}
	return line
}
