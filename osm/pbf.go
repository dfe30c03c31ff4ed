package osm

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/qedus/osmpbf"
)

// LoadPBF decodes an OSM PBF extract and returns piste and lift batches
// equivalent to the Overpass responses: ways tagged piste:type land in
// the piste batch, ways tagged aerialway in the lift batch, each with
// its node refs joined into an inline geometry. Relations carry no
// inline geometry in PBF extracts and are ignored here.
func LoadPBF(filePath string) (pistes, lifts *Response, err error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	d := osmpbf.NewDecoder(f)

	// use more memory from the start, it is faster
	d.SetBufferSize(osmpbf.MaxBlobSize)

	// start decoding with several goroutines, it is faster
	if err := d.Start(runtime.GOMAXPROCS(-1)); err != nil {
		return nil, nil, err
	}

	nodes := make(map[int64]LatLon)
	var ways []*osmpbf.Way

	for {
		v, err := d.Decode()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, err
		}
		switch v := v.(type) {
		case *osmpbf.Node:
			nodes[v.ID] = LatLon{Lat: v.Lat, Lon: v.Lon}
		case *osmpbf.Way:
			if v.Tags["piste:type"] != "" || v.Tags["aerialway"] != "" {
				ways = append(ways, v)
			}
		case *osmpbf.Relation:
			// relations in PBF have no member geometry to reconstruct from
		default:
			return nil, nil, fmt.Errorf("unknown element type %T", v)
		}
	}

	pistes = &Response{}
	lifts = &Response{}
	for _, w := range ways {
		geom := make([]LatLon, 0, len(w.NodeIDs))
		for _, nid := range w.NodeIDs {
			if pt, ok := nodes[nid]; ok {
				geom = append(geom, pt)
			}
		}
		el := Element{
			Type:     "way",
			ID:       w.ID,
			Tags:     w.Tags,
			Geometry: geom,
		}
		if w.Tags["piste:type"] != "" {
			pistes.Elements = append(pistes.Elements, el)
		} else {
			lifts.Elements = append(lifts.Elements, el)
		}
	}
	return pistes, lifts, nil
}
