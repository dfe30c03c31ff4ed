package elevation

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ski-graph/osm"
)

func way(id int64, tags map[string]string, pts ...osm.LatLon) osm.Element {
	return osm.Element{Type: "way", ID: id, Tags: tags, Geometry: pts}
}

func TestExtractEndpoints(t *testing.T) {
	pistes := &osm.Response{Elements: []osm.Element{
		way(1, nil, osm.LatLon{Lat: 45.51, Lon: 6.65}, osm.LatLon{Lat: 45.50, Lon: 6.66}, osm.LatLon{Lat: 45.49, Lon: 6.67}),
		way(2, nil), // no geometry
	}}
	lifts := &osm.Response{Elements: []osm.Element{
		// Shares its top with piste 1's first point.
		way(3, nil, osm.LatLon{Lat: 45.49, Lon: 6.67}, osm.LatLon{Lat: 45.51000004, Lon: 6.65}),
	}}

	endpoints := ExtractEndpoints(pistes, lifts)
	require.Len(t, endpoints, 2)
	// First-seen order; interior points and duplicates are dropped.
	assert.Equal(t, osm.LatLon{Lat: 45.51, Lon: 6.65}, endpoints[0])
	assert.Equal(t, osm.LatLon{Lat: 45.49, Lon: 6.67}, endpoints[1])
}

func TestKnownFromTags(t *testing.T) {
	resp := &osm.Response{Elements: []osm.Element{
		way(1, map[string]string{"ele": "2100"},
			osm.LatLon{Lat: 45.51, Lon: 6.65}, osm.LatLon{Lat: 45.50, Lon: 6.66}),
		way(2, map[string]string{"ele": "not-a-number"},
			osm.LatLon{Lat: 45.48, Lon: 6.70}, osm.LatLon{Lat: 45.47, Lon: 6.71}),
		way(3, map[string]string{"ele": "1900"}), // tag but no geometry
	}}

	known := KnownFromTags(resp)
	assert.Len(t, known, 2)

	ele, err := known.Lookup(45.51, 6.65)
	require.NoError(t, err)
	assert.Equal(t, 2100.0, ele)
	ele, err = known.Lookup(45.50, 6.66)
	require.NoError(t, err)
	assert.Equal(t, 2100.0, ele)
}

func TestFetchAllPrimary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("locations"), "45.51,6.65")
		w.Write([]byte(`{"results":[{"location":{"lat":45.51,"lng":6.65},"elevation":2100},
			{"location":{"lat":45.50,"lng":6.66},"elevation":null}]}`))
	}))
	defer server.Close()

	f := &Fetcher{PrimaryURL: server.URL, FallbackURL: server.URL, Client: server.Client()}
	got := f.FetchAll([]osm.LatLon{{Lat: 45.51, Lon: 6.65}, {Lat: 45.50, Lon: 6.66}})

	// Null elevations are left unresolved.
	require.Len(t, got, 1)
	ele, err := got.Lookup(45.51, 6.65)
	require.NoError(t, err)
	assert.Equal(t, 2100.0, ele)
}

func TestFetchAllFallsBack(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer primary.Close()
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"results":[{"latitude":45.51,"longitude":6.65,"elevation":2095}]}`))
	}))
	defer fallback.Close()

	f := &Fetcher{PrimaryURL: primary.URL, FallbackURL: fallback.URL, Client: http.DefaultClient}
	got := f.FetchAll([]osm.LatLon{{Lat: 45.51, Lon: 6.65}})

	ele, err := got.Lookup(45.51, 6.65)
	require.NoError(t, err)
	assert.Equal(t, 2095.0, ele)
}

func TestFetchAllSkipsFailedBatches(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	f := &Fetcher{PrimaryURL: broken.URL, FallbackURL: broken.URL, Client: http.DefaultClient}
	got := f.FetchAll([]osm.LatLon{{Lat: 45.51, Lon: 6.65}})
	assert.Empty(t, got)
}

func TestEnrichFillsFromNearbyAndDefault(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	pistes := &osm.Response{Elements: []osm.Element{
		// Tagged elevation covers both of this way's endpoints.
		way(1, map[string]string{"ele": "2000"},
			osm.LatLon{Lat: 45.5100, Lon: 6.6500}, osm.LatLon{Lat: 45.5110, Lon: 6.6510}),
		// First endpoint is ~120m from a known sample: estimated.
		// Last endpoint is several km away from everything: defaulted.
		way(2, nil,
			osm.LatLon{Lat: 45.5111, Lon: 6.6500}, osm.LatLon{Lat: 45.56, Lon: 6.75}),
	}}
	lifts := &osm.Response{}

	f := &Fetcher{PrimaryURL: broken.URL, FallbackURL: broken.URL, Client: http.DefaultClient}
	table, stats := Enrich(pistes, lifts, f)

	assert.Equal(t, 4, stats.Endpoints)
	assert.Equal(t, 2, stats.FromTags)
	assert.Zero(t, stats.FromAPI)
	assert.Equal(t, 1, stats.Estimated)
	assert.Equal(t, 1, stats.Defaulted)

	ele, err := table.Lookup(45.5111, 6.6500)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, ele)

	ele, err = table.Lookup(45.56, 6.75)
	require.NoError(t, err)
	assert.Equal(t, DefaultEle, ele)

	// Every endpoint resolves after enrichment.
	for _, p := range ExtractEndpoints(pistes, lifts) {
		_, err := table.Lookup(p.Lat, p.Lon)
		assert.NoError(t, err)
	}
}
