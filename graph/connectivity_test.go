package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangle wires three nodes into a directed cycle.
func triangle(prefix string, a, b, c string) []Edge {
	return []Edge{
		{ID: prefix + "_1", Source: a, Target: b, Type: CategorySlope, Distance: 100, ElevationDelta: -10},
		{ID: prefix + "_2", Source: b, Target: c, Type: CategorySlope, Distance: 100, ElevationDelta: -10},
		{ID: prefix + "_3", Source: c, Target: a, Type: CategoryLift, Distance: 100, ElevationDelta: 20},
	}
}

func componentFixture() (map[string]*Node, []string, []Edge) {
	order := []string{"n0", "n1", "n2", "n3", "n4", "n5", "n6", "n7", "n8"}
	nodes := make(map[string]*Node, len(order))
	for i, id := range order {
		nodes[id] = &Node{Lat: 45.5 + float64(i)*0.01, Lon: 6.67, Ele: 1900 + 10*i}
	}
	var edges []Edge
	edges = append(edges, triangle("a", "n0", "n1", "n2")...)
	edges = append(edges, triangle("b", "n3", "n4", "n5")...)
	edges = append(edges, triangle("c", "n6", "n7", "n8")...)
	return nodes, order, edges
}

func TestComponents_FindsDisconnectedPieces(t *testing.T) {
	_, order, edges := componentFixture()

	components := Components(order, edges)
	require.Len(t, components, 3)
	assert.Equal(t, []string{"n0", "n1", "n2"}, components[0])
	assert.Equal(t, []string{"n3", "n4", "n5"}, components[1])
	assert.Equal(t, []string{"n6", "n7", "n8"}, components[2])
}

func TestComponents_EdgesAreUndirected(t *testing.T) {
	// A single directed edge still joins both endpoints into one
	// component.
	components := Components([]string{"n0", "n1"}, []Edge{
		{ID: "piste_1", Source: "n0", Target: "n1", Type: CategorySlope},
	})
	require.Len(t, components, 1)
	assert.Equal(t, []string{"n0", "n1"}, components[0])
}

func TestPruneToLargest_KeepsFirstOnTie(t *testing.T) {
	nodes, order, edges := componentFixture()
	components := Components(order, edges)

	keptOrder, keptEdges, removed := PruneToLargest(nodes, order, edges, components)
	assert.Equal(t, 6, removed)
	assert.Equal(t, []string{"n0", "n1", "n2"}, keptOrder)
	require.Len(t, keptEdges, 3)
	for _, e := range keptEdges {
		assert.Contains(t, e.ID, "a_")
	}

	// Pruned nodes are removed from the map in place.
	assert.Len(t, nodes, 3)
	assert.NotContains(t, nodes, "n3")

	// The surviving graph is a single component.
	assert.Len(t, Components(keptOrder, keptEdges), 1)
}

func TestPruneToLargest_PrefersBiggerComponent(t *testing.T) {
	nodes, order, edges := componentFixture()
	// Grow the second triangle by one node so it outweighs the first.
	nodes["n9"] = &Node{Lat: 45.6, Lon: 6.67, Ele: 2000}
	order = append(order, "n9")
	edges = append(edges, Edge{ID: "b_4", Source: "n5", Target: "n9", Type: CategorySlope, Distance: 50, ElevationDelta: -5})

	components := Components(order, edges)
	keptOrder, _, removed := PruneToLargest(nodes, order, edges, components)
	assert.Equal(t, 6, removed)
	assert.Equal(t, []string{"n3", "n4", "n5", "n9"}, keptOrder)
}

func TestPruneToLargest_SingleComponentUntouched(t *testing.T) {
	nodes := map[string]*Node{"n0": {}, "n1": {}, "n2": {}}
	order := []string{"n0", "n1", "n2"}
	edges := triangle("a", "n0", "n1", "n2")

	keptOrder, keptEdges, removed := PruneToLargest(nodes, order, edges, Components(order, edges))
	assert.Zero(t, removed)
	assert.Equal(t, order, keptOrder)
	assert.Equal(t, edges, keptEdges)
}

func TestCheckStationReachability(t *testing.T) {
	// n0 -> n1 -> n2, with no way back from n2.
	edges := []Edge{
		{ID: "piste_1", Source: "n0", Target: "n1", Type: CategorySlope},
		{ID: "piste_2", Source: "n1", Target: "n2", Type: CategorySlope},
		{ID: "lift_1", Source: "n1", Target: "n0", Type: CategoryLift},
	}
	stations := []Station{
		{Name: "Base", NodeID: "n0"},
		{Name: "Mid", NodeID: "n1"},
		{Name: "Summit", NodeID: "n2"},
	}

	results := CheckStationReachability(stations, edges)
	require.Len(t, results, 6)

	byPair := make(map[string]bool, len(results))
	for _, r := range results {
		byPair[r.From+"->"+r.To] = r.Reachable
	}
	assert.True(t, byPair["Base->Summit"])
	assert.True(t, byPair["Mid->Base"])
	assert.False(t, byPair["Summit->Base"])
	assert.False(t, byPair["Summit->Mid"])
}

func TestCheckStationReachability_SkipsSameNode(t *testing.T) {
	// Two stations mapped onto the same node produce no pair.
	stations := []Station{
		{Name: "Centre", NodeID: "n0"},
		{Name: "Centre Haut", NodeID: "n0"},
	}
	assert.Empty(t, CheckStationReachability(stations, nil))
}
