package graph

import "log"

// Components returns the weakly-connected components of the node set,
// treating every edge as undirected. Components are discovered by BFS
// seeded from each unvisited node in the given iteration order, so the
// result order is deterministic.
func Components(order []string, edges []Edge) [][]string {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}

	visited := make(map[string]bool, len(order))
	var components [][]string

	for _, start := range order {
		if visited[start] {
			continue
		}
		var component []string
		queue := []string{start}
		visited[start] = true
		for head := 0; head < len(queue); head++ {
			current := queue[head]
			component = append(component, current)
			for _, neighbor := range adj[current] {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}
		components = append(components, component)
	}
	return components
}

// PruneToLargest removes every node and edge outside the largest
// component. Ties on size resolve to the first-found component, which
// is deterministic given the component discovery order. Returns the
// surviving node order and edge set plus the number of removed nodes.
func PruneToLargest(nodes map[string]*Node, order []string, edges []Edge, components [][]string) ([]string, []Edge, int) {
	if len(components) <= 1 {
		return order, edges, 0
	}

	largest := components[0]
	for _, c := range components[1:] {
		if len(c) > len(largest) {
			largest = c
		}
	}

	keep := make(map[string]bool, len(largest))
	for _, id := range largest {
		keep[id] = true
	}

	removed := 0
	keptOrder := make([]string, 0, len(largest))
	for _, id := range order {
		if keep[id] {
			keptOrder = append(keptOrder, id)
		} else {
			delete(nodes, id)
			removed++
		}
	}

	keptEdges := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if keep[e.Source] && keep[e.Target] {
			keptEdges = append(keptEdges, e)
		}
	}

	log.Printf("Kept largest component: %d nodes, %d edges (removed %d disconnected nodes)",
		len(keptOrder), len(keptEdges), removed)
	return keptOrder, keptEdges, removed
}

// Reachability is the outcome of one directed station-pair check.
type Reachability struct {
	From      string
	To        string
	Reachable bool
}

// CheckStationReachability runs a directed BFS for every ordered pair
// of distinct stations. Purely diagnostic: unreachable pairs are
// reported, never repaired.
func CheckStationReachability(stations []Station, edges []Edge) []Reachability {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}

	var results []Reachability
	for _, from := range stations {
		for _, to := range stations {
			if from.NodeID == to.NodeID {
				continue
			}
			results = append(results, Reachability{
				From:      from.Name,
				To:        to.Name,
				Reachable: reachable(adj, from.NodeID, to.NodeID),
			})
		}
	}
	return results
}

func reachable(adj map[string][]string, from, to string) bool {
	visited := map[string]bool{from: true}
	queue := []string{from}
	for head := 0; head < len(queue); head++ {
		current := queue[head]
		if current == to {
			return true
		}
		for _, neighbor := range adj[current] {
			if !visited[neighbor] {
				visited[neighbor] = true
				queue = append(queue, neighbor)
			}
		}
	}
	return false
}
