package network

import (
	"maps"
	"slices"
)

// =============================================================================
// Graph
// =============================================================================

// Graph maps a city identifier to its neighbors and the distance to each,
// in kilometers. Identifiers are case-sensitive.
type Graph map[string]map[string]int

// Edge is one declared adjacency of a [Graph].
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int    `json:"km"`
}

// HasNode reports whether id is a top-level key of g.
func (g Graph) HasNode(id string) bool {
	_, ok := g[id]
	return ok
}

// Nodes returns all top-level identifiers in lexical order.
func (g Graph) Nodes() []string {
	return slices.Sorted(maps.Keys(g))
}

// NodeCount returns the number of top-level identifiers.
func (g Graph) NodeCount() int { return len(g) }

// Neighbors returns the edges leaving id, ordered by target identifier.
// It returns nil when id has no outgoing edges or is not in g.
func (g Graph) Neighbors(id string) []Edge {
	adj := g[id]
	if len(adj) == 0 {
		return nil
	}
	out := make([]Edge, 0, len(adj))
	for _, to := range slices.Sorted(maps.Keys(adj)) {
		out = append(out, Edge{From: id, To: to, Weight: adj[to]})
	}
	return out
}

// Weight returns the declared weight of the edge from -> to.
func (g Graph) Weight(from, to string) (int, bool) {
	w, ok := g[from][to]
	return w, ok
}

// Edges returns each connection once, in (From, To) lexical order.
// A pair declared in both directions is reported as From < To; a pair
// declared in one direction only is reported as declared.
func (g Graph) Edges() []Edge {
	var out []Edge
	for _, from := range g.Nodes() {
		for _, e := range g.Neighbors(from) {
			if e.From > e.To {
				if _, mirrored := g.Weight(e.To, e.From); mirrored {
					continue
				}
			}
			out = append(out, e)
		}
	}
	return out
}

// EdgeCount returns len(g.Edges()).
func (g Graph) EdgeCount() int { return len(g.Edges()) }

// Degree returns the number of edges leaving id.
func (g Graph) Degree(id string) int { return len(g[id]) }

// Clone returns a deep copy of g.
func (g Graph) Clone() Graph {
	if g == nil {
		return nil
	}
	out := make(Graph, len(g))
	for id, adj := range g {
		out[id] = maps.Clone(adj)
	}
	return out
}

// =============================================================================
// Network
// =============================================================================

// Point is a display position. Y grows downwards, as on a canvas.
type Point struct {
	X int `json:"x" toml:"x"`
	Y int `json:"y" toml:"y"`
}

// Network is a named graph with display coordinates.
type Network struct {
	Name   string
	Title  string
	Graph  Graph
	Coords map[string]Point
}

// Cities returns the network's city identifiers in lexical order.
func (n Network) Cities() []string { return n.Graph.Nodes() }

// Bounds returns the smallest rectangle containing every coordinate.
// It returns zero points for a network without coordinates.
func (n Network) Bounds() (lo, hi Point) {
	first := true
	for _, p := range n.Coords {
		if first {
			lo, hi = p, p
			first = false
			continue
		}
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return lo, hi
}
