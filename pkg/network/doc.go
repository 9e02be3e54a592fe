// Package network provides the static rail networks that railpath searches.
//
// A network bundles a weighted graph with display coordinates for each city.
// The graph is a plain adjacency mapping:
//
//	network.Graph{
//	    "北京": {"天津": 120, "济南": 400},
//	    "天津": {"北京": 120, "济南": 300},
//	    "济南": {"北京": 400, "天津": 300},
//	}
//
// Weights are kilometers and strictly positive. Graphs are symmetric by
// convention, but nothing in this package or in the engine relies on it:
// every edge is traversed exactly as declared.
//
// # Built-in Networks
//
//   - [China]: 23 cities of the national rail network (the default)
//   - [Compact]: an 8-city subset useful for demonstrations and tests
//
// Use [Builtin] to look one up by name and [Names] to list them. Every call
// returns freshly allocated maps, so callers may hold on to a network without
// worrying about other users.
//
// # Files
//
// Custom networks are read from JSON or TOML with [Load]:
//
//	name  = "triangle"
//	title = "Three cities"
//
//	[[cities]]
//	id = "A"
//	x  = 100
//	y  = 100
//
//	[[links]]
//	from = "A"
//	to   = "B"
//	km   = 40
//
// Links are undirected and expand to both directions of the graph.
//
// # Validation
//
// [Validate] reports non-positive weights, self loops and dangling edge
// references. [CheckSymmetry] reports edges declared in one direction only;
// it is advisory, since directed data is still searchable.
//
// # Concurrency
//
// Graphs and networks are never modified after construction by this module.
// Concurrent reads are safe; concurrent writes are not.
package network
