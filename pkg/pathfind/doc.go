// Package pathfind finds shortest routes with Dijkstra's algorithm and
// records how it found them.
//
// [FindShortestPath] returns the distance, the path, and a trace: the
// ordered list of [Event] values the search produced. The trace is fully
// materialized before the call returns, so a renderer can replay it at any
// pace without touching the search again.
//
//	res, err := pathfind.FindShortestPath(net.Graph, "北京", "深圳")
//	if err != nil {
//	    return err // *UnknownNodeError for cities not in the graph
//	}
//	for _, ev := range res.Trace {
//	    fmt.Println(ev)
//	}
//
// # Events
//
//   - visit_node: a node was popped from the frontier and settled
//   - visit_edge: an edge to an unsettled neighbor was examined, whether or
//     not it improved the neighbor's distance
//   - path_found: always the last event, carrying the path and distance
//
// # Determinism
//
// The frontier orders entries by (distance, node identifier) and neighbors
// are examined in identifier order. Identical inputs therefore produce
// identical traces, which is what makes traces testable and replayable.
//
// # Reachability
//
// An unreachable destination is a result, not an error: Distance is
// [Unreachable], Path is empty, and the trace covers the reachable
// component followed by path_found.
//
// # Complexity
//
// O((V + E) log V) time with a binary heap and lazy deletion of stale
// frontier entries; O(V + E) space. The search stops as soon as the
// destination is settled.
package pathfind
