package pathfind

import (
	"container/heap"
	"slices"

	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/network"
)

// Graph is the read-only view of a weighted graph the engine needs.
// [network.Graph] satisfies it. Neighbors must return a deterministic order
// for traces to be reproducible.
type Graph interface {
	HasNode(id string) bool
	Nodes() []string
	Neighbors(id string) []network.Edge
}

// FindShortestPath runs Dijkstra's algorithm from start to end and returns
// the distance, the path, and the full trace.
//
// Neither start nor end may be missing from g: that is reported as an
// *[UnknownNodeError]. Negative edge weights are rejected with
// [errors.ErrCodeInvalidGraph] before the search begins. An unreachable end
// is not an error; see [Result.Reachable].
//
// Neighbors named by an edge but absent as keys of g are treated as nodes
// with no outgoing edges. g is never modified.
func FindShortestPath(g Graph, start, end string) (*Result, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "graph is nil")
	}
	if !g.HasNode(start) {
		return nil, &UnknownNodeError{Node: start, Role: RoleStart}
	}
	if !g.HasNode(end) {
		return nil, &UnknownNodeError{Node: end, Role: RoleEnd}
	}
	if err := checkWeights(g); err != nil {
		return nil, err
	}

	s := newSearch(g, start, end)
	s.run()
	return s.result(), nil
}

// checkWeights rejects negative weights, which break the settle-once
// property the algorithm relies on. It also rejects graphs whose weights
// sum to Unreachable or more: no simple path can then exceed the sum, so
// relaxation never overflows or collides with the sentinel.
func checkWeights(g Graph) error {
	var total Distance
	for _, id := range g.Nodes() {
		for _, e := range g.Neighbors(id) {
			if e.Weight < 0 {
				return errors.New(errors.ErrCodeInvalidGraph,
					"negative weight %d on edge %s→%s", e.Weight, e.From, e.To)
			}
			w := Distance(e.Weight)
			if w >= Unreachable-total {
				return errors.New(errors.ErrCodeInvalidGraph,
					"edge weights sum past the distance range at %s→%s", e.From, e.To)
			}
			total += w
		}
	}
	return nil
}

// search holds the mutable state of one run.
type search struct {
	g          Graph
	start, end string

	dist    map[string]Distance
	prev    map[string]string
	settled map[string]bool
	queue   frontier
	trace   []Event
}

func newSearch(g Graph, start, end string) *search {
	s := &search{
		g:       g,
		start:   start,
		end:     end,
		dist:    map[string]Distance{start: 0},
		prev:    make(map[string]string),
		settled: make(map[string]bool),
	}
	heap.Push(&s.queue, frontierItem{id: start, dist: 0})
	return s
}

// distOf treats a node without a recorded distance as unreachable.
func (s *search) distOf(id string) Distance {
	if d, ok := s.dist[id]; ok {
		return d
	}
	return Unreachable
}

func (s *search) run() {
	for s.queue.Len() > 0 {
		item := heap.Pop(&s.queue).(frontierItem)
		if s.settled[item.id] {
			continue
		}
		s.settled[item.id] = true
		s.trace = append(s.trace, VisitNode(item.id))
		if item.id == s.end {
			return
		}
		s.relax(item)
	}
}

// relax examines every unsettled neighbor of a freshly settled node.
func (s *search) relax(item frontierItem) {
	for _, e := range s.g.Neighbors(item.id) {
		if s.settled[e.To] {
			continue
		}
		s.trace = append(s.trace, VisitEdge(item.id, e.To))
		cand := item.dist + Distance(e.Weight)
		if cand < s.distOf(e.To) {
			s.dist[e.To] = cand
			s.prev[e.To] = item.id
			heap.Push(&s.queue, frontierItem{id: e.To, dist: cand})
		}
	}
}

func (s *search) result() *Result {
	d := s.distOf(s.end)
	path := []string{}
	if d.Reachable() {
		for node := s.end; ; node = s.prev[node] {
			path = append(path, node)
			if node == s.start {
				break
			}
		}
		slices.Reverse(path)
	}
	trace := append(s.trace, PathFound(s.end, path, d))
	return &Result{
		Start:    s.start,
		End:      s.end,
		Distance: d,
		Path:     path,
		Trace:    trace,
	}
}

// PathWeight sums the edge weights along path. It reports false when path is
// empty or two consecutive nodes are not joined by an edge.
func PathWeight(g Graph, path []string) (Distance, bool) {
	if len(path) == 0 {
		return Unreachable, false
	}
	var total Distance
	for i := 1; i < len(path); i++ {
		w, ok := edgeWeight(g, path[i-1], path[i])
		if !ok {
			return Unreachable, false
		}
		total += Distance(w)
	}
	return total, true
}

func edgeWeight(g Graph, from, to string) (int, bool) {
	for _, e := range g.Neighbors(from) {
		if e.To == to {
			return e.Weight, true
		}
	}
	return 0, false
}
