package nodelink

import "github.com/matzehuels/railpath/pkg/pathfind"

// Highlight is the display state of a node or edge.
type Highlight int

// Highlight states, in increasing precedence.
const (
	None Highlight = iota
	Visited
	OnPath
)

func (h Highlight) String() string {
	switch h {
	case Visited:
		return "visited"
	case OnPath:
		return "path"
	default:
		return "none"
	}
}

// EdgeKey identifies an undirected edge. A is never greater than B.
type EdgeKey struct{ A, B string }

// Key returns the EdgeKey for the edge between u and v in either direction.
func Key(u, v string) EdgeKey {
	if u > v {
		u, v = v, u
	}
	return EdgeKey{A: u, B: v}
}

// Frame is the accumulated highlight state of a replay. It implements
// replay.Renderer. The zero value is not usable; call [NewFrame].
type Frame struct {
	nodes   map[string]Highlight
	edges   map[EdgeKey]Highlight
	summary string
	steps   int
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{
		nodes: make(map[string]Highlight),
		edges: make(map[EdgeKey]Highlight),
	}
}

// HighlightNode marks id as visited unless it is already on the path.
func (f *Frame) HighlightNode(id string) {
	f.steps++
	f.raiseNode(id, Visited)
}

// HighlightEdge marks the edge between from and to as visited.
func (f *Frame) HighlightEdge(from, to string) {
	f.steps++
	f.raiseEdge(Key(from, to), Visited)
}

// HighlightPath marks every node and consecutive edge of path.
func (f *Frame) HighlightPath(path []string) {
	for i, id := range path {
		f.raiseNode(id, OnPath)
		if i > 0 {
			f.raiseEdge(Key(path[i-1], id), OnPath)
		}
	}
}

// ShowSummary sets the caption drawn under the graph.
func (f *Frame) ShowSummary(s pathfind.Summary) {
	f.steps++
	f.summary = s.String()
}

// ClearSummary removes the caption.
func (f *Frame) ClearSummary() { f.summary = "" }

// Reset removes all highlights and the caption.
func (f *Frame) Reset() {
	clear(f.nodes)
	clear(f.edges)
	f.summary = ""
	f.steps = 0
}

// Node returns the highlight state of id.
func (f *Frame) Node(id string) Highlight { return f.nodes[id] }

// Edge returns the highlight state of the edge between u and v.
func (f *Frame) Edge(u, v string) Highlight { return f.edges[Key(u, v)] }

// Summary returns the caption, or "" if none is shown.
func (f *Frame) Summary() string { return f.summary }

// Steps returns the number of trace events applied since the last Reset.
func (f *Frame) Steps() int { return f.steps }

func (f *Frame) raiseNode(id string, h Highlight) {
	if h > f.nodes[id] {
		f.nodes[id] = h
	}
}

func (f *Frame) raiseEdge(k EdgeKey, h Highlight) {
	if h > f.edges[k] {
		f.edges[k] = h
	}
}
