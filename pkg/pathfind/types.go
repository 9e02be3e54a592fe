package pathfind

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// Distance
// =============================================================================

// Distance is a route length in kilometers.
type Distance int64

// Unreachable is the distance of a destination the search never reached.
const Unreachable Distance = math.MaxInt64

// Reachable reports whether d is a finite distance.
func (d Distance) Reachable() bool { return d != Unreachable }

// String returns the decimal distance, or "∞" when unreachable.
func (d Distance) String() string {
	if !d.Reachable() {
		return "∞"
	}
	return strconv.FormatInt(int64(d), 10)
}

// MarshalJSON encodes an unreachable distance as null.
func (d Distance) MarshalJSON() ([]byte, error) {
	if !d.Reachable() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(int64(d), 10)), nil
}

// UnmarshalJSON decodes null as [Unreachable].
func (d *Distance) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Unreachable
		return nil
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("distance: %w", err)
	}
	*d = Distance(v)
	return nil
}

// =============================================================================
// Events
// =============================================================================

// EventKind identifies the variant of an [Event].
type EventKind string

// Event kinds, in the order they can first appear in a trace.
const (
	KindVisitNode EventKind = "visit_node"
	KindVisitEdge EventKind = "visit_edge"
	KindPathFound EventKind = "path_found"
)

// Event is one step of a search trace.
//
// Fields by kind:
//
//	visit_node: Node
//	visit_edge: From, To
//	path_found: Node (the destination), Path, Distance
type Event struct {
	Kind     EventKind
	Node     string
	From     string
	To       string
	Path     []string
	Distance Distance
}

// VisitNode returns the event for settling node.
func VisitNode(node string) Event {
	return Event{Kind: KindVisitNode, Node: node}
}

// VisitEdge returns the event for examining the edge from -> to.
func VisitEdge(from, to string) Event {
	return Event{Kind: KindVisitEdge, From: from, To: to}
}

// PathFound returns the terminal event. A nil path is stored as empty.
func PathFound(target string, path []string, d Distance) Event {
	if path == nil {
		path = []string{}
	}
	return Event{Kind: KindPathFound, Node: target, Path: path, Distance: d}
}

func (e Event) String() string {
	switch e.Kind {
	case KindVisitNode:
		return fmt.Sprintf("%s %s", e.Kind, e.Node)
	case KindVisitEdge:
		return fmt.Sprintf("%s %s→%s", e.Kind, e.From, e.To)
	case KindPathFound:
		return fmt.Sprintf("%s %s path=[%s] distance=%s", e.Kind, e.Node, strings.Join(e.Path, " "), e.Distance)
	default:
		return string(e.Kind)
	}
}

// eventJSON keeps kind-specific fields out of events that do not use them.
type eventJSON struct {
	Kind     EventKind `json:"kind"`
	Node     string    `json:"node,omitempty"`
	From     string    `json:"from,omitempty"`
	To       string    `json:"to,omitempty"`
	Path     *[]string `json:"path,omitempty"`
	Distance *Distance `json:"distance,omitempty"`
}

// MarshalJSON encodes only the fields that belong to the event's kind.
func (e Event) MarshalJSON() ([]byte, error) {
	out := eventJSON{Kind: e.Kind, Node: e.Node, From: e.From, To: e.To}
	if e.Kind == KindPathFound {
		path := e.Path
		if path == nil {
			path = []string{}
		}
		d := e.Distance
		out.Path, out.Distance = &path, &d
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of [Event.MarshalJSON].
func (e *Event) UnmarshalJSON(data []byte) error {
	var in eventJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*e = Event{Kind: in.Kind, Node: in.Node, From: in.From, To: in.To}
	if in.Path != nil {
		e.Path = *in.Path
	}
	if in.Distance != nil {
		e.Distance = *in.Distance
	} else if in.Kind == KindPathFound {
		e.Distance = Unreachable
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of one search.
type Result struct {
	Start    string   `json:"start"`
	End      string   `json:"end"`
	Distance Distance `json:"distance"`
	Path     []string `json:"path"`
	Trace    []Event  `json:"trace"`
}

// Reachable reports whether a path to End was found.
func (r *Result) Reachable() bool { return r.Distance.Reachable() }

// Final returns the path_found event that ends every trace.
func (r *Result) Final() Event {
	if n := len(r.Trace); n > 0 {
		return r.Trace[n-1]
	}
	return PathFound(r.End, r.Path, r.Distance)
}

// Visited returns the settled nodes in the order they were settled.
func (r *Result) Visited() []string {
	var out []string
	for _, ev := range r.Trace {
		if ev.Kind == KindVisitNode {
			out = append(out, ev.Node)
		}
	}
	return out
}

// Summary returns the distance and path for display.
func (r *Result) Summary() Summary {
	return Summary{Distance: r.Distance, Path: r.Path}
}

// Summary is the textual outcome presented to users.
type Summary struct {
	Distance Distance `json:"distance"`
	Path     []string `json:"path"`
}

// SummaryOf builds the summary carried by a path_found event.
func SummaryOf(ev Event) Summary {
	return Summary{Distance: ev.Distance, Path: ev.Path}
}

// String renders "2350 km: 北京 → 武汉 → 广州 → 深圳", or "no path".
func (s Summary) String() string {
	if !s.Distance.Reachable() {
		return "no path"
	}
	return fmt.Sprintf("%s km: %s", s.Distance, strings.Join(s.Path, " → "))
}
