package replay

import (
	"github.com/matzehuels/railpath/pkg/pathfind"
)

// Renderer receives the visual effect of each trace event.
//
// Implementations need not be safe for concurrent use; a [Session] calls
// them from one goroutine at a time.
type Renderer interface {
	// HighlightNode marks a settled node.
	HighlightNode(id string)

	// HighlightEdge marks an examined edge by its two endpoints.
	HighlightEdge(from, to string)

	// HighlightPath marks every node and edge of the final path.
	HighlightPath(path []string)

	// ShowSummary displays the final distance and path.
	ShowSummary(s pathfind.Summary)

	// ClearSummary removes any displayed summary.
	ClearSummary()

	// Reset returns the frame to its unhighlighted state.
	Reset()
}

// Apply sends the effect of ev to r.
func Apply(r Renderer, ev pathfind.Event) {
	switch ev.Kind {
	case pathfind.KindVisitNode:
		r.HighlightNode(ev.Node)
	case pathfind.KindVisitEdge:
		r.HighlightEdge(ev.From, ev.To)
	case pathfind.KindPathFound:
		if len(ev.Path) > 0 {
			r.HighlightPath(ev.Path)
		}
		r.ShowSummary(pathfind.SummaryOf(ev))
	}
}

// Discard is a Renderer that ignores every call.
var Discard Renderer = discard{}

type discard struct{}

func (discard) HighlightNode(string)         {}
func (discard) HighlightEdge(string, string) {}
func (discard) HighlightPath([]string)       {}
func (discard) ShowSummary(pathfind.Summary) {}
func (discard) ClearSummary()                {}
func (discard) Reset()                       {}
