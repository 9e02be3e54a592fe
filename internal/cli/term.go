package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/railpath/pkg/network"
	"github.com/matzehuels/railpath/pkg/pathfind"
	"github.com/matzehuels/railpath/pkg/render/nodelink"
)

// =============================================================================
// Line Renderer
// =============================================================================

// lineRenderer prints one styled line per replayed event. It implements
// replay.Renderer for `route --animate`.
type lineRenderer struct {
	w io.Writer
	n int
}

func newLineRenderer(w io.Writer) *lineRenderer { return &lineRenderer{w: w} }

func (r *lineRenderer) HighlightNode(id string) {
	fmt.Fprintln(r.w, formatEvent(r.n, pathfind.VisitNode(id)))
	r.n++
}

func (r *lineRenderer) HighlightEdge(from, to string) {
	fmt.Fprintln(r.w, formatEvent(r.n, pathfind.VisitEdge(from, to)))
	r.n++
}

func (r *lineRenderer) HighlightPath(path []string) {
	fmt.Fprintln(r.w, "    "+stylePath.Render(formatPath(path)))
}

func (r *lineRenderer) ShowSummary(s pathfind.Summary) {
	r.n++
	if !s.Distance.Reachable() {
		fmt.Fprintln(r.w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(s.String()))
		return
	}
	fmt.Fprintln(r.w, styleIconSuccess.Render(iconSuccess)+" "+StyleNumber.Render(s.Distance.String())+" km")
}

func (r *lineRenderer) ClearSummary() {}

func (r *lineRenderer) Reset() { r.n = 0 }

// =============================================================================
// Character Map
// =============================================================================

// mapCell is one terminal column of a charMap.
type mapCell struct {
	text  string // "" for the right half of a wide rune
	style lipgloss.Style
	rank  int // precedence: higher overwrites lower
	set   bool
}

// Cell ranks.
const (
	rankEdge = iota + 1
	rankEdgeVisited
	rankEdgePath
	rankCity
)

// charMap draws a network on a fixed-size character grid, using the
// highlight state of a nodelink.Frame.
type charMap struct {
	net        network.Network
	cols, rows int
}

func newCharMap(n network.Network, cols, rows int) charMap {
	return charMap{net: n, cols: max(cols, 16), rows: max(rows, 8)}
}

// project maps network coordinates onto the grid.
func (m charMap) project(p network.Point) (row, col int) {
	lo, hi := m.net.Bounds()
	// Leave room for labels to the right of each marker.
	usable := m.cols - 8
	if w := hi.X - lo.X; w > 0 {
		col = (p.X - lo.X) * (usable - 1) / w
	}
	if h := hi.Y - lo.Y; h > 0 {
		row = (p.Y - lo.Y) * (m.rows - 1) / h
	}
	return row, col
}

// Render returns the map as rows of styled text.
func (m charMap) Render(f *nodelink.Frame) string {
	grid := make([][]mapCell, m.rows)
	for i := range grid {
		grid[i] = make([]mapCell, m.cols)
	}
	put := func(r, c int, cell mapCell) {
		if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
			return
		}
		if grid[r][c].set && grid[r][c].rank > cell.rank {
			return
		}
		cell.set = true
		grid[r][c] = cell
	}

	for _, e := range m.net.Graph.Edges() {
		p, ok1 := m.net.Coords[e.From]
		q, ok2 := m.net.Coords[e.To]
		if !ok1 || !ok2 {
			continue
		}
		cell := mapCell{text: "·", style: StyleDim, rank: rankEdge}
		switch f.Edge(e.From, e.To) {
		case nodelink.Visited:
			cell = mapCell{text: "·", style: styleExamined, rank: rankEdgeVisited}
		case nodelink.OnPath:
			cell = mapCell{text: "•", style: stylePath, rank: rankEdgePath}
		}
		r0, c0 := m.project(p)
		r1, c1 := m.project(q)
		for _, pt := range line(r0, c0, r1, c1) {
			put(pt[0], pt[1], cell)
		}
	}

	for _, id := range m.net.Cities() {
		p, ok := m.net.Coords[id]
		if !ok {
			continue
		}
		style := StyleValue
		switch f.Node(id) {
		case nodelink.Visited:
			style = styleVisited
		case nodelink.OnPath:
			style = stylePath
		}
		r, c := m.project(p)
		put(r, c, mapCell{text: iconCity, style: style, rank: rankCity})
		c++
		for _, ch := range id {
			w := lipgloss.Width(string(ch))
			if c+w > m.cols {
				break
			}
			put(r, c, mapCell{text: string(ch), style: style, rank: rankCity})
			for k := 1; k < w; k++ {
				put(r, c+k, mapCell{rank: rankCity})
			}
			c += w
		}
	}

	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, cell := range row {
			switch {
			case !cell.set:
				b.WriteByte(' ')
			case cell.text == "":
				// right half of a wide rune
			default:
				b.WriteString(cell.style.Render(cell.text))
			}
		}
	}
	return b.String()
}

// line returns the grid points from (r0, c0) to (r1, c1) inclusive,
// using Bresenham's algorithm.
func line(r0, c0, r1, c1 int) [][2]int {
	dr, dc := abs(r1-r0), -abs(c1-c0)
	sr, sc := sign(r1-r0), sign(c1-c0)
	err := dr + dc
	var pts [][2]int
	for {
		pts = append(pts, [2]int{r0, c0})
		if r0 == r1 && c0 == c1 {
			return pts
		}
		e2 := 2 * err
		if e2 >= dc {
			err += dc
			r0 += sr
		}
		if e2 <= dr {
			err += dr
			c0 += sc
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
