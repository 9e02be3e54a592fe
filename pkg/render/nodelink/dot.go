package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/railpath/pkg/network"
	"github.com/matzehuels/railpath/pkg/observability"
	"github.com/matzehuels/railpath/pkg/render"
)

// Colors are Graphviz color names or "#rrggbb" values.
type Colors struct {
	VisitNode string `toml:"visit_node" json:"visit_node"`
	VisitEdge string `toml:"visit_edge" json:"visit_edge"`
	Path      string `toml:"path" json:"path"`
}

// DefaultColors returns yellow settled cities, red examined edges and a
// blue path.
func DefaultColors() Colors {
	return Colors{VisitNode: "yellow", VisitEdge: "red", Path: "blue"}
}

// withDefaults fills empty fields from DefaultColors.
func (c Colors) withDefaults() Colors {
	d := DefaultColors()
	if c.VisitNode == "" {
		c.VisitNode = d.VisitNode
	}
	if c.VisitEdge == "" {
		c.VisitEdge = d.VisitEdge
	}
	if c.Path == "" {
		c.Path = d.Path
	}
	return c
}

// Options configures node-link frame rendering.
type Options struct {
	// Colors for highlighted elements. Empty fields use DefaultColors.
	Colors Colors

	// Scale multiplies map coordinates. Zero means 1.
	Scale float64

	// HideWeights omits the kilometer labels on edges.
	HideWeights bool
}

// ToDOT converts a network and the highlight state of f to Graphviz DOT.
// f may be nil, which draws the bare network.
//
// Map coordinates grow downwards, so y is flipped to keep north at the top.
func ToDOT(n network.Network, f *Frame, opts Options) string {
	if f == nil {
		f = NewFrame()
	}
	colors := opts.Colors.withDefaults()
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	_, maxPt := n.Bounds()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph %q {\n", graphName(n))
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12, margin=\"0.05,0.05\"];\n")
	buf.WriteString("  edge [color=gray60, fontsize=10, fontcolor=gray30];\n")
	if s := f.Summary(); s != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", s)
		buf.WriteString("  labelloc=b;\n")
		buf.WriteString("  fontsize=16;\n")
	}
	buf.WriteString("\n")

	for _, id := range n.Graph.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", id)}
		if p, ok := n.Coords[id]; ok {
			x := float64(p.X) * scale
			y := float64(maxPt.Y-p.Y) * scale
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(x), fmtFloat(y)))
		}
		switch f.Node(id) {
		case Visited:
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", colors.VisitNode))
		case OnPath:
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", colors.Path), "fontcolor=white")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range n.Graph.Edges() {
		var attrs []string
		if !opts.HideWeights {
			attrs = append(attrs, fmt.Sprintf("label=\"%d\"", e.Weight))
		}
		switch f.Edge(e.From, e.To) {
		case Visited:
			attrs = append(attrs, fmt.Sprintf("color=%q", colors.VisitEdge), "penwidth=2")
		case OnPath:
			attrs = append(attrs, fmt.Sprintf("color=%q", colors.Path), "penwidth=3")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func graphName(n network.Network) string {
	if n.Name == "" {
		return "G"
	}
	return n.Name
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Render renders DOT source in the given format. FormatDOT returns the
// source unchanged.
func Render(ctx context.Context, dot string, format render.Format) ([]byte, error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, string(format))
	start := time.Now()

	var (
		out []byte
		err error
	)
	switch format {
	case render.FormatDOT:
		out = []byte(dot)
	case render.FormatSVG:
		out, err = renderGraphviz(ctx, dot, graphviz.SVG)
		if err == nil {
			out = normalizeViewBox(out)
		}
	case render.FormatPNG:
		out, err = renderGraphviz(ctx, dot, graphviz.PNG)
	default:
		_, err = render.ParseFormat(string(format))
	}

	hooks.OnRenderComplete(ctx, string(format), len(out), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RenderSVG renders DOT source to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return Render(ctx, dot, render.FormatSVG)
}

// RenderPNG renders DOT source to PNG with the neato engine.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return Render(ctx, dot, render.FormatPNG)
}

func renderGraphviz(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
