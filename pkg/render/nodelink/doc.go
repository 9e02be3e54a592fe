// Package nodelink renders rail networks as node-link diagrams.
//
// # Overview
//
// Cities are drawn as circles pinned at their map coordinates and rail
// links as undirected edges labeled with their length in kilometers.
// A [Frame] records what a replayed search has highlighted so far; it
// implements replay.Renderer, so any prefix of a trace can be drawn:
//
//	frame := nodelink.NewFrame()
//	for _, ev := range res.Trace[:n] {
//	    replay.Apply(frame, ev)
//	}
//	dot := nodelink.ToDOT(net, frame, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Colors
//
// Settled cities, examined edges and the final path each get their own
// color, configured through [Colors]. Path highlighting wins over the
// other two.
//
// # DOT Format
//
// [ToDOT] produces an undirected Graphviz graph with pos="x,y!" on every
// city that has coordinates. It is meant for the neato engine, which
// respects pinned positions; [RenderSVG] and [RenderPNG] select it.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
package nodelink
