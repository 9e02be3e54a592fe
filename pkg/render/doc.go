// Package render holds what the railpath renderers share: the set of output
// formats and their parsing.
//
// # Node-Link Frames
//
// The [nodelink] subpackage draws a network with Graphviz, highlighting the
// nodes, edges and path of a replayed search:
//
//	frame := nodelink.NewFrame()
//	replay.Apply(frame, ev)
//	dot := nodelink.ToDOT(net, frame, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Terminal rendering lives with the CLI, since it depends on lipgloss.
package render
