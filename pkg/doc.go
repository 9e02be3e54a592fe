// Package pkg provides the core libraries for Railpath, which computes
// shortest rail routes and replays how Dijkstra's algorithm found them.
//
// # Overview
//
// A search produces more than a route: it records every city it settles and
// every link it examines, in order, as a trace. Presentation layers replay
// that trace one event at a time to animate the search. The pkg directory is
// organized into four areas:
//
//  1. [network] - Graph Provider (built-in networks, JSON/TOML files, validation)
//  2. [pathfind] - Shortest-path engine (distance, path and trace)
//  3. [replay] - Stepwise playback of a trace onto a renderer
//  4. [render] - Frame output (Graphviz DOT, SVG, PNG) and its cache
//
// # Architecture
//
// Data flows in one direction:
//
//	[network] package (static weighted graph + coordinates)
//	         ↓
//	[pathfind] package (FindShortestPath → distance, path, trace)
//	         ↓
//	[replay] package (Session, Cursor, Play)
//	         ↓
//	[render/nodelink] package (Frame → DOT → SVG/PNG)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/railpath/pkg/network"
//	    "github.com/matzehuels/railpath/pkg/pathfind"
//	)
//
//	n := network.China()
//	res, err := pathfind.FindShortestPath(n.Graph, "北京", "深圳")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Summary()) // 2400 km: 北京 → 济南 → 郑州 → 武汉 → 长沙 → 广州 → 深圳
//
// Replay the search onto a frame and render it:
//
//	s := replay.NewSession(n, logger)
//	if _, err := s.Search(ctx, "北京", "深圳"); err != nil {
//	    return err
//	}
//	frame := nodelink.NewFrame()
//	for s.Step(ctx, frame) {
//	}
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(n, frame, nodelink.Options{}))
//
// # Supporting Packages
//
// [errors] - Coded errors shared by the CLI and HTTP API, plus input
// validation for city names, network names and file paths.
//
// [observability] - Hooks for search, replay, render and HTTP events. The CLI
// installs logging hooks with --verbose.
//
// [cache] - Content-addressed cache for rendered frames, with memory, file
// and null implementations.
//
// [buildinfo] - Version information injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/pathfind/...     # Specific package
//	go test -run Example ./pkg/... # Examples only
package pkg
