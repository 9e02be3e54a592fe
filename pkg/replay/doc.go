// Package replay plays a materialized search trace back through a renderer.
//
// The engine in pkg/pathfind computes the whole trace up front. This
// package owns everything that happens afterwards:
//
//   - [Renderer] is what a presentation layer implements: highlight a node,
//     highlight an edge, show or clear a summary.
//   - [Cursor] walks a trace one event at a time and can rewind.
//   - [Session] holds one network, the last result and its cursor, and
//     enforces the interaction rules (no search while a replay runs, no
//     search with a missing or repeated endpoint).
//   - [Play] drives a session with a ticker until the trace is exhausted or
//     the context is cancelled.
//
// Replay never calls the engine again and never modifies the graph.
//
// # Usage
//
//	s := replay.NewSession(network.China(), logger)
//	if _, err := s.Search(ctx, "北京", "深圳"); err != nil {
//	    return err
//	}
//	return replay.Play(ctx, s, renderer, replay.DefaultInterval)
//
// Interactive front ends that own their own event loop (the bubbletea TUI)
// call [Session.Step] from their tick handler instead of using [Play].
package replay
