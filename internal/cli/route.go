package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/pathfind"
	"github.com/matzehuels/railpath/pkg/replay"
)

// routeOpts holds the command-line flags for the route command.
type routeOpts struct {
	trace   bool          // print every trace event
	asJSON  bool          // print the result as JSON
	animate bool          // replay the trace one event per tick
	tick    time.Duration // delay between animated events
}

// routeCommand computes the shortest route between two cities.
func (c *CLI) routeCommand() *cobra.Command {
	var opts routeOpts

	cmd := &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Compute the shortest route between two cities",
		Example: `  railpath route 北京 深圳
  railpath route 哈尔滨 广州 --trace
  railpath route 上海 昆明 --animate --tick 200ms
  railpath -n compact route 北京 深圳 --json`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.cityCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.animate && opts.asJSON {
				return errors.New(errors.ErrCodeInvalidInput, "--animate and --json are mutually exclusive")
			}
			if err := validateEndpoints(args[0], args[1]); err != nil {
				return err
			}
			if opts.animate {
				return c.animateRoute(cmd, args[0], args[1], opts)
			}
			return c.showRoute(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.trace, "trace", false, "print the search trace")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.animate, "animate", false, "replay the trace one event per tick")
	cmd.Flags().DurationVar(&opts.tick, "tick", 0, "delay between animated events (default from config)")
	return cmd
}

func (c *CLI) showRoute(cmd *cobra.Command, from, to string, opts routeOpts) error {
	n, err := c.loadNetwork()
	if err != nil {
		return err
	}
	res, err := pathfind.FindShortestPath(n.Graph, from, to)
	if err != nil {
		return err
	}
	c.Logger.Debug("route computed", "distance", res.Distance, "steps", len(res.Trace))

	w := cmd.OutOrStdout()
	if opts.asJSON {
		out := RouteResponse{
			Network:  n.Name,
			From:     res.Start,
			To:       res.End,
			Distance: res.Distance,
			Path:     res.Path,
			Summary:  res.Summary().String(),
			Steps:    len(res.Trace),
		}
		if opts.trace {
			out.Trace = res.Trace
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if opts.trace {
		for i, ev := range res.Trace {
			fmt.Fprintln(w, formatEvent(i, ev))
		}
		fmt.Fprintln(w)
	}
	printRoute(w, res)
	return nil
}

// animateRoute replays the trace through a session, printing one line per
// event. Cancelling the context stops the replay.
func (c *CLI) animateRoute(cmd *cobra.Command, from, to string, opts routeOpts) error {
	n, err := c.loadNetwork()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	s := replay.NewSession(n, loggerFromContext(ctx))
	res, err := s.Search(ctx, from, to)
	if err != nil {
		return err
	}

	tick := opts.tick
	if tick <= 0 {
		tick = c.Config.Tick.Duration
	}
	w := cmd.OutOrStdout()
	if err := replay.Play(ctx, s, newLineRenderer(w), tick); err != nil {
		return err
	}
	fmt.Fprintln(w)
	printRoute(w, res)
	return nil
}
