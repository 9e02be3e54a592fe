package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/network"
	"github.com/matzehuels/railpath/pkg/render"
	"github.com/matzehuels/railpath/pkg/render/nodelink"
	"github.com/matzehuels/railpath/pkg/replay"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string  // output file path, "-" for stdout
	format      string  // svg, png or dot
	frame       int     // number of trace events to apply, -1 for all
	scale       float64 // coordinate scale factor
	hideWeights bool    // omit distance labels on links
	cache       bool    // reuse images from the frame cache
}

// renderCommand draws one frame of a search as SVG, PNG or DOT.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{frame: -1, scale: 1}

	cmd := &cobra.Command{
		Use:   "render <from> <to>",
		Short: "Render a frame of the search to SVG, PNG or DOT",
		Long: `Render the network with the search state after a number of trace events.

By default the final frame is drawn: settled cities, examined links and the
shortest route with its length. Use --frame to stop earlier in the trace.`,
		Example: `  railpath render 北京 深圳
  railpath render 北京 深圳 -f png -o route.png
  railpath render 哈尔滨 广州 --frame 10 -f dot -o -`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.cityCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <from>-<to>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(render.FormatSVG), "output format: svg, png, dot")
	cmd.Flags().IntVar(&opts.frame, "frame", -1, "number of trace events to apply (default all)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "scale city coordinates")
	cmd.Flags().BoolVar(&opts.hideWeights, "hide-weights", false, "omit distance labels on links")
	cmd.Flags().BoolVar(&opts.cache, "cache", false, "reuse previously rendered images from the frame cache")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		out := make([]string, len(render.Formats))
		for i, f := range render.Formats {
			out[i] = string(f)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, from, to string, opts renderOpts) error {
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "--scale must be positive, got %g", opts.scale)
	}
	if err := validateEndpoints(from, to); err != nil {
		return err
	}
	n, err := c.loadNetwork()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	frame, total, err := searchFrame(ctx, n, from, to, opts.frame)
	if err != nil {
		return err
	}
	dot := nodelink.ToDOT(n, frame, nodelink.Options{
		Colors:      c.Config.Colors,
		Scale:       opts.scale,
		HideWeights: opts.hideWeights,
	})

	prog := newProgress(loggerFromContext(ctx))
	var data []byte
	if format == render.FormatDOT {
		data = []byte(dot)
	} else {
		frames, err := frameStore(opts.cache)
		if err != nil {
			return err
		}
		defer frames.Close()
		spinner := newSpinner(ctx, "Rendering "+strings.ToUpper(string(format))+"...")
		spinner.Start()
		var hit bool
		data, hit, err = nodelink.RenderCached(ctx, frames, dot, format, frameCacheTTL)
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		spinner.Stop()
		loggerFromContext(ctx).Debug("frame rendered", "format", format, "bytes", len(data), "cached", hit)
	}
	prog.done(fmt.Sprintf("Rendered frame %d/%d", frame.Steps(), total))

	out := opts.output
	if out == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if out == "" {
		out = from + "-" + to + format.Ext()
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", out)
	}
	printSuccess("Wrote %s", strings.ToUpper(string(format)))
	printFile(out)
	if frame.Steps() < total {
		printNextStep("Render the final frame", "railpath render "+from+" "+to)
	} else {
		printNextStep("Watch the search", "railpath replay --from "+from+" --to "+to)
	}
	return nil
}

// searchFrame replays the first steps events of a search onto a new frame
// and returns it with the trace length. A negative steps value replays the
// whole trace.
func searchFrame(ctx context.Context, n network.Network, from, to string, steps int) (*nodelink.Frame, int, error) {
	s := replay.NewSession(n, loggerFromContext(ctx))
	res, err := s.Search(ctx, from, to)
	if err != nil {
		return nil, 0, err
	}
	if steps < 0 || steps > len(res.Trace) {
		steps = len(res.Trace)
	}
	frame := nodelink.NewFrame()
	if err := s.Seek(frame, steps); err != nil {
		return nil, 0, err
	}
	return frame, len(res.Trace), nil
}
