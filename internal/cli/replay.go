package cli

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/replay"
)

// interactive reports whether stdin and stdout are terminals.
var interactive = func() bool {
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// replayCommand opens the interactive replay UI.
func (c *CLI) replayCommand() *cobra.Command {
	var (
		from, to string
		tick     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Pick two cities and watch the search step by step",
		Long: `Open a terminal UI showing the network as a map. Choose a start and a
destination city from the list and watch Dijkstra's algorithm settle cities,
examine links and finally highlight the shortest route.

Keys:
  ↑/↓ j/k     move through the city list
  tab         switch between start and destination
  enter/space select the city (starts the search once both are chosen)
  /           filter the city list (enter keeps the filter, esc clears it)
  r           reset
  ?           show all keys
  q esc       quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !interactive() {
				return errors.New(errors.ErrCodeUnsupported,
					"replay needs an interactive terminal; use 'route --animate' instead")
			}
			n, err := c.loadNetwork()
			if err != nil {
				return err
			}
			if tick <= 0 {
				tick = c.Config.Tick.Duration
			}
			ctx := cmd.Context()
			s := replay.NewSession(n, loggerFromContext(ctx))
			model := NewReplayModel(ctx, s, tick, from, to)

			p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "preselect the start city")
	cmd.Flags().StringVar(&to, "to", "", "preselect the destination city")
	cmd.Flags().DurationVar(&tick, "tick", 0, "delay between replayed events (default from config)")
	_ = cmd.RegisterFlagCompletionFunc("from", c.cityFlagCompletion)
	_ = cmd.RegisterFlagCompletionFunc("to", c.cityFlagCompletion)
	return cmd
}
