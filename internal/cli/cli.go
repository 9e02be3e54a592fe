// Package cli implements the railpath command-line interface.
//
// This package provides commands for listing the cities of a rail network,
// computing shortest routes with their search trace, replaying traces in an
// interactive terminal UI, rendering frames with Graphviz, and serving all
// of it over HTTP. The CLI is built using cobra and supports verbose logging
// via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - cities: List the cities of the selected network
//   - route: Compute a shortest route and optionally print or animate its trace
//   - replay: Pick two cities and watch the search in a terminal UI
//   - render: Draw a frame of the search as SVG, PNG or DOT
//   - serve: Run the HTTP API, a websocket replay stream and Prometheus metrics
//   - config: Inspect the configuration file
//   - cache: Manage the rendered frame cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/railpath/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railpath/pkg/buildinfo"
	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/network"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "railpath"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	// Global flag values.
	configPath  string
	networkName string
	networkFile string
	verbose     bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Railpath animates Dijkstra's algorithm on rail networks",
		Long:         `Railpath computes shortest rail routes between cities and replays, step by step, how Dijkstra's algorithm found them.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default "+defaultConfigHint+")")
	flags.StringVarP(&c.networkName, "network", "n", "", "built-in network: "+strings.Join(network.Names(), ", "))
	flags.StringVar(&c.networkFile, "network-file", "", "load the network from a .json or .toml file")

	_ = root.RegisterFlagCompletionFunc("network", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return network.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	// Register all subcommands
	root.AddCommand(c.citiesCommand())
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: it applies the log level, loads the
// configuration file, merges flag overrides and attaches the logger to the
// command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		registerLogHooks(c.Logger)
	}

	path := c.configPath
	if path == "" {
		p, err := configFile()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	if c.networkName != "" {
		cfg.Network = c.networkName
		cfg.NetworkFile = ""
	}
	if c.networkFile != "" {
		cfg.NetworkFile = c.networkFile
	}
	c.Config = cfg

	c.Logger.Debug("configuration loaded", "path", path, "network", cfg.Network, "network_file", cfg.NetworkFile)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Network Selection
// =============================================================================

// loadNetwork returns the network selected by flags and configuration.
// A network file takes precedence over a built-in name.
func (c *CLI) loadNetwork() (network.Network, error) {
	var (
		n   network.Network
		err error
	)
	if c.Config.NetworkFile != "" {
		n, err = network.Load(c.Config.NetworkFile)
	} else {
		name := c.Config.Network
		if name == "" {
			name = network.DefaultName
		}
		n, err = network.Builtin(name)
	}
	if err != nil {
		return network.Network{}, err
	}

	for _, p := range network.CheckSymmetry(n.Graph) {
		c.Logger.Warn("network is not symmetric", "network", n.Name, "problem", p.String())
	}
	c.Logger.Debug("network loaded",
		"network", n.Name,
		"cities", n.Graph.NodeCount(),
		"links", n.Graph.EdgeCount())
	return n, nil
}

// validateEndpoints checks two city arguments before they reach the engine.
func validateEndpoints(from, to string) error {
	if err := errors.ValidateNodeID(from); err != nil {
		return err
	}
	return errors.ValidateNodeID(to)
}

// cityCompletion completes city names for positional arguments.
func (c *CLI) cityCompletion(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) >= 2 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if err := c.setup(cmd); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	n, err := c.loadNetwork()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return n.Cities(), cobra.ShellCompDirectiveNoFileComp
}

// cityFlagCompletion completes city names for flag values.
func (c *CLI) cityFlagCompletion(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return c.cityCompletion(cmd, nil, "")
}
