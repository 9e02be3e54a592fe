package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/network"
	"github.com/matzehuels/railpath/pkg/render/nodelink"
	"github.com/matzehuels/railpath/pkg/replay"
)

const (
	configFileName    = "config.toml"
	defaultConfigHint = "$XDG_CONFIG_HOME/railpath/config.toml"
	defaultListen     = ":8080"
)

// =============================================================================
// Config
// =============================================================================

// Config is the contents of the configuration file. Every field is
// optional; flags override file values.
type Config struct {
	// Network is the built-in network name.
	Network string `toml:"network"`

	// NetworkFile, when set, replaces the built-in network.
	NetworkFile string `toml:"network_file,omitempty"`

	// Tick is the delay between replayed events.
	Tick Duration `toml:"tick"`

	// Listen is the address of the HTTP API.
	Listen string `toml:"listen"`

	// Colors are used when rendering frames.
	Colors nodelink.Colors `toml:"colors"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Network: network.DefaultName,
		Tick:    Duration{replay.DefaultInterval},
		Listen:  defaultListen,
		Colors:  nodelink.DefaultColors(),
	}
}

// Validate checks field values that TOML decoding cannot.
func (c Config) Validate() error {
	if c.NetworkFile == "" && !slices.Contains(network.Names(), c.Network) {
		return errors.New(errors.ErrCodeUnknownNetwork, "unknown network %q (want %s)", c.Network, strings.Join(network.Names(), ", "))
	}
	if c.NetworkFile != "" {
		if err := errors.ValidatePath(c.NetworkFile); err != nil {
			return err
		}
	}
	if c.Tick.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "tick must be positive, got %s", c.Tick)
	}
	return nil
}

// Duration is a time.Duration written as a string such as "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfig reads the TOML file at path on top of DefaultConfig.
// A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := errors.ValidatePath(path); err != nil {
		return cfg, err
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/railpath/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// configFile returns the default configuration file path.
func configFile() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, configFileName), nil
}

// =============================================================================
// Commands
// =============================================================================

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration file",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := configFile()
				if err != nil {
					return err
				}
				path = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(c.Config)
		},
	}
}
