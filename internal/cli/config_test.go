package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/network"
	"github.com/matzehuels/railpath/pkg/replay"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	def := DefaultConfig()
	if cfg.Network != def.Network || cfg.Tick != def.Tick || cfg.Listen != def.Listen {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, def)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
network = "compact"
tick = "150ms"
listen = "127.0.0.1:9000"

[colors]
visit_node = "gold"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Network != network.NameCompact {
		t.Errorf("Network = %q", cfg.Network)
	}
	if cfg.Tick.Duration != 150*time.Millisecond {
		t.Errorf("Tick = %v", cfg.Tick)
	}
	if cfg.Listen != "127.0.0.1:9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Colors.VisitNode != "gold" {
		t.Errorf("Colors.VisitNode = %q", cfg.Colors.VisitNode)
	}
	if cfg.Colors.Path != DefaultConfig().Colors.Path {
		t.Errorf("unset colors should keep their defaults, got %q", cfg.Colors.Path)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", `network = `, errors.ErrCodeInvalidFormat},
		{"unknown key", `colour = "red"`, errors.ErrCodeInvalidFormat},
		{"bad duration", `tick = "soon"`, errors.ErrCodeInvalidFormat},
		{"unknown network", `network = "mars"`, errors.ErrCodeUnknownNetwork},
		{"zero tick", `tick = "0s"`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestDurationText(t *testing.T) {
	d := Duration{replay.DefaultInterval}
	text, err := d.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "500ms" {
		t.Errorf("MarshalText = %q, want 500ms", text)
	}

	var back Duration
	if err := back.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Errorf("UnmarshalText = %v, want %v", back, d)
	}
	if err := back.UnmarshalText([]byte("fast")); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("configDir() = %q, should be under home %q", dir, home)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("configDir() = %q, should end with %q", dir, appName)
	}
	if !strings.Contains(dir, ".config") {
		t.Errorf("configDir() = %q, should contain '.config'", dir)
	}
}

func TestConfigDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	path, err := configFile()
	if err != nil {
		t.Fatalf("configFile() error: %v", err)
	}
	if want := filepath.Join(xdg, appName, configFileName); path != want {
		t.Errorf("configFile() = %q, want %q", path, want)
	}
}

func TestConfigCommands(t *testing.T) {
	out, _, err := runCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, `network = "china"`) || !strings.Contains(out, `tick = "500ms"`) {
		t.Errorf("config show output:\n%s", out)
	}

	out, _, err = runCLI(t, "-n", "compact", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, `network = "compact"`) {
		t.Errorf("--network should override the file:\n%s", out)
	}

	path := writeConfig(t, `network = "compact"`)
	out, _, err = runCLI(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), path)
	}
}
