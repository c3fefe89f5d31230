// Package config loads the tool's on-disk configuration: per-server
// command/arg overrides, and the import run's default timeouts and
// concurrency, via a TOML file the CLI flags may still override per run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigDir is where the config file lives, relative to the
// project root.
const DefaultConfigDir = ".lsp2gxl"

// Config is the on-disk configuration shape.
type Config struct {
	LSP    map[string]LSPConfig `toml:"lsp"`
	Import ImportConfig         `toml:"import"`
}

// LSPConfig overrides a registered server's command/args, for a local
// install in a nonstandard location or with extra flags.
type LSPConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// ImportConfig holds the defaults an import run applies unless overridden
// by a CLI flag.
type ImportConfig struct {
	TimeoutSeconds  int  `toml:"timeout_seconds"`
	Jobs            int  `toml:"jobs"`
	Edges           bool `toml:"edges"`
	Nodes           bool `toml:"nodes"`
	Diagnostics     bool `toml:"diagnostics"`
	AvoidSelfRefs   bool `toml:"avoid_self_refs"`
	AvoidParentRefs bool `toml:"avoid_parent_refs"`
}

// Timeout returns the configured per-request timeout as a duration.
func (c ImportConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns the tool's built-in configuration.
func Default() *Config {
	return &Config{
		LSP: map[string]LSPConfig{},
		Import: ImportConfig{
			TimeoutSeconds:  10,
			Jobs:            4,
			Edges:           true,
			Nodes:           true,
			Diagnostics:     true,
			AvoidSelfRefs:   true,
			AvoidParentRefs: false,
		},
	}
}

// Load reads "<projectRoot>/.lsp2gxl/config.toml" over the defaults,
// returning the defaults unchanged if no such file exists.
func Load(projectRoot string) (*Config, error) {
	configPath := filepath.Join(projectRoot, DefaultConfigDir, "config.toml")

	cfg := Default()
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", configPath, err)
	}
	return cfg, nil
}

// Save writes cfg to "<projectRoot>/.lsp2gxl/config.toml", creating the
// directory if needed.
func Save(projectRoot string, cfg *Config) error {
	configDir := filepath.Join(projectRoot, DefaultConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("config: creating %s: %w", configDir, err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshalling: %w", err)
	}

	header := []byte("# lsp2gxl configuration\n# Only set lsp.<name> if a server isn't on PATH under its default name.\n\n")
	data = append(header, data...)

	configPath := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("config: writing %s: %w", configPath, err)
	}
	return nil
}
