package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Config represents the metamark CLI configuration
type Config struct {
	// Workspace is the directory scanned for .mmk documents
	Workspace string `json:"workspace"`
	// LogFile receives structured logs from CLI runs
	LogFile string `json:"log_file"`
	// Extension is the document file extension the workspace commands
	// look for
	Extension string `json:"extension,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Workspace: filepath.Join(home, "Documents", "metamark"),
		LogFile:   "/tmp/metamark.log",
		Extension: ".mmk",
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "metamark", "config.json")
	}
	return filepath.Join(home, ".config", "metamark", "config.json")
}

// StorePath returns the directory where JSON document envelopes are kept
// Uses platform-specific XDG data directory
// Can be overridden for testing
var StorePath = func() string {
	return filepath.Join(xdg.DataHome, "metamark", "store")
}

// Load reads configuration from the XDG config directory
func Load() (*Config, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the XDG config directory
func (c *Config) Save() error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration for missing or invalid fields
func (c *Config) Validate() error {
	if c.Workspace == "" {
		return fmt.Errorf("workspace must not be empty")
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file must not be empty")
	}
	if c.Extension == "" || c.Extension[0] != '.' {
		return fmt.Errorf("extension must start with a dot, got %q", c.Extension)
	}
	return nil
}
