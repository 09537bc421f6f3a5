package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Workspace == "" {
		t.Error("Expected Workspace to be set")
	}
	if cfg.LogFile == "" {
		t.Error("Expected LogFile to be set")
	}
	if cfg.Extension != ".mmk" {
		t.Errorf("Expected Extension to be .mmk, got %q", cfg.Extension)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "empty workspace",
			config: &Config{
				Workspace: "",
				LogFile:   "/tmp/test.log",
				Extension: ".mmk",
			},
			wantErr: true,
		},
		{
			name: "empty log file",
			config: &Config{
				Workspace: "/docs",
				LogFile:   "",
				Extension: ".mmk",
			},
			wantErr: true,
		},
		{
			name: "extension without dot",
			config: &Config{
				Workspace: "/docs",
				LogFile:   "/tmp/test.log",
				Extension: "mmk",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	orig := ConfigPath
	ConfigPath = func() string {
		return filepath.Join(t.TempDir(), "nope", "config.json")
	}
	defer func() { ConfigPath = orig }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Extension != ".mmk" {
		t.Errorf("Expected default extension, got %q", cfg.Extension)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	orig := ConfigPath
	ConfigPath = func() string {
		return filepath.Join(dir, "config.json")
	}
	defer func() { ConfigPath = orig }()

	cfg := &Config{
		Workspace: "/docs/metamark",
		LogFile:   "/tmp/mm.log",
		Extension: ".meta",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Workspace != cfg.Workspace {
		t.Errorf("Expected workspace %q, got %q", cfg.Workspace, loaded.Workspace)
	}
	if loaded.Extension != ".meta" {
		t.Errorf("Expected extension .meta, got %q", loaded.Extension)
	}
}

func TestLoadInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	orig := ConfigPath
	ConfigPath = func() string {
		return filepath.Join(dir, "config.json")
	}
	defer func() { ConfigPath = orig }()

	bad := []byte(`{"workspace": "", "log_file": "/tmp/x.log"}`)
	if err := os.WriteFile(ConfigPath(), bad, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected validation error for empty workspace")
	}
}
