package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ReadmePath != "README.md" {
		t.Errorf("Expected README.md, got %q", cfg.ReadmePath)
	}
	if cfg.Marker != "All Plugins" {
		t.Errorf("Expected 'All Plugins' marker, got %q", cfg.Marker)
	}
	if cfg.DescriptionLength != 80 {
		t.Errorf("Expected description length 80, got %d", cfg.DescriptionLength)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.Cache.Enabled {
		t.Error("Expected cache disabled by default")
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got error: %v", err)
	}
	if cfg.Marker != "All Plugins" {
		t.Errorf("Expected default marker, got %q", cfg.Marker)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	content := `readme_path: docs/README.md
marker: Every Plugin
description_length: 60
docs_dir: /tmp/docs
max_concurrency: 0
http_timeout: 30s
log_level: debug
cache:
  enabled: true
  db_path: /tmp/cache.db
  ttl: 1h
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.ReadmePath != "docs/README.md" {
		t.Errorf("Expected overridden readme path, got %q", cfg.ReadmePath)
	}
	if cfg.Marker != "Every Plugin" {
		t.Errorf("Expected overridden marker, got %q", cfg.Marker)
	}
	if cfg.DescriptionLength != 60 {
		t.Errorf("Expected description length 60, got %d", cfg.DescriptionLength)
	}
	if cfg.MaxConcurrency != 0 {
		t.Errorf("Expected max concurrency 0, got %d", cfg.MaxConcurrency)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.HTTPTimeout)
	}
	if !cfg.Cache.Enabled {
		t.Error("Expected cache enabled")
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("Expected 1h cache TTL, got %v", cfg.Cache.TTL)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: warn\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected warn, got %q", cfg.LogLevel)
	}
	if cfg.ReadmePath != "README.md" {
		t.Errorf("Expected default readme path, got %q", cfg.ReadmePath)
	}
	if cfg.MaxConcurrency != 4 {
		t.Errorf("Expected default max concurrency, got %d", cfg.MaxConcurrency)
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("readme_path: [not: valid\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestLoadConfigBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http_timeout: soon\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for unparseable duration")
	}
}

func TestGitHubTokenFromEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "test-token")
	if got := GitHubToken(); got != "test-token" {
		t.Errorf("Expected token from environment, got %q", got)
	}
}
