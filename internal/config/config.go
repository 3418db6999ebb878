// Package config loads plugdex configuration from YAML with sensible
// defaults. CLI flags override file settings; the GitHub token comes from
// the environment (a .env file is honored), never from the config file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where configuration is looked up when no --config flag is
// given.
const DefaultPath = ".plugdex/config.yaml"

// tokenEnvVar names the environment variable holding the GitHub API token.
const tokenEnvVar = "GITHUB_TOKEN"

// CacheConfig controls the SQLite repository-metadata cache.
type CacheConfig struct {
	// Enabled turns on the read-through metadata cache
	Enabled bool `yaml:"enabled"`

	// DBPath is the SQLite database location
	DBPath string `yaml:"db_path"`

	// TTL is how long a cached entry stays fresh
	TTL time.Duration `yaml:"-"`
}

// Config holds all regeneration settings.
type Config struct {
	// ReadmePath is the document that is both read and rewritten
	ReadmePath string `yaml:"readme_path"`

	// Marker is the disclosure widget summary label that identifies the
	// embedded list
	Marker string `yaml:"marker"`

	// DescriptionLength is the maximum rendered description width
	DescriptionLength int `yaml:"description_length"`

	// DocsDir is where downloaded documentation pages are cached
	DocsDir string `yaml:"docs_dir"`

	// MaxConcurrency bounds concurrent enrichment fetches (0 = unlimited)
	MaxConcurrency int `yaml:"max_concurrency"`

	// HTTPTimeout is the per-request timeout for GitHub calls
	HTTPTimeout time.Duration `yaml:"-"`

	// LogLevel sets logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Cache configures the metadata cache
	Cache CacheConfig `yaml:"cache"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		ReadmePath:        "README.md",
		Marker:            "All Plugins",
		DescriptionLength: 80,
		DocsDir:           ".plugdex/docs",
		MaxConcurrency:    4,
		HTTPTimeout:       5 * time.Second,
		LogLevel:          "info",
		Cache: CacheConfig{
			Enabled: false,
			DBPath:  ".plugdex/cache.db",
			TTL:     24 * time.Hour,
		},
	}
}

// LoadConfig loads configuration from path, layered over defaults. A
// missing file returns the defaults without error; a malformed file is an
// error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Durations arrive as strings ("5s", "24h") and need explicit parsing.
	type yamlCache struct {
		Enabled bool   `yaml:"enabled"`
		DBPath  string `yaml:"db_path"`
		TTL     string `yaml:"ttl"`
	}
	type yamlConfig struct {
		ReadmePath        string    `yaml:"readme_path"`
		Marker            string    `yaml:"marker"`
		DescriptionLength int       `yaml:"description_length"`
		DocsDir           string    `yaml:"docs_dir"`
		MaxConcurrency    *int      `yaml:"max_concurrency"`
		HTTPTimeout       string    `yaml:"http_timeout"`
		LogLevel          string    `yaml:"log_level"`
		Cache             yamlCache `yaml:"cache"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if yamlCfg.ReadmePath != "" {
		cfg.ReadmePath = yamlCfg.ReadmePath
	}
	if yamlCfg.Marker != "" {
		cfg.Marker = yamlCfg.Marker
	}
	if yamlCfg.DescriptionLength > 0 {
		cfg.DescriptionLength = yamlCfg.DescriptionLength
	}
	if yamlCfg.DocsDir != "" {
		cfg.DocsDir = yamlCfg.DocsDir
	}
	if yamlCfg.MaxConcurrency != nil {
		cfg.MaxConcurrency = *yamlCfg.MaxConcurrency
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.HTTPTimeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.HTTPTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse http_timeout: %w", err)
		}
		cfg.HTTPTimeout = timeout
	}

	cfg.Cache.Enabled = yamlCfg.Cache.Enabled
	if yamlCfg.Cache.DBPath != "" {
		cfg.Cache.DBPath = yamlCfg.Cache.DBPath
	}
	if yamlCfg.Cache.TTL != "" {
		ttl, err := time.ParseDuration(yamlCfg.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("parse cache.ttl: %w", err)
		}
		cfg.Cache.TTL = ttl
	}

	return cfg, nil
}

// GitHubToken returns the API token from the environment. A .env file in
// the working directory is loaded first when present; a missing .env is not
// an error. An empty result means unauthenticated requests.
func GitHubToken() string {
	_ = godotenv.Load()
	return os.Getenv(tokenEnvVar)
}
