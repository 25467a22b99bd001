// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Default values applied by MergeWithDefaults.
const (
	DefaultContent          = "content.json"
	DefaultMarkup           = "index.html"
	DefaultAddr             = ":8888"
	DefaultPreviewCacheSize = 32
	DefaultRateLimitPerMin  = 30
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values come from the environment, defaults or CLI flags.
type Config struct {
	// Paths
	Content string `json:"content,omitempty"` // Content document (.json, .yaml or .yml)
	Markup  string `json:"markup,omitempty"`  // Rendered page
	Schema  string `json:"schema,omitempty"`  // JSON Schema override for validate

	// Rendering
	Year int `json:"year,omitempty"` // Copyright year; zero means the current year

	// Server
	Addr             string `json:"addr,omitempty"`               // Listen address
	AllowedOrigin    string `json:"allowed_origin,omitempty"`     // CORS origin for the admin UI
	PreviewCacheSize int    `json:"preview_cache_size,omitempty"` // Rendered previews kept in memory
	RateLimitPerMin  int    `json:"rate_limit_per_min,omitempty"` // Admin requests per client per minute

	// Persistence
	GitHubRepo   string `json:"github_repo,omitempty"`   // owner/name holding the site
	GitHubToken  string `json:"github_token,omitempty"`  // API token with contents write access
	GitHubBranch string `json:"github_branch,omitempty"` // Branch to commit to; empty for the default branch
	DatabaseURL  string `json:"database_url,omitempty"`  // PostgreSQL URL for the revision log

	Verbose bool `json:"verbose,omitempty"` // Print detailed progress
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the settings that are normally supplied by the environment.
func FromEnv() Config {
	cfg := Config{
		GitHubRepo:    os.Getenv("GITHUB_REPO"),
		GitHubToken:   os.Getenv("GITHUB_TOKEN"),
		GitHubBranch:  os.Getenv("GITHUB_BRANCH"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if size, err := strconv.Atoi(os.Getenv("PREVIEW_CACHE_SIZE")); err == nil {
		cfg.PreviewCacheSize = size
	}
	return cfg
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those depend on the command.
func (c *Config) Validate() error {
	if c.Year < 0 {
		return fmt.Errorf("config error: 'year' must be non-negative")
	}
	if c.PreviewCacheSize < 0 {
		return fmt.Errorf("config error: 'preview_cache_size' must be non-negative")
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("config error: 'rate_limit_per_min' must be non-negative")
	}

	if c.Schema != "" {
		if _, err := os.Stat(c.Schema); os.IsNotExist(err) {
			return fmt.Errorf("config error: schema file not found: %s", c.Schema)
		}
	}

	return nil
}

// RequireGitHub checks the settings the admin persistence handlers need.
func (c *Config) RequireGitHub() error {
	if c.GitHubRepo == "" {
		return fmt.Errorf("config error: GITHUB_REPO is required")
	}
	if c.GitHubToken == "" {
		return fmt.Errorf("config error: GITHUB_TOKEN is required")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer file, environment and built-in values under CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Content == "" {
		result.Content = defaults.Content
	}
	if result.Markup == "" {
		result.Markup = defaults.Markup
	}
	if result.Schema == "" {
		result.Schema = defaults.Schema
	}
	if result.Addr == "" {
		result.Addr = defaults.Addr
	}
	if result.AllowedOrigin == "" {
		result.AllowedOrigin = defaults.AllowedOrigin
	}
	if result.GitHubRepo == "" {
		result.GitHubRepo = defaults.GitHubRepo
	}
	if result.GitHubToken == "" {
		result.GitHubToken = defaults.GitHubToken
	}
	if result.GitHubBranch == "" {
		result.GitHubBranch = defaults.GitHubBranch
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.Year == 0 {
		result.Year = defaults.Year
	}
	if result.PreviewCacheSize == 0 {
		result.PreviewCacheSize = defaults.PreviewCacheSize
	}
	if result.RateLimitPerMin == 0 {
		result.RateLimitPerMin = defaults.RateLimitPerMin
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Content:          DefaultContent,
		Markup:           DefaultMarkup,
		Addr:             DefaultAddr,
		PreviewCacheSize: DefaultPreviewCacheSize,
		RateLimitPerMin:  DefaultRateLimitPerMin,
	}
}
