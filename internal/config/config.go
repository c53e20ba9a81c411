// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the enricher configuration that can be loaded from a JSON
// file and overridden by environment variables. All fields are optional;
// missing values use defaults or must be provided via CLI flags.
type Config struct {
	// External credentials
	GitHubToken    string `json:"github_token,omitempty"`     // GitHub API token (raises rate limits)
	GoogleAPIKey   string `json:"google_api_key,omitempty"`   // Custom Search API key
	SearchEngineID string `json:"search_engine_id,omitempty"` // Custom Search engine ID
	DatabaseURL    string `json:"database_url,omitempty"`     // PostgreSQL connection URL

	// Orchestration
	TimeoutSeconds              int `json:"timeout_seconds,omitempty"`               // Overall fetch timeout
	ExperienceConflictThreshold int `json:"experience_conflict_threshold,omitempty"` // Max experience-count delta before rollback

	// Cache
	CacheCapacity      int `json:"cache_capacity,omitempty"`        // In-memory entry cap
	CacheTTLSeconds    int `json:"cache_ttl_seconds,omitempty"`     // Entry time to live
	CacheMaxEntryBytes int `json:"cache_max_entry_bytes,omitempty"` // Per-entry size guard

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser for SPA profile pages
	Verbose    bool `json:"verbose,omitempty"`     // Debug-level logging
	JSONLogs   bool `json:"json_logs,omitempty"`   // Structured JSON log output
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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

// LoadEnv overlays environment variables onto the config. A .env file in the
// working directory is loaded first when present; real environment variables
// win over it.
func (c *Config) LoadEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.GitHubToken = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.GoogleAPIKey = v
	}
	if v := os.Getenv("SEARCH_ENGINE_ID"); v != "" {
		c.SearchEngineID = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("FETCH_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheTTLSeconds = n
		}
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.ExperienceConflictThreshold < 0 {
		return fmt.Errorf("config error: 'experience_conflict_threshold' must be non-negative")
	}
	if c.CacheCapacity < 0 {
		return fmt.Errorf("config error: 'cache_capacity' must be non-negative")
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("config error: 'cache_ttl_seconds' must be non-negative")
	}
	if c.CacheMaxEntryBytes < 0 {
		return fmt.Errorf("config error: 'cache_max_entry_bytes' must be non-negative")
	}
	if c.GoogleAPIKey != "" && c.SearchEngineID == "" {
		return fmt.Errorf("config error: 'search_engine_id' is required when 'google_api_key' is set")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.GitHubToken == "" {
		result.GitHubToken = defaults.GitHubToken
	}
	if result.GoogleAPIKey == "" {
		result.GoogleAPIKey = defaults.GoogleAPIKey
	}
	if result.SearchEngineID == "" {
		result.SearchEngineID = defaults.SearchEngineID
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.ExperienceConflictThreshold == 0 {
		result.ExperienceConflictThreshold = defaults.ExperienceConflictThreshold
	}
	if result.CacheCapacity == 0 {
		result.CacheCapacity = defaults.CacheCapacity
	}
	if result.CacheTTLSeconds == 0 {
		result.CacheTTLSeconds = defaults.CacheTTLSeconds
	}
	if result.CacheMaxEntryBytes == 0 {
		result.CacheMaxEntryBytes = defaults.CacheMaxEntryBytes
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Timeout returns the configured fetch timeout, or zero when unset so callers
// fall back to their own default.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns the configured cache TTL, or zero when unset.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
