package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration.
//
// The capacity and timing values mirror the extension's observed behavior and
// are deliberately configurable rather than hard-coded.
type Config struct {
	// FeedCapacity bounds the transient (not persisted) feed collection.
	FeedCapacity int `json:"feed_capacity" envconfig:"FEED_CAPACITY"`

	// SavedCapacity bounds the persisted saved-posts collection.
	SavedCapacity int `json:"saved_capacity" envconfig:"SAVED_CAPACITY"`

	// ProcessTimeoutSecs is the ceiling on total processing time for a single
	// saveCreative request. Work in flight past the deadline still completes;
	// only the response turns into a timeout error.
	ProcessTimeoutSecs int `json:"process_timeout_secs" envconfig:"PROCESS_TIMEOUT_SECS"`

	// DownloadCooldownMs is the minimum interval between screenshot
	// captures/downloads.
	DownloadCooldownMs int `json:"download_cooldown_ms" envconfig:"DOWNLOAD_COOLDOWN_MS"`

	// Bind and Port configure the WebSocket/HTTP listener for extension
	// surfaces and the saved-posts page.
	Bind string `json:"bind,omitempty" envconfig:"BIND"`
	Port int    `json:"port,omitempty" envconfig:"PORT"`

	// IdeasURL is the endpoint for the auxiliary ideas fetch. Empty disables
	// the ideas client entirely.
	IdeasURL string `json:"ideas_url,omitempty" envconfig:"IDEAS_URL"`

	// SessionDomain is the site whose session establishes login status.
	SessionDomain string `json:"session_domain,omitempty" envconfig:"SESSION_DOMAIN"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty" envconfig:"DISABLED_TOOLS"`

	// DBMaxOpenConns limits open database connections. If set to 1, all
	// database access is serialized. 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty" envconfig:"DB_MAX_OPEN_CONNS"`

	// DBMaxIdleConns limits idle database connections. 0 means default.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty" envconfig:"DB_MAX_IDLE_CONNS"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		FeedCapacity:       50,
		SavedCapacity:      100,
		ProcessTimeoutSecs: 25,
		DownloadCooldownMs: 1000,
		Bind:               "127.0.0.1",
		Port:               7439,
		SessionDomain:      "www.hawky.xyz",
	}
}

// Load loads configuration from baseDir/config.json, merges it over the
// defaults, and finally applies HAWKD_* environment overrides.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.hawkd.
func Load(baseDir string) (*Config, error) {
	file, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}

	cfg := Merge(DefaultConfig(), file)
	if err := envconfig.Process("hawkd", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.FeedCapacity = pickInt(base.FeedCapacity, overlay.FeedCapacity)
	result.SavedCapacity = pickInt(base.SavedCapacity, overlay.SavedCapacity)
	result.ProcessTimeoutSecs = pickInt(base.ProcessTimeoutSecs, overlay.ProcessTimeoutSecs)
	result.DownloadCooldownMs = pickInt(base.DownloadCooldownMs, overlay.DownloadCooldownMs)
	result.Port = pickInt(base.Port, overlay.Port)
	result.DBMaxOpenConns = pickInt(base.DBMaxOpenConns, overlay.DBMaxOpenConns)
	result.DBMaxIdleConns = pickInt(base.DBMaxIdleConns, overlay.DBMaxIdleConns)

	result.Bind = pickString(base.Bind, overlay.Bind)
	result.IdeasURL = pickString(base.IdeasURL, overlay.IdeasURL)
	result.SessionDomain = pickString(base.SessionDomain, overlay.SessionDomain)

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func pickInt(base, overlay int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

func pickString(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
