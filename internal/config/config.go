package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	// TokenUnitRate is the flat per-token dollar rate used for monetary
	// estimates on ICE-tracked entities. Pricing moves; keep it here
	// instead of in code.
	TokenUnitRate float64 `json:"token_unit_rate,omitempty"`

	// InputRatePer1K / OutputRatePer1K price logged token sessions per
	// thousand input/output tokens.
	InputRatePer1K  float64 `json:"input_rate_per_1k,omitempty"`
	OutputRatePer1K float64 `json:"output_rate_per_1k,omitempty"`

	// RemoteBaseURL is the base location of the read-only remote JSON
	// documents (ideas.json, experiments.json, tokens.json,
	// feedback.json, marketing.json). Empty disables the remote source.
	RemoteBaseURL string `json:"remote_base_url,omitempty"`

	// PollIntervalSeconds is the remote refresh cadence. Defaults to 60.
	PollIntervalSeconds int `json:"poll_interval_seconds,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database
	// connections. If set to 1, all database access is serialized.
	// 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database
	// connections. 0 means use sql.DB default.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration. The pricing defaults
// mirror the rates the board has historically assumed.
func DefaultConfig() *Config {
	return &Config{
		TokenUnitRate:       0.00002,
		InputRatePer1K:      0.003,
		OutputRatePer1K:     0.015,
		PollIntervalSeconds: 60,
	}
}

// PollInterval returns the remote refresh cadence as a duration.
func (c *Config) PollInterval() time.Duration {
	secs := c.PollIntervalSeconds
	if secs <= 0 {
		secs = 60
	}
	return time.Duration(secs) * time.Second
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.planboard.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
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

	result.TokenUnitRate = overlay.TokenUnitRate
	if result.TokenUnitRate == 0 {
		result.TokenUnitRate = base.TokenUnitRate
	}

	result.InputRatePer1K = overlay.InputRatePer1K
	if result.InputRatePer1K == 0 {
		result.InputRatePer1K = base.InputRatePer1K
	}

	result.OutputRatePer1K = overlay.OutputRatePer1K
	if result.OutputRatePer1K == 0 {
		result.OutputRatePer1K = base.OutputRatePer1K
	}

	result.RemoteBaseURL = overlay.RemoteBaseURL
	if result.RemoteBaseURL == "" {
		result.RemoteBaseURL = base.RemoteBaseURL
	}

	result.PollIntervalSeconds = overlay.PollIntervalSeconds
	if result.PollIntervalSeconds == 0 {
		result.PollIntervalSeconds = base.PollIntervalSeconds
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
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
