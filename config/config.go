// Package config assembles catscan's runtime configuration from defaults,
// an optional YAML file, and environment variables. Credentials come from
// the environment (or a .env file loaded by main), never from YAML.
package config

import (
	"fmt"
	"time"

	"github.com/zscaler-hero/catscan/zia"
)

// Environment variable names for the OAuth client credentials.
const (
	EnvIdentityBaseURL = "ZSCALER_IDENTITY_BASE_URL"
	EnvClientID        = "ZSCALER_CLIENT_ID"
	EnvClientSecret    = "ZSCALER_CLIENT_SECRET"
)

// Config is the top-level configuration.
type Config struct {
	Identity IdentityConfig `yaml:"identity"`
	API      APIConfig      `yaml:"api"`
	Lookup   LookupConfig   `yaml:"lookup"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// IdentityConfig holds the Zscaler Identity OAuth settings.
type IdentityConfig struct {
	BaseURL      string `yaml:"base_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// APIConfig holds the ZIA gateway settings.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// LookupConfig holds the classification pipeline settings. Durations are
// expressed in milliseconds.
type LookupConfig struct {
	MaxBatchSize      int `yaml:"max_batch_size"`
	MinCallIntervalMS int `yaml:"min_call_interval_ms"`
	MaxAttempts       int `yaml:"max_attempts"`
	BaseDelayMS       int `yaml:"base_delay_ms"`
	MaxDelayMS        int `yaml:"max_delay_ms"`
}

// MinCallInterval returns the pacing floor as a duration.
func (l LookupConfig) MinCallInterval() time.Duration {
	return time.Duration(l.MinCallIntervalMS) * time.Millisecond
}

// BaseDelay returns the initial retry backoff as a duration.
func (l LookupConfig) BaseDelay() time.Duration {
	return time.Duration(l.BaseDelayMS) * time.Millisecond
}

// MaxDelay returns the retry backoff cap as a duration.
func (l LookupConfig) MaxDelay() time.Duration {
	return time.Duration(l.MaxDelayMS) * time.Millisecond
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"` // csv, xlsx, json
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the configuration catscan ships with.
func Default() Config {
	return Config{
		API: APIConfig{BaseURL: zia.DefaultBaseURL},
		Lookup: LookupConfig{
			MaxBatchSize:      zia.MaxBatchSize,
			MinCallIntervalMS: 2000,
			MaxAttempts:       3,
			BaseDelayMS:       1000,
			MaxDelayMS:        30000,
		},
		Output: OutputConfig{
			Dir:     ".",
			Formats: []string{"csv"},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// ValidationError reports an invalid configuration value. Configuration
// errors are fatal: the run aborts before any API call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// Validate checks the assembled configuration and returns the first
// problem found.
func (c Config) Validate() error {
	if c.Identity.BaseURL == "" {
		return &ValidationError{"identity.base_url", "missing (set " + EnvIdentityBaseURL + ")"}
	}
	if c.Identity.ClientID == "" {
		return &ValidationError{"identity.client_id", "missing (set " + EnvClientID + ")"}
	}
	if c.Identity.ClientSecret == "" {
		return &ValidationError{"identity.client_secret", "missing (set " + EnvClientSecret + ")"}
	}
	if c.Lookup.MaxBatchSize < 1 {
		return &ValidationError{"lookup.max_batch_size", "must be at least 1"}
	}
	if c.Lookup.MaxBatchSize > zia.MaxBatchSize {
		return &ValidationError{"lookup.max_batch_size", fmt.Sprintf("must not exceed the endpoint cap of %d", zia.MaxBatchSize)}
	}
	if c.Lookup.MinCallIntervalMS <= 0 {
		return &ValidationError{"lookup.min_call_interval_ms", "must be positive"}
	}
	if c.Lookup.MaxAttempts < 1 {
		return &ValidationError{"lookup.max_attempts", "must be at least 1"}
	}
	if len(c.Output.Formats) == 0 {
		return &ValidationError{"output.formats", "at least one export format is required"}
	}
	for _, format := range c.Output.Formats {
		switch format {
		case "csv", "xlsx", "json":
		default:
			return &ValidationError{"output.formats", fmt.Sprintf("unknown format %q (want csv, xlsx, or json)", format)}
		}
	}
	return nil
}
