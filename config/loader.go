package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Load builds the effective configuration: defaults first, then the YAML
// file at path, then the credential environment variables. A missing file
// is an error only when it was explicitly requested. Environment variable
// references in the file are expanded before parsing.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !required:
		// Defaults plus environment only.
	default:
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv fills credentials from the environment. Environment values win
// over file values: credentials belong in the environment or .env, and a
// YAML override would be a foot-gun for shared config files.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvIdentityBaseURL); v != "" {
		c.Identity.BaseURL = v
	}
	if v := os.Getenv(EnvClientID); v != "" {
		c.Identity.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		c.Identity.ClientSecret = v
	}
}
