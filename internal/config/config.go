// Package config loads process configuration for the admin server.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Load reads the server configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ProfilesPath returns the location of the profile document.
func (c *Config) ProfilesPath() string {
	return filepath.Join(c.DataDir, ProfilesFile)
}

// LoadDefaultProfileEnv takes a fresh snapshot of the default-profile
// variables. It is called on every repository load so edits to the process
// environment are picked up live.
func LoadDefaultProfileEnv() (DefaultProfileEnv, error) {
	var e DefaultProfileEnv
	if err := env.Parse(&e); err != nil {
		return DefaultProfileEnv{}, fmt.Errorf("parse default profile env: %w", err)
	}
	return e, nil
}
