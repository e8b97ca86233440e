// Package config loads the optional on-disk defaults file consulted by
// cmd/jjryu before CLI flags and environment variables are applied.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of ~/.config/jj-ryu/config.yml. Every
// field is a default that a CLI flag or environment variable may
// override; nothing here is read by any core package directly.
type Config struct {
	// Remote is the default remote name to push to and classify, used
	// when --remote isn't given.
	Remote string `yaml:"remote"`

	// GitHubHost overrides the public github.com host, for GitHub
	// Enterprise.
	GitHubHost string `yaml:"githubHost"`

	// GitLabHost overrides the public gitlab.com host, for a
	// self-managed GitLab instance.
	GitLabHost string `yaml:"gitlabHost"`
}

// Path returns the default config file path, honoring $XDG_CONFIG_HOME
// when set.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "jj-ryu", "config.yml"), nil
}

// Load reads the config file at path. A missing file is not an error;
// it returns the zero Config, so every field falls back to its CLI
// default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}
