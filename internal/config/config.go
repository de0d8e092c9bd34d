// Package config loads and validates the YAML configuration file.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"prreporter/internal/domain"
)

// Config is the parsed configuration file.
type Config struct {
	GitHub GitHub `yaml:"github"`
}

// GitHub holds the GitHub-specific settings.
type GitHub struct {
	Org       string   `yaml:"org"`
	AuthToken string   `yaml:"auth_token"`
	Repos     []string `yaml:"repos"`
	URL       string   `yaml:"url"` // optional API base URL, e.g. for GitHub Enterprise
}

// Load reads the configuration file at path and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigMalformed, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.GitHub.Org == "" {
		missing = append(missing, "github.org")
	}
	if c.GitHub.AuthToken == "" {
		missing = append(missing, "github.auth_token")
	}
	if len(c.GitHub.Repos) == 0 {
		missing = append(missing, "github.repos")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrConfigMissingField, strings.Join(missing, ", "))
	}
	return nil
}
