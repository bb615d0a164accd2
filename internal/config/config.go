package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings for the Redline CLI and MCP server.
type Config struct {
	// Listen is the transport bind address. Port 0 picks an ephemeral port.
	Listen string `yaml:"listen"`

	// Timeout bounds how long a review may stay pending. Zero disables it.
	Timeout time.Duration `yaml:"timeout"`

	// OpenBrowser controls whether the review URL is opened automatically.
	OpenBrowser bool `yaml:"open_browser"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// UnmarshalYAML decodes the config, accepting Go duration strings ("90s",
// "5m") for the timeout field.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Listen      *string `yaml:"listen"`
		Timeout     *string `yaml:"timeout"`
		OpenBrowser *bool   `yaml:"open_browser"`
		LogLevel    *string `yaml:"log_level"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.Listen != nil {
		c.Listen = *raw.Listen
	}
	if raw.OpenBrowser != nil {
		c.OpenBrowser = *raw.OpenBrowser
	}
	if raw.LogLevel != nil {
		c.LogLevel = *raw.LogLevel
	}
	if raw.Timeout != nil {
		d, err := time.ParseDuration(*raw.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", *raw.Timeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// Default returns the settings used when no config file is present.
func Default() Config {
	return Config{
		Listen:      "127.0.0.1:0",
		OpenBrowser: true,
		LogLevel:    "info",
	}
}

// Load reads a YAML config file, layering it over the defaults.
// A missing path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
