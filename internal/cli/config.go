package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents ~/.sqlast.yaml.
type Config struct {
	Output   string   `yaml:"output,omitempty"`
	LogLevel string   `yaml:"log_level,omitempty"`
	Dialects []string `yaml:"dialects,omitempty"`
}

// DefaultConfig returns the settings used when nothing else is set.
func DefaultConfig() Config {
	return Config{
		Output:   "text",
		LogLevel: "warn",
		Dialects: []string{"sqlite", "clickhouse"},
	}
}

// ConfigPath returns the path to ~/.sqlast.yaml.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sqlast.yaml")
}

// LoadConfig reads the config file at path. A missing file yields an empty
// config unless required is set.
func LoadConfig(path string, required bool) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
