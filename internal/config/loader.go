package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// appName is the directory name used under the XDG config home.
const appName = "torsetup"

// DefaultConfigPath returns the well-known user config location
// (~/.config/torsetup/config.yaml on Linux).
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// LoadConfig loads configuration with the following layering:
//  1. Built-in defaults
//  2. User config file overlaid on top, if one exists
//
// An explicit path that cannot be read is an error. The default XDG location
// is optional and silently skipped when the file is absent.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Unmarshalling into the populated struct keeps defaults for any field
	// the file leaves out.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}

	return cfg, nil
}
