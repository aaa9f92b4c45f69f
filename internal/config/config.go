// Package config provides configuration file loading for modules and workflows
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a YAML configuration file into target. An empty path is an
// error: modules are always constructed against an explicit config file.
func LoadYAML(path string, target interface{}) error {
	if path == "" {
		return fmt.Errorf("config path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}
