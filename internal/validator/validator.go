// Package validator performs preflight checks on the runtime environment
// before workflows are discovered and executed.
package validator

import (
	"fmt"
	"os"

	"github.com/reportflow/reportflow/internal/utils"
)

// EnvVar describes an environment variable check
type EnvVar struct {
	Name     string
	Required bool
	Validate func(value string) error
}

// envVars lists the environment variables reportflow honors. None are
// required; set values must still be well-formed.
var envVars = []EnvVar{
	{
		Name: "REPORTFLOW_LOG_LEVEL",
		Validate: func(value string) error {
			switch value {
			case "quiet", "normal", "verbose", "debug":
				return nil
			}
			return fmt.Errorf("unknown log level %q", value)
		},
	},
	{
		Name: "REPORTFLOW_WORKSPACE",
		Validate: func(value string) error {
			info, err := os.Stat(value)
			if err != nil {
				return fmt.Errorf("workspace directory not accessible: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("workspace path %s is not a directory", value)
			}
			return nil
		},
	},
}

// ValidateEnvVars checks that every recognized environment variable that is
// set carries a usable value
func ValidateEnvVars() error {
	for _, v := range envVars {
		value := os.Getenv(v.Name)
		if value == "" {
			if v.Required {
				return fmt.Errorf("environment variable %s not set", v.Name)
			}
			continue
		}
		if v.Validate != nil {
			if err := v.Validate(value); err != nil {
				return fmt.Errorf("environment variable %s: %w", v.Name, err)
			}
		}

		// Don't print the actual value for security
		utils.LogVerbose("✓ %s is set", v.Name)
	}

	return nil
}

// ValidateDirectories checks that the workflow and module config
// directories exist and are readable
func ValidateDirectories(workflowsDir, configsDir string) error {
	for _, dir := range []string{workflowsDir, configsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("directory %s not accessible: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
		utils.LogVerbose("✓ %s found", dir)
	}

	return nil
}
