// Package workflow provides definition loading, execution, and orchestration
// of data-report workflows.
package workflow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reportflow/reportflow/internal/mod"
	"github.com/reportflow/reportflow/internal/policy"
)

// ModuleRef is one entry in a workflow definition
type ModuleRef struct {
	Module string `yaml:"module"`
	Config string `yaml:"config"`

	// Required defaults to true when omitted
	Required *bool `yaml:"required"`

	DependencyPolicy *policy.Spec `yaml:"dependencyPolicy"`
}

// IsRequired reports whether a failing module halts the whole run
func (r *ModuleRef) IsRequired() bool {
	return r.Required == nil || *r.Required
}

// Definition is a named, ordered list of module references. It is loaded
// once per workflow and immutable for the run.
type Definition struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Modules     []ModuleRef `yaml:"modules"`
}

// LoadDefinition reads and structurally validates a workflow definition file
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse workflow file: %w", err)
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workflow definition %s: %w", path, err)
	}

	return &def, nil
}

// Validate checks the definition's structure: a name, a non-empty module
// list, and a schema-valid dependency-policy spec per entry.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("workflow name is required")
	}
	if len(d.Modules) == 0 {
		return fmt.Errorf("workflow must declare at least one module")
	}

	for i, ref := range d.Modules {
		if ref.Module == "" {
			return fmt.Errorf("module entry %d has no module name", i)
		}
		if err := policy.ValidateSpec(ref.DependencyPolicy); err != nil {
			return fmt.Errorf("module %s: %w", ref.Module, err)
		}
	}

	return nil
}

// ModuleNames returns the names of every module appearing in the definition
func (d *Definition) ModuleNames() []string {
	names := make([]string, 0, len(d.Modules))
	for _, ref := range d.Modules {
		names = append(names, ref.Module)
	}
	return names
}

// RunStatus is the overall outcome of a workflow run
type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
)

// ExecutionContext summarizes the executor's cache state after a run
type ExecutionContext struct {
	CachedModules int
	TotalModules  int
}

// ExecutionResult aggregates a whole workflow run
type ExecutionResult struct {
	ExecutionID string
	Workflow    string
	Status      RunStatus
	Message     string
	Results     map[string]*mod.Result
	Context     ExecutionContext
}

// Succeeded reports whether the run completed without a halting failure
func (r *ExecutionResult) Succeeded() bool {
	return r.Status == RunSuccess
}
