package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/reportflow/reportflow/internal/mod"
	"github.com/reportflow/reportflow/internal/utils"
)

// Orchestrator discovers workflow definitions from a directory and lazily
// creates one executor per workflow, so repeated executions of the same
// workflow reuse its result cache.
type Orchestrator struct {
	registry    *mod.Registry
	definitions map[string]*Definition
	executors   map[string]*Executor
}

// NewOrchestrator discovers workflow definitions under dir. A malformed
// definition is skipped with a logged error; discovery of the others
// proceeds.
func NewOrchestrator(dir string, registry *mod.Registry) (*Orchestrator, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflows directory %s: %w", dir, err)
	}

	o := &Orchestrator{
		registry:    registry,
		definitions: make(map[string]*Definition),
		executors:   make(map[string]*Executor),
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		def, err := LoadDefinition(path)
		if err != nil {
			utils.LogError("Skipping malformed workflow %s: %v", entry.Name(), err)
			continue
		}

		if _, exists := o.definitions[def.Name]; exists {
			utils.LogError("Skipping workflow %s: name %s already defined", entry.Name(), def.Name)
			continue
		}

		o.definitions[def.Name] = def
		utils.LogVerbose("Discovered workflow %s (%d modules)", def.Name, len(def.Modules))
	}

	return o, nil
}

// Workflows returns the sorted names of all discovered workflows
func (o *Orchestrator) Workflows() []string {
	names := make([]string, 0, len(o.definitions))
	for name := range o.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Executor returns the lazily created executor for a workflow name
func (o *Orchestrator) Executor(name string) (*Executor, error) {
	if exec, ok := o.executors[name]; ok {
		return exec, nil
	}

	def, ok := o.definitions[name]
	if !ok {
		return nil, fmt.Errorf("workflow %s not found", name)
	}

	exec := NewExecutor(def, o.registry)
	o.executors[name] = exec
	return exec, nil
}

// Execute runs a single workflow by name
func (o *Orchestrator) Execute(ctx context.Context, name string) (*ExecutionResult, error) {
	exec, err := o.Executor(name)
	if err != nil {
		return nil, err
	}
	return exec.Execute(ctx), nil
}

// ExecuteChain runs workflows sequentially in the given order. When
// stopOnFailure is set, the chain halts at the first failed workflow; the
// results gathered so far are returned either way. Each workflow keeps its
// own independent result cache.
func (o *Orchestrator) ExecuteChain(ctx context.Context, names []string, stopOnFailure bool) ([]*ExecutionResult, error) {
	results := make([]*ExecutionResult, 0, len(names))

	for _, name := range names {
		result, err := o.Execute(ctx, name)
		if err != nil {
			return results, fmt.Errorf("chain halted at workflow %s: %w", name, err)
		}
		results = append(results, result)

		if !result.Succeeded() && stopOnFailure {
			utils.LogWarning("Chain stopping at failed workflow %s", name)
			return results, nil
		}
	}

	return results, nil
}

// CachedModules returns the cached module names for a workflow, or nil when
// the workflow has no executor yet
func (o *Orchestrator) CachedModules(name string) []string {
	if exec, ok := o.executors[name]; ok {
		return exec.CachedModules()
	}
	return nil
}

// ClearCache invalidates the result cache of one workflow
func (o *Orchestrator) ClearCache(name string) {
	if exec, ok := o.executors[name]; ok {
		exec.ClearCache()
		utils.LogInfo("Cleared cache for workflow %s", name)
	}
}

// ClearAllCaches invalidates every workflow's result cache
func (o *Orchestrator) ClearAllCaches() {
	for name, exec := range o.executors {
		exec.ClearCache()
		utils.LogVerbose("Cleared cache for workflow %s", name)
	}
}
