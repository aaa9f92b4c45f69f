// Package depgraph resolves module dependency ordering over the registry
package depgraph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/reportflow/reportflow/internal/mod"
	"github.com/reportflow/reportflow/internal/utils"
)

// CircularError reports a dependency cycle discovered during traversal.
// Path holds the exact chain from the traversal root through the repeated
// module.
type CircularError struct {
	Path []string
}

func (e *CircularError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Path, " -> "))
}

// Graph resolves execution ordering for modules and their transitive
// dependencies. Each visited module is constructed from the registry purely
// to read its declared dependencies; construction failures abort traversal.
type Graph struct {
	registry *mod.Registry
}

// New creates a dependency graph over the given registry
func New(registry *mod.Registry) *Graph {
	return &Graph{registry: registry}
}

// ExecutionOrder returns the module and its transitive dependencies in a
// valid execution order: every dependency of a module appears strictly
// before the module itself, with no duplicates.
func (g *Graph) ExecutionOrder(moduleName string) ([]string, error) {
	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	order := make([]string, 0)
	path := make([]string, 0)

	var visit func(name string) error
	visit = func(name string) error {
		if onPath[name] {
			return &CircularError{Path: append(append([]string{}, path...), name)}
		}
		if visited[name] {
			return nil
		}

		if !g.registry.Has(name) {
			// Unregistered modules are dead ends, not errors: a partially
			// configured system can still order the modules it knows about.
			utils.LogVerbose("Module %s is not registered; treating as a dead end", name)
			return nil
		}

		module, err := g.registry.New(name, "")
		if err != nil {
			return fmt.Errorf("failed to inspect dependencies of module %s: %w", name, err)
		}

		onPath[name] = true
		path = append(path, name)

		deps := module.Dependencies()
		targets := make([]string, 0, len(deps))
		for _, target := range deps {
			targets = append(targets, target)
		}
		sort.Strings(targets)

		for _, target := range targets {
			if err := visit(target); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		onPath[name] = false
		visited[name] = true
		order = append(order, name)
		return nil
	}

	if err := visit(moduleName); err != nil {
		return nil, err
	}

	return order, nil
}

// AllDependencies returns the set of transitive dependencies of a module,
// excluding the module itself.
func (g *Graph) AllDependencies(moduleName string) (map[string]struct{}, error) {
	order, err := g.ExecutionOrder(moduleName)
	if err != nil {
		return nil, err
	}

	deps := make(map[string]struct{}, len(order))
	for _, name := range order {
		if name != moduleName {
			deps[name] = struct{}{}
		}
	}
	return deps, nil
}

// HasCircularDependencies sweeps every registered module and reports whether
// any dependency cycle exists. Used for startup health checks.
func (g *Graph) HasCircularDependencies() bool {
	for _, name := range g.registry.Names() {
		if _, err := g.ExecutionOrder(name); err != nil {
			var circErr *CircularError
			if errors.As(err, &circErr) {
				return true
			}
		}
	}
	return false
}

// ValidateAll checks every registered module and returns a mapping from
// module name to the issues discovered for it (cycles, construction
// failures, unresolvable dependency targets). Modules with no issues are
// omitted.
func (g *Graph) ValidateAll() map[string][]string {
	issues := make(map[string][]string)

	for _, name := range g.registry.Names() {
		if _, err := g.ExecutionOrder(name); err != nil {
			issues[name] = append(issues[name], err.Error())
			continue
		}

		module, err := g.registry.New(name, "")
		if err != nil {
			issues[name] = append(issues[name], err.Error())
			continue
		}

		for depName, target := range module.Dependencies() {
			if !g.registry.Has(target) {
				issues[name] = append(issues[name],
					fmt.Sprintf("dependency %s refers to unregistered module or resource %s", depName, target))
			}
		}
	}

	return issues
}
