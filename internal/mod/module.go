// Package mod provides the core module contract for the workflow system
package mod

import (
	"context"
	"fmt"
)

// Module defines the interface that all processing modules must implement
type Module interface {
	// Name returns the module's unique identifier
	Name() string

	// Dependencies returns the module's declared dependencies as a mapping
	// from dependency name to the module name or resource path it expects
	Dependencies() map[string]string

	// Execute runs the module against the shared run context
	Execute(ctx context.Context, rc *RunContext) (*Result, error)
}

// RunContext is the shared, mutable context for a single workflow run.
// It is owned by the executor and mutated only between module executions.
type RunContext struct {
	Values map[string]interface{}
}

// NewRunContext creates an empty run context
func NewRunContext() *RunContext {
	return &RunContext{Values: make(map[string]interface{})}
}

// Get returns a context value and whether it was present
func (rc *RunContext) Get(key string) (interface{}, bool) {
	v, ok := rc.Values[key]
	return v, ok
}

// GetString returns a context value as a string, or "" if absent or not a string
func (rc *RunContext) GetString(key string) string {
	if v, ok := rc.Values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Merge applies a set of context updates produced by a module
func (rc *RunContext) Merge(updates map[string]interface{}) {
	for k, v := range updates {
		rc.Values[k] = v
	}
}

// SafeExecute runs a module and guarantees a structured Result: any error
// returned or panic raised inside Execute is converted into a failed Result
// rather than propagating to the executor.
func SafeExecute(ctx context.Context, m Module, rc *RunContext) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			result = &Result{
				Status:  StatusFailed,
				Message: fmt.Sprintf("module %s panicked", m.Name()),
				Errors:  []string{fmt.Sprintf("panic: %v", r)},
			}
		}
	}()

	res, err := m.Execute(ctx, rc)
	if err != nil {
		return &Result{
			Status:  StatusFailed,
			Message: fmt.Sprintf("module %s failed: %v", m.Name(), err),
			Errors:  []string{err.Error()},
		}
	}
	if res == nil {
		return &Result{
			Status:  StatusFailed,
			Message: fmt.Sprintf("module %s returned no result", m.Name()),
			Errors:  []string{"nil result"},
		}
	}
	return res
}
