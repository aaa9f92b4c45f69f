// Package depdata validates and repairs external data dependencies: named
// artifacts tracked through change-log pointer files, independent of module
// execution order.
package depdata

import (
	"context"
	"fmt"
)

// Status is the terminal state of one dependency after validation
type Status string

const (
	StatusAvailable     Status = "available"
	StatusMissing       Status = "missing"
	StatusHealingFailed Status = "healing_failed"
)

// FileType selects the artifact loader used when loadData is requested
type FileType string

const (
	FileTypeTabular    FileType = "tabular"
	FileTypeStructured FileType = "structured"
	FileTypeBinary     FileType = "binary"
)

// HealStatus is the outcome reported by a healing agent
type HealStatus string

const (
	HealSuccess HealStatus = "success"
	HealFailed  HealStatus = "failed"
)

// HealResult is the structured outcome of a healing attempt
type HealResult struct {
	Status  HealStatus
	Message string
	Details map[string]interface{}
}

// HealFunc regenerates a missing or stale artifact. The context carries the
// healing-in-progress stack, so agents that validate further dependencies
// must pass it through unchanged.
type HealFunc func(ctx context.Context) (*HealResult, error)

// RunHealer invokes a healing agent fail-fast: it returns an error whenever
// the agent errors or reports a non-success status, as an alternative to
// inspecting the structured result.
func RunHealer(ctx context.Context, name string, heal HealFunc) (*HealResult, error) {
	result, err := heal(ctx)
	if err != nil {
		return nil, fmt.Errorf("healing agent for %s failed: %w", name, err)
	}
	if result == nil || result.Status != HealSuccess {
		msg := "no result"
		if result != nil {
			msg = result.Message
		}
		return result, fmt.Errorf("healing agent for %s did not succeed: %s", name, msg)
	}
	return result, nil
}

// ContentValidator inspects loaded artifact data and rejects it with an
// error when the content is unusable
type ContentValidator func(data interface{}) error

// LoadFunc is a caller-supplied artifact loader overriding the default
// per-FileType loader
type LoadFunc func(path string) (interface{}, error)

// Dependency declares one external data dependency. The change-log pointer
// file resolves the dependency name to its latest artifact path.
type Dependency struct {
	Name             string
	ChangeLogPath    string
	HealingAgent     HealFunc
	Required         bool
	FileType         FileType
	ContentValidator ContentValidator
	LoadFn           LoadFunc
}
