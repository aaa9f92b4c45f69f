package depdata

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/reportflow/reportflow/internal/utils"
)

// CircularHealError reports a healing cycle: a healing attempt for a
// dependency re-triggered healing for the same name while it was in flight.
// Path holds the full chain, ending with the repeated name.
type CircularHealError struct {
	Path []string
}

func (e *CircularHealError) Error() string {
	return fmt.Sprintf("circular healing detected: %s", strings.Join(e.Path, " -> "))
}

// ValidationResult is the outcome of validating one external data dependency
type ValidationResult struct {
	Name    string
	Status  Status
	Path    string
	Data    interface{}
	Message string
}

// Available reports whether the dependency's artifact was resolvable
func (r *ValidationResult) Available() bool {
	return r.Status == StatusAvailable
}

// healStackKey carries the healing-in-progress stack through the context.
// Keeping the stack per call chain rather than on the validator makes
// re-entrancy explicit: a healing agent that validates further dependencies
// passes its context through, and the in-flight set travels with it. The
// stack is immutable per frame, so unwinding needs no explicit pop.
type healStackKey struct{}

func healStack(ctx context.Context) []string {
	stack, _ := ctx.Value(healStackKey{}).([]string)
	return stack
}

func withHealEntry(ctx context.Context, name string) context.Context {
	stack := healStack(ctx)
	next := make([]string, 0, len(stack)+1)
	next = append(next, stack...)
	next = append(next, name)
	return context.WithValue(ctx, healStackKey{}, next)
}

// Validator validates external data dependencies and, when requested,
// repairs missing artifacts through their registered healing agents.
type Validator struct{}

// NewValidator creates a dependency validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDependencies checks each dependency in order. When autoHeal is set,
// missing artifacts with a registered healing agent are regenerated before
// being marked missing. When loadData is set, available artifacts are loaded
// and optionally checked by the dependency's content validator.
//
// A required dependency that ends up not available fails the whole batch:
// the partial results gathered so far are returned together with an error
// naming the dependency, and remaining dependencies are not validated.
func (v *Validator) ValidateDependencies(ctx context.Context, deps []Dependency, autoHeal, loadData bool) (map[string]*ValidationResult, error) {
	results := make(map[string]*ValidationResult, len(deps))

	for _, dep := range deps {
		result, err := v.validateOne(ctx, dep, autoHeal, loadData)
		results[dep.Name] = result

		if !result.Available() && dep.Required {
			if err == nil {
				err = fmt.Errorf("%s", result.Message)
			}
			return results, fmt.Errorf("required dependency %s is not available: %w", dep.Name, err)
		}
	}

	return results, nil
}

// validateOne resolves, optionally heals, and optionally loads a single
// dependency. The returned error carries healing detail for required-failure
// reporting; the ValidationResult is always populated.
func (v *Validator) validateOne(ctx context.Context, dep Dependency, autoHeal, loadData bool) (*ValidationResult, error) {
	result := &ValidationResult{Name: dep.Name, Status: StatusMissing}

	path, err := v.resolveArtifact(dep)
	if err != nil {
		result.Message = err.Error()
		return result, err
	}

	if path == "" {
		if !autoHeal || dep.HealingAgent == nil {
			result.Message = fmt.Sprintf("no artifact recorded for %s and no healing agent available", dep.Name)
			return result, nil
		}

		healedPath, healErr := v.heal(ctx, dep)
		if healErr != nil {
			result.Status = StatusHealingFailed
			result.Message = healErr.Error()
			utils.LogWarning("Healing failed for dependency %s: %v", dep.Name, healErr)
			return result, healErr
		}
		path = healedPath
	}

	result.Status = StatusAvailable
	result.Path = path

	if loadData {
		if err := v.loadAndCheck(dep, result); err != nil {
			result.Status = StatusMissing
			result.Data = nil
			result.Message = err.Error()
			return result, err
		}
	}

	return result, nil
}

// resolveArtifact returns the latest artifact path for a dependency, or ""
// when no usable artifact exists yet
func (v *Validator) resolveArtifact(dep Dependency) (string, error) {
	path, err := Resolve(dep.ChangeLogPath)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", nil
	}
	if _, err := os.Stat(path); err != nil {
		utils.LogVerbose("Change log for %s points at %s, which does not exist", dep.Name, path)
		return "", nil
	}
	return path, nil
}

// heal runs the dependency's healing agent under the cycle guard and
// re-resolves the change-log pointer. Success requires both a successful
// healing result and a now-existing artifact path.
func (v *Validator) heal(ctx context.Context, dep Dependency) (string, error) {
	for _, inFlight := range healStack(ctx) {
		if inFlight == dep.Name {
			return "", &CircularHealError{Path: append(healStack(ctx), dep.Name)}
		}
	}

	utils.LogInfo("Healing missing dependency %s", dep.Name)
	healCtx := withHealEntry(ctx, dep.Name)

	if _, err := RunHealer(healCtx, dep.Name, dep.HealingAgent); err != nil {
		return "", err
	}

	path, err := v.resolveArtifact(dep)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("healing agent for %s completed but produced no resolvable artifact", dep.Name)
	}

	utils.LogSuccess("Healed dependency %s -> %s", dep.Name, path)
	return path, nil
}

// loadAndCheck loads the resolved artifact and applies the optional
// content validator
func (v *Validator) loadAndCheck(dep Dependency, result *ValidationResult) error {
	var data interface{}
	var err error

	if dep.LoadFn != nil {
		data, err = dep.LoadFn(result.Path)
	} else {
		data, err = LoadArtifact(result.Path, dep.FileType)
	}
	if err != nil {
		return fmt.Errorf("failed to load artifact for %s: %w", dep.Name, err)
	}

	if dep.ContentValidator != nil {
		if err := dep.ContentValidator(data); err != nil {
			return fmt.Errorf("content validation failed for %s: %w", dep.Name, err)
		}
	}

	result.Data = data
	return nil
}
