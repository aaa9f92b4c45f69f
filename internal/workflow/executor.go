package workflow

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/reportflow/reportflow/internal/mod"
	"github.com/reportflow/reportflow/internal/policy"
	"github.com/reportflow/reportflow/internal/utils"
)

// Executor runs one workflow definition. It owns a result cache keyed by
// module name: a cached result is reused verbatim on later runs, with no
// dependency re-validation and no re-execution, until the cache is cleared.
type Executor struct {
	def      *Definition
	registry *mod.Registry
	cache    map[string]*mod.Result
}

// NewExecutor creates an executor for a loaded workflow definition
func NewExecutor(def *Definition, registry *mod.Registry) *Executor {
	return &Executor{
		def:      def,
		registry: registry,
		cache:    make(map[string]*mod.Result),
	}
}

// Definition returns the workflow definition this executor runs
func (e *Executor) Definition() *Definition {
	return e.def
}

// Execute runs the workflow's modules in declared order, validating each
// module's dependencies against the modules of this run before executing it.
// A required module that fails or cannot satisfy its dependencies halts the
// run; optional modules degrade to skipped or failed results.
func (e *Executor) Execute(ctx context.Context) *ExecutionResult {
	run := &ExecutionResult{
		ExecutionID: uuid.New().String(),
		Workflow:    e.def.Name,
		Status:      RunSuccess,
		Results:     make(map[string]*mod.Result),
		Context:     ExecutionContext{TotalModules: len(e.def.Modules)},
	}

	runContext := mod.NewRunContext()
	workflowModules := e.def.ModuleNames()

	utils.LogInfo("Executing workflow %s (%s)", e.def.Name, run.ExecutionID)

	for _, ref := range e.def.Modules {
		// Cached results are reused verbatim; their context updates still
		// feed downstream modules of this run
		if cached, ok := e.cache[ref.Module]; ok {
			utils.LogVerbose("Module %s: using cached result", ref.Module)
			run.Results[ref.Module] = cached
			run.Context.CachedModules++
			if !cached.Succeeded() {
				if ref.IsRequired() {
					return e.abort(run, ref.Module)
				}
				continue
			}
			runContext.Merge(cached.ContextUpdates)
			continue
		}

		module, err := e.registry.New(ref.Module, ref.Config)
		if err != nil {
			result := &mod.Result{
				Status:  mod.StatusFailed,
				Message: fmt.Sprintf("failed to construct module %s", ref.Module),
				Errors:  []string{err.Error()},
			}
			run.Results[ref.Module] = result
			if ref.IsRequired() {
				return e.abort(run, ref.Module)
			}
			utils.LogWarning("Optional module %s could not be constructed: %v", ref.Module, err)
			continue
		}

		pol, err := policy.New(ref.DependencyPolicy)
		if err != nil {
			// Schema-checked at load time; a failure here means the
			// definition changed under us
			run.Results[ref.Module] = &mod.Result{
				Status:  mod.StatusFailed,
				Message: fmt.Sprintf("invalid dependency policy for module %s", ref.Module),
				Errors:  []string{err.Error()},
			}
			return e.abort(run, ref.Module)
		}

		validation := pol.Validate(module.Dependencies(), workflowModules)
		for _, warning := range validation.Warnings {
			utils.LogWarning("Module %s: %s", ref.Module, warning.String())
		}

		if !validation.Valid() {
			result := &mod.Result{
				Status:  mod.StatusSkipped,
				Message: fmt.Sprintf("unmet dependencies for module %s", ref.Module),
				Errors:  validation.ErrorStrings(),
			}
			run.Results[ref.Module] = result

			if ref.IsRequired() {
				result.Status = mod.StatusFailed
				return e.abort(run, ref.Module)
			}

			utils.LogWarning("Skipping optional module %s: unmet dependencies", ref.Module)
			continue
		}

		utils.LogInfo("Module %s: executing", ref.Module)
		result := mod.SafeExecute(ctx, module, runContext)
		e.cache[ref.Module] = result
		run.Results[ref.Module] = result

		if result.Succeeded() {
			runContext.Merge(result.ContextUpdates)
			utils.LogSuccess("Module %s: completed", ref.Module)
			continue
		}

		if ref.IsRequired() {
			return e.abort(run, ref.Module)
		}
		utils.LogWarning("Optional module %s failed: %s", ref.Module, result.Message)
	}

	run.Message = fmt.Sprintf("workflow %s completed", e.def.Name)
	return run
}

// abort marks the run failed after a required module could not complete.
// Results accumulated so far are preserved; no further modules run.
func (e *Executor) abort(run *ExecutionResult, moduleName string) *ExecutionResult {
	run.Status = RunFailed
	run.Message = fmt.Sprintf("workflow %s halted: required module %s failed", e.def.Name, moduleName)
	utils.LogError("%s", run.Message)
	return run
}

// CachedModules returns the sorted names of modules with cached results
func (e *Executor) CachedModules() []string {
	names := make([]string, 0, len(e.cache))
	for name := range e.cache {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearCache discards all cached module results, forcing re-execution on
// the next run
func (e *Executor) ClearCache() {
	e.cache = make(map[string]*mod.Result)
}
