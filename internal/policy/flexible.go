package policy

import (
	"github.com/reportflow/reportflow/internal/utils"
)

// Flexible resolves dependencies from the workflow first and falls back to
// persisted artifacts ("database" files) on disk. Dependencies listed in
// RequiredDeps are blocking; all others degrade to warnings. When MaxAgeDays
// is positive, database-resolved artifacts older than that are stale.
type Flexible struct {
	RequiredDeps map[string]struct{}
	MaxAgeDays   int
}

// NewFlexible creates a flexible policy. requiredDeps names the dependencies
// that must be satisfiable; maxAgeDays of zero disables freshness checks.
func NewFlexible(requiredDeps []string, maxAgeDays int) *Flexible {
	req := make(map[string]struct{}, len(requiredDeps))
	for _, dep := range requiredDeps {
		req[dep] = struct{}{}
	}
	return &Flexible{RequiredDeps: req, MaxAgeDays: maxAgeDays}
}

// Name returns the policy name
func (p *Flexible) Name() string {
	return "flexible"
}

// Validate resolves each dependency from the workflow or from its backing file
func (p *Flexible) Validate(dependencies map[string]string, workflowModules []string) *Result {
	result := NewResult(workflowModules)

	for dep, target := range dependencies {
		_, required := p.RequiredDeps[dep]

		// Workflow resolution needs no further checks
		if result.InWorkflow(target) {
			result.Resolved[dep] = SourceWorkflow
			continue
		}

		issue, ok := checkArtifact(dep, target, required, p.MaxAgeDays)
		if !ok {
			if required {
				result.Errors[dep] = issue
			} else {
				result.Warnings[dep] = issue
			}
			continue
		}

		result.Resolved[dep] = SourceDatabase
	}

	return result
}

// checkArtifact verifies that the backing file for a database-resolved
// dependency exists and, when maxAgeDays is positive, is fresh enough.
// It returns the issue describing the failure and ok=false when the check
// does not pass.
func checkArtifact(dep, target string, required bool, maxAgeDays int) (Issue, bool) {
	ageDays, err := utils.FileAgeDays(target)
	if err != nil {
		return Issue{
			Dep:      dep,
			Reason:   ReasonNotFound,
			Source:   SourceNone,
			Required: required,
			Metadata: map[string]interface{}{"target": target},
		}, false
	}

	if maxAgeDays > 0 && ageDays > maxAgeDays {
		return Issue{
			Dep:      dep,
			Reason:   ReasonTooOld,
			Source:   SourceDatabase,
			Required: required,
			Metadata: map[string]interface{}{
				"target":     target,
				"ageDays":    ageDays,
				"maxAgeDays": maxAgeDays,
			},
		}, false
	}

	return Issue{}, true
}
