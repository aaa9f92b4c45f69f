package policy

// Hybrid treats every dependency as required. Workflow resolution takes
// priority; otherwise the dependency falls back to its backing database
// file with the same existence and freshness checks as Flexible, except any
// fallback failure is always blocking. When PreferWorkflow is set, a
// successful database fallback still emits a non-blocking warning flagging
// the suboptimal resolution.
type Hybrid struct {
	MaxAgeDays     int
	PreferWorkflow bool
}

// NewHybrid creates a hybrid policy. maxAgeDays of zero disables freshness
// checks; preferWorkflow defaults to true in the factory.
func NewHybrid(maxAgeDays int, preferWorkflow bool) *Hybrid {
	return &Hybrid{MaxAgeDays: maxAgeDays, PreferWorkflow: preferWorkflow}
}

// Name returns the policy name
func (p *Hybrid) Name() string {
	return "hybrid"
}

// Validate resolves each dependency, preferring the workflow over the database
func (p *Hybrid) Validate(dependencies map[string]string, workflowModules []string) *Result {
	result := NewResult(workflowModules)

	for dep, target := range dependencies {
		if result.InWorkflow(target) {
			result.Resolved[dep] = SourceWorkflow
			continue
		}

		issue, ok := checkArtifact(dep, target, true, p.MaxAgeDays)
		if !ok {
			// Not-found here means both resolution sources were exhausted
			if issue.Reason == ReasonNotFound {
				issue.Source = SourceWorkflowDatabase
			}
			result.Errors[dep] = issue
			continue
		}

		result.Resolved[dep] = SourceDatabase
		if p.PreferWorkflow {
			result.Warnings[dep] = Issue{
				Dep:      dep,
				Reason:   ReasonNone,
				Source:   SourceDatabase,
				Required: true,
				Metadata: map[string]interface{}{
					"target": target,
					"note":   "resolved from database; workflow resolution preferred",
				},
			}
		}
	}

	return result
}
