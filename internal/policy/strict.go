package policy

// StrictWorkflow requires every declared dependency to resolve to a module
// scheduled earlier in the same workflow run. There is no database fallback:
// any dependency not found in the workflow is a blocking error.
type StrictWorkflow struct{}

// NewStrictWorkflow creates a strict workflow policy
func NewStrictWorkflow() *StrictWorkflow {
	return &StrictWorkflow{}
}

// Name returns the policy name
func (p *StrictWorkflow) Name() string {
	return "strict"
}

// Validate checks that every dependency target is part of the workflow
func (p *StrictWorkflow) Validate(dependencies map[string]string, workflowModules []string) *Result {
	result := NewResult(workflowModules)

	for dep, target := range dependencies {
		if result.InWorkflow(target) {
			result.Resolved[dep] = SourceWorkflow
			continue
		}

		result.Errors[dep] = Issue{
			Dep:      dep,
			Reason:   ReasonWorkflowViolation,
			Source:   SourceWorkflow,
			Required: true,
			Metadata: map[string]interface{}{"target": target},
		}
	}

	return result
}
