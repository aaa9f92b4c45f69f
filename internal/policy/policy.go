// Package policy implements pluggable dependency-satisfaction strategies
// applied before each module execution in a workflow run.
package policy

// Reason classifies why a dependency could not be satisfied
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonNotFound          Reason = "not_found"
	ReasonTooOld            Reason = "too_old"
	ReasonWorkflowViolation Reason = "workflow_violation"
)

// Source identifies where a dependency was (or was expected to be) resolved from
type Source string

const (
	SourceWorkflow         Source = "workflow"
	SourceDatabase         Source = "database"
	SourceWorkflowDatabase Source = "workflow+database"
	SourceNone             Source = "none"
)

// Issue describes a single dependency problem discovered during validation
type Issue struct {
	Dep      string
	Reason   Reason
	Source   Source
	Required bool
	Metadata map[string]interface{}
}

// Result aggregates the outcome of validating one module's declared
// dependencies. Errors are blocking; Warnings are not.
type Result struct {
	Errors   map[string]Issue
	Warnings map[string]Issue
	Resolved map[string]Source

	// WorkflowModules is the set of module names known to be part of the
	// current run
	WorkflowModules map[string]struct{}
}

// NewResult creates an empty validation result for the given workflow modules
func NewResult(workflowModules []string) *Result {
	wf := make(map[string]struct{}, len(workflowModules))
	for _, name := range workflowModules {
		wf[name] = struct{}{}
	}
	return &Result{
		Errors:          make(map[string]Issue),
		Warnings:        make(map[string]Issue),
		Resolved:        make(map[string]Source),
		WorkflowModules: wf,
	}
}

// Valid reports whether validation produced no blocking errors
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// ErrorStrings renders the blocking issues as human-readable messages
func (r *Result) ErrorStrings() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, issue := range r.Errors {
		msgs = append(msgs, issue.String())
	}
	return msgs
}

// InWorkflow reports whether the given name is part of the current run
func (r *Result) InWorkflow(name string) bool {
	_, ok := r.WorkflowModules[name]
	return ok
}

// String renders an issue as a single diagnostic line
func (i Issue) String() string {
	switch i.Reason {
	case ReasonNotFound:
		return "dependency " + i.Dep + " not found (source: " + string(i.Source) + ")"
	case ReasonTooOld:
		return "dependency " + i.Dep + " is too old (source: " + string(i.Source) + ")"
	case ReasonWorkflowViolation:
		return "dependency " + i.Dep + " is not scheduled in the current workflow"
	default:
		return "dependency " + i.Dep + " (source: " + string(i.Source) + ")"
	}
}

// Policy decides, for a module about to run, whether each of its declared
// dependencies is satisfiable. A policy instance is configured once and
// reused across Validate calls.
type Policy interface {
	// Name returns the policy's registered name
	Name() string

	// Validate checks the declared dependencies (dependency name -> module
	// name or resource path) against the modules scheduled in the current
	// workflow run
	Validate(dependencies map[string]string, workflowModules []string) *Result
}
