package mod

// ResultStatus represents the terminal status of a module execution
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusFailed  ResultStatus = "failed"
	StatusSkipped ResultStatus = "skipped"
)

// Result contains the outcome of a module execution. A Result is immutable
// once produced; the executor caches and reuses it verbatim.
type Result struct {
	Status  ResultStatus
	Data    interface{}
	Message string
	Errors  []string

	// ContextUpdates are merged into the shared run context after a
	// successful execution
	ContextUpdates map[string]interface{}
}

// Succeeded reports whether the module completed successfully
func (r *Result) Succeeded() bool {
	return r.Status == StatusSuccess
}
