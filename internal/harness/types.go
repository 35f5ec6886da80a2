package harness

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success: the pass outcome matched
	// the expect clause and every structural check held.
	Pass bool

	// Errors contains check failure messages. Empty if Pass is true.
	Errors []string

	// Dump is the transformed graph's deterministic text form. Empty when
	// the pass aborted with an error.
	Dump string

	// PassErr is the error the pass returned, nil on success. Scenarios
	// expecting an error inspect its code through this field.
	PassErr error
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds a check failure and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}
