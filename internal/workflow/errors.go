package workflow

import "fmt"

// ValidationError reports a malformed trigger payload. The run fails fast:
// no step executes and no run id is issued.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "workflow: invalid trigger: " + e.Reason
}

// StepError is the fatal outcome of a run: the named step failed and every
// remaining step was aborted. Results holds the partial result map for the
// steps that settled before the abort.
type StepError struct {
	RunID   string
	StepID  string
	Results map[string]StepResult
	Cause   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow: step %q failed: %v", e.StepID, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}
