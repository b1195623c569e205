package types

import "fmt"

// ProcessExitError reports an external process that ran and exited with a
// non-zero status.
type ProcessExitError struct {
	Program string
	Status  int
	Err     error
}

func (e *ProcessExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Program, e.Status)
}

func (e *ProcessExitError) Unwrap() error { return e.Err }
