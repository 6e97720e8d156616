// internal/dispatch/errors.go
package dispatch

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateTask     = errors.New("dispatch: duplicate task id")
	ErrDuplicateProducer = errors.New("dispatch: artifact has more than one producer")
	ErrCycle             = errors.New("dispatch: task graph has a cycle")
	ErrNoWork            = errors.New("dispatch: task has neither a command nor a run func")
	ErrMissingOutput     = errors.New("dispatch: task did not produce its output")
	ErrUpstream          = errors.New("dispatch: an upstream task failed")
)

// ExternalToolFailure is a nonzero exit (or failed start) of an external
// binary. It is a warning: the run continues with placeholder outputs.
type ExternalToolFailure struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExternalToolFailure) Error() string {
	msg := fmt.Sprintf("%s exited %d: %v", e.Tool, e.ExitCode, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExternalToolFailure) Unwrap() error { return e.Err }

// InternalFailure is an error of in-process merge, filter or matrix logic.
// It is fatal for the task's subtree.
type InternalFailure struct {
	Stage string
	Task  string
	Err   error
}

func (e *InternalFailure) Error() string { return fmt.Sprintf("%s: %s: %v", e.Stage, e.Task, e.Err) }

func (e *InternalFailure) Unwrap() error { return e.Err }
