package runtime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/containerd/errdefs"
)

var (
	ErrRuntime          = errors.New("runtime error")
	ErrUnavailable      = fmt.Errorf("container runtime unavailable: %w", errdefs.ErrUnavailable)
	ErrNotRunning       = fmt.Errorf("container is not running: %w", errdefs.ErrFailedPrecondition)
	ErrUnexpectedOutput = errors.New("unexpected runtime output")
	ErrEmptyCommand     = errors.New("empty command")
)

// A runtime command that ran but exited with a non-zero code.
//
// OperationError matches [ErrRuntime] with [errors.Is]. Failures to start
// the process at all are reported as plain wrapped errors instead, which is
// how callers tell a failed command from a missing runtime.
type OperationError struct {
	Command  string // Command line, space separated.
	ExitCode int    // Exit code of the process.
	Output   string // Captured error output, trimmed.
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s: exit code %d", e.Command, e.ExitCode)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return ErrRuntime
}

func newOperationError(argv []string, code int, output string) *OperationError {
	return &OperationError{
		Command:  strings.Join(argv, " "),
		ExitCode: code,
		Output:   strings.TrimSpace(output),
	}
}
