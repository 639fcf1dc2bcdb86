package runtime

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// A child process to run.
type Process struct {
	Args   []string  // Program and arguments. Args[0] is looked up on PATH.
	Stdout io.Writer // Receives standard output. Nil discards it.
	Stderr io.Writer // Receives standard error. Nil discards it.
}

//go:generate mockgen -package mocks -destination mocks/mock_executor.go github.com/cruciblehq/dockerpack/internal/runtime Executor

// Runs child processes on behalf of a [Runtime].
//
// Run blocks until the process exits and all output has been copied. A
// non-zero exit is reported through the returned code, not as an error; the
// error is reserved for processes that could not be started or were
// cancelled through ctx.
type Executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, p Process) (int, error)
}

type osExecutor struct{}

// Returns an [Executor] backed by os/exec.
func NewExecutor() Executor {
	return osExecutor{}
}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, p Process) (int, error) {
	if len(p.Args) == 0 {
		return 0, ErrEmptyCommand
	}

	cmd := exec.CommandContext(ctx, p.Args[0], p.Args[1:]...)
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr

	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctx.Err() != nil {
			return exitErr.ExitCode(), ctx.Err()
		}
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}
