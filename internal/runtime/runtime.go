package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cruciblehq/dockerpack/internal/environ"
)

const (

	// Executable used when Options.Binary is empty.
	defaultBinary = "docker"

	// Executable used to elevate runtime commands when Options.Sudo is set.
	sudoBinary = "sudo"

	// Shell used to run step commands when Options.Shell is empty.
	defaultShell = "bash"
)

// Configures a [Runtime].
type Options struct {
	Binary  string         // Runtime executable. Defaults to "docker".
	Sudo    bool           // Run the runtime executable through sudo.
	Shell   string         // Shell used for container entrypoints and step commands. Defaults to "bash".
	Workdir string         // Working directory used when neither step nor unit declares one.
	Verbose bool           // Stream step output, prefixed with the container name.
	Env     environ.Source // Host environment for expanding local copy paths. Defaults to [environ.OS].
	Stdout  io.Writer      // Destination of streamed step output. Defaults to os.Stdout.
	Stderr  io.Writer      // Destination of streamed step errors. Defaults to os.Stderr.
}

func (o Options) withDefaults() Options {
	if o.Binary == "" {
		o.Binary = defaultBinary
	}
	if o.Shell == "" {
		o.Shell = defaultShell
	}
	if o.Env == nil {
		o.Env = environ.OS
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	return o
}

// Drives containers through the runtime executable.
//
// A Runtime is not safe for concurrent use.
type Runtime struct {
	exec       Executor               // Runs runtime commands.
	opts       Options                // Configuration, with defaults applied.
	containers map[string]string      // Known pipeline containers, name to id.
	envs       map[string]environ.Map // Live environment per container, loaded after start.
}

// Creates a runtime that runs commands through exec.
func New(exec Executor, opts Options) *Runtime {
	return &Runtime{
		exec:       exec,
		opts:       opts.withDefaults(),
		containers: make(map[string]string),
		envs:       make(map[string]environ.Map),
	}
}

// Verifies that the runtime executable can be found.
//
// When sudo is enabled the sudo executable must be found as well. The
// returned error matches [ErrUnavailable].
func (rt *Runtime) CheckAvailable() error {
	bins := []string{rt.opts.Binary}
	if rt.opts.Sudo {
		bins = append([]string{sudoBinary}, bins...)
	}
	for _, bin := range bins {
		if _, err := rt.exec.LookPath(bin); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrUnavailable, bin, err)
		}
	}
	return nil
}

// Returns the full command line for a runtime invocation.
func (rt *Runtime) argv(args []string) []string {
	argv := make([]string, 0, len(args)+2)
	if rt.opts.Sudo {
		argv = append(argv, sudoBinary)
	}
	argv = append(argv, rt.opts.Binary)
	return append(argv, args...)
}

// Runs the runtime executable with args and returns its exit code.
//
// The error is non-nil only when the process could not be run; a non-zero
// exit code is left to the caller.
func (rt *Runtime) run(ctx context.Context, stdout, stderr io.Writer, args ...string) (int, error) {
	argv := rt.argv(args)
	slog.Debug("running", "command", strings.Join(argv, " "))

	code, err := rt.exec.Run(ctx, Process{Args: argv, Stdout: stdout, Stderr: stderr})
	if err != nil {
		return code, fmt.Errorf("%w: %s: %w", ErrRuntime, argv[0], err)
	}
	return code, nil
}

// Runs the runtime executable with args and returns its standard output.
//
// A non-zero exit is returned as an [OperationError] carrying the standard
// error output.
func (rt *Runtime) output(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	code, err := rt.run(ctx, &stdout, &stderr, args...)
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", newOperationError(rt.argv(args), code, stderr.String())
	}
	return stdout.String(), nil
}
