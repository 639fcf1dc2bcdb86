package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/cruciblehq/dockerpack/internal"
	"github.com/cruciblehq/dockerpack/internal/build"
	"github.com/cruciblehq/dockerpack/internal/paths"
	"github.com/cruciblehq/dockerpack/internal/pipeline"
	"github.com/cruciblehq/dockerpack/internal/runtime"
	"github.com/cruciblehq/dockerpack/internal/state"
)

var ErrInterrupted = errors.New("interrupted")

// Resolved document, runtime and state record for one command.
type session struct {
	cfg   *pipeline.Config // Resolved pipeline.
	rt    *runtime.Runtime // Container runtime configured from the document.
	store *state.Store     // State record in the working directory.
}

// Controls how a session resolves the document.
type sessionOptions struct {
	copyLocal bool // Copy the working directory instead of running checkout.
	redacted  bool // Redact "$ENV" values, for display.
	runtime   bool // Verify that the runtime executable is available.
}

// Resolves the document and prepares the runtime and state record.
func openSession(flags documentFlags, opts sessionOptions) (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	path := flags.Config
	if path == "" {
		path = paths.ConfigFile(cwd)
	}

	cfg, err := pipeline.Resolve(path, pipeline.Options{
		Cwd:       cwd,
		CopyLocal: opts.copyLocal,
		Redacted:  opts.redacted,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Debug {
		internal.SetDebug(true)
	}

	slog.Debug("pipeline resolved",
		"path", path,
		"jobs", len(cfg.Jobs),
		"images", len(cfg.ImageBuilds),
		"templates", len(cfg.Templates),
	)

	stdout, stderr := outputs()
	rt := runtime.New(runtime.NewExecutor(), runtime.Options{
		Sudo:    cfg.Sudo,
		Shell:   cfg.Shell,
		Workdir: cfg.Workdir,
		Verbose: cfg.CommandsVerbose,
		Stdout:  stdout,
		Stderr:  stderr,
	})

	if opts.runtime {
		if err := rt.CheckAvailable(); err != nil {
			return nil, err
		}
	}

	return &session{
		cfg:   cfg,
		rt:    rt,
		store: state.New(paths.StateFile(cwd)),
	}, nil
}

// Returns a builder for the session.
func (s *session) builder(flags documentFlags, exec executionFlags, noCleanup bool) *build.Builder {
	stdout, _ := outputs()
	return build.New(s.cfg, s.rt, s.store, build.Options{
		Filter:    flags.Filter,
		Reset:     exec.Reset,
		Stateless: exec.Stateless,
		NoCleanup: noCleanup,
		Env:       exec.Env,
		Output:    stdout,
	})
}

// Logs the outcome of a run and translates an interrupt.
//
// When ctx was cancelled the state record is removed and [ErrInterrupted]
// is returned in place of err.
func (s *session) finish(ctx context.Context, report *build.Report, err error) error {
	if ctx.Err() != nil {
		if rerr := s.store.Remove(); rerr != nil {
			slog.Warn("failed to remove state record", "error", rerr)
		}
		return fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
	}

	if report != nil {
		slog.Info("run finished",
			"completed", report.Count(build.StateCompleted),
			"skipped", report.Count(build.StateSkipped),
			"failed", report.Count(build.StateFailed),
			"pending", report.Count(build.StatePending),
		)
	}
	return err
}
