package runtime

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/cruciblehq/dockerpack/internal/environ"
	"github.com/cruciblehq/dockerpack/internal/pipeline"
)

// Runs a step inside the unit's running container.
//
// The working directory is the step's, else the unit's, else the global
// default, expanded against the container environment and created if
// missing. Step environment overrides the unit environment. The command is
// passed to the shell as a single argument via "shell -c command".
//
// A non-zero exit is returned as an [OperationError]; whether it is fatal
// is up to the caller. When the runtime is verbose, output is streamed with
// the container name as prefix.
func (rt *Runtime) Exec(ctx context.Context, unit pipeline.Unit, step pipeline.Step) error {
	name := unit.ContainerName()
	if err := rt.requireContainer(ctx, name); err != nil {
		return err
	}

	env, err := rt.containerEnv(ctx, name)
	if err != nil {
		return err
	}

	args := []string{"exec"}

	workdir := resolveWorkdir(step.Workdir, unit.DefaultWorkdir(), rt.opts.Workdir, env)
	if workdir != "" {
		if _, err := rt.output(ctx, "exec", name, "mkdir", "-p", workdir); err != nil {
			return err
		}
		args = append(args, "-w", workdir)
	}

	for _, kv := range mergeEnv(environ.Map(unit.Environ()).Environ(), environ.Map(step.Env).Environ()) {
		args = append(args, "-e", kv)
	}
	args = append(args, name, rt.opts.Shell, "-c", step.Command)

	slog.Debug("executing step", "container", name, "step", step.Label(), "workdir", workdir)

	code, stderr, err := rt.stream(ctx, name, args...)
	if err != nil {
		return err
	}
	if code != 0 {
		return newOperationError(rt.argv(args), code, stderr)
	}
	return nil
}

// Runs args, relaying output to the terminal when verbose.
//
// Standard error is always captured and returned so that failures carry
// it. Prefix writers are flushed before returning.
func (rt *Runtime) stream(ctx context.Context, name string, args ...string) (int, string, error) {
	var captured bytes.Buffer

	if !rt.opts.Verbose {
		code, err := rt.run(ctx, io.Discard, &captured, args...)
		return code, captured.String(), err
	}

	stdout := newPrefixWriter(rt.opts.Stdout, name)
	stderr := newPrefixWriter(rt.opts.Stderr, name)

	code, err := rt.run(ctx, stdout, io.MultiWriter(stderr, &captured), args...)

	if cerr := stdout.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if cerr := stderr.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return code, captured.String(), err
}

// Returns the first non-empty working directory, expanded against env.
func resolveWorkdir(step, unit, global string, env environ.Source) string {
	for _, dir := range []string{step, unit, global} {
		if dir != "" {
			return environ.Expand(dir, env)
		}
	}
	return ""
}

// Merges override env vars on top of a base env slice.
//
// The result is sorted by key.
func mergeEnv(base, overrides []string) []string {
	merged := make(map[string]string, len(base)+len(overrides))
	for _, entry := range base {
		if k, v, ok := strings.Cut(entry, "="); ok {
			merged[k] = v
		}
	}
	for _, entry := range overrides {
		if k, v, ok := strings.Cut(entry, "="); ok {
			merged[k] = v
		}
	}

	result := make([]string, 0, len(merged))
	for _, k := range slices.Sorted(maps.Keys(merged)) {
		result = append(result, k+"="+merged[k])
	}
	return result
}
