package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/cruciblehq/dockerpack/internal/environ"
	"github.com/cruciblehq/dockerpack/internal/pipeline"
)

// Separates the id from the name in container listings.
const psSeparator = "|"

// Returns the pipeline containers known to the runtime, name to id.
//
// The listing includes stopped containers. Containers whose names lack the
// pipeline suffix are ignored. The result replaces the runtime's view of
// which containers exist.
func (rt *Runtime) Containers(ctx context.Context) (map[string]string, error) {
	out, err := rt.output(ctx, "ps", "-a",
		"--filter", "name="+pipeline.ContainerSuffix,
		"--format", "{{.ID}}"+psSeparator+"{{.Names}}",
	)
	if err != nil {
		return nil, err
	}

	found, err := parseContainers(out)
	if err != nil {
		return nil, err
	}

	for name := range rt.envs {
		if _, ok := found[name]; !ok {
			delete(rt.envs, name)
		}
	}
	rt.containers = found

	return maps.Clone(found), nil
}

// Parses "id|name" lines, keeping names with the pipeline suffix.
func parseContainers(out string) (map[string]string, error) {
	found := make(map[string]string)
	for line := range strings.Lines(out) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		id, name, ok := strings.Cut(line, psSeparator)
		if !ok || id == "" || name == "" {
			return nil, fmt.Errorf("%w: container listing line %q", ErrUnexpectedOutput, line)
		}
		if strings.HasSuffix(name, pipeline.ContainerSuffix) {
			found[name] = id
		}
	}
	return found, nil
}

// Reports whether a container with the given name exists.
//
// The set of containers is refreshed from the runtime first.
func (rt *Runtime) HasContainer(ctx context.Context, name string) (bool, error) {
	if _, err := rt.Containers(ctx); err != nil {
		return false, err
	}
	_, ok := rt.containers[name]
	return ok, nil
}

// Starts the unit's container, or reuses the existing one.
//
// A new container is started detached with an interactive shell as its
// main process so that it stays alive between steps. The unit environment
// is passed on creation. An existing container with the same name is
// started again if it had stopped and is otherwise left as is. In both cases
// the container's live environment is loaded for later path expansion.
func (rt *Runtime) Run(ctx context.Context, unit pipeline.Unit) error {
	name := unit.ContainerName()

	exists, err := rt.HasContainer(ctx, name)
	if err != nil {
		return err
	}

	if exists {
		slog.Debug("reusing container", "name", name, "id", rt.containers[name])
		if _, err := rt.output(ctx, "start", name); err != nil {
			return err
		}
	} else {
		args := []string{"run", "-d", "-i", "-t", "--name", name}
		for _, kv := range environ.Map(unit.Environ()).Environ() {
			args = append(args, "-e", kv)
		}
		args = append(args, unit.BaseImage(), rt.opts.Shell)

		out, err := rt.output(ctx, args...)
		if err != nil {
			return err
		}
		id := strings.TrimSpace(out)
		rt.containers[name] = id
		slog.Debug("container started", "name", name, "id", id, "image", unit.BaseImage())
	}

	_, err = rt.loadEnv(ctx, name)
	return err
}

// Reads the live environment of a running container.
func (rt *Runtime) loadEnv(ctx context.Context, name string) (environ.Map, error) {
	out, err := rt.output(ctx, "exec", name, "env")
	if err != nil {
		return nil, err
	}
	env := environ.Parse(out)
	rt.envs[name] = env
	return env, nil
}

// Returns the live environment of a container, loading it if needed.
func (rt *Runtime) containerEnv(ctx context.Context, name string) (environ.Map, error) {
	if env, ok := rt.envs[name]; ok {
		return env, nil
	}
	return rt.loadEnv(ctx, name)
}

// Requires that the named container exists.
func (rt *Runtime) requireContainer(ctx context.Context, name string) error {
	exists, err := rt.HasContainer(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotRunning, name)
	}
	return nil
}

// Stops the named container.
//
// Stopping a container the runtime does not know is a no-op.
func (rt *Runtime) Stop(ctx context.Context, name string) error {
	exists, err := rt.HasContainer(ctx, name)
	if err != nil || !exists {
		return err
	}
	if _, err := rt.output(ctx, "stop", name); err != nil {
		return err
	}
	slog.Debug("container stopped", "name", name)
	return nil
}

// Removes the named container and forgets it.
//
// Removing a container the runtime does not know is a no-op.
func (rt *Runtime) Remove(ctx context.Context, name string) error {
	exists, err := rt.HasContainer(ctx, name)
	if err != nil || !exists {
		return err
	}
	if _, err := rt.output(ctx, "rm", name); err != nil {
		return err
	}
	delete(rt.containers, name)
	delete(rt.envs, name)
	slog.Debug("container removed", "name", name)
	return nil
}

