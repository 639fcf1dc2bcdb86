package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cruciblehq/dockerpack/internal/environ"
	"github.com/cruciblehq/dockerpack/internal/pipeline"
)

// Placeholder replaced with the container name in copy specs.
const imagePlaceholder = "$image"

// Direction and endpoints of a copy between host and container.
type copySpec struct {
	local    string // Host path.
	remote   string // Container path, without the container prefix.
	outbound bool   // Whether the copy goes from the container to the host.
}

// Parses a "source[ destination]" copy spec for the named container.
//
// Occurrences of "$image" are replaced with the container name. The
// container side is the one prefixed with "<name>:"; an unprefixed
// destination is taken as a container path. When the destination is
// omitted, the unexpanded source text is used for both sides, so "~/.netrc"
// is later expanded against each side's own environment.
func parseCopySpec(spec, name string) (copySpec, error) {
	spec = strings.ReplaceAll(strings.TrimSpace(spec), imagePlaceholder, name)

	prefix := name + ":"

	fields := strings.Fields(spec)
	switch len(fields) {
	case 1:
		fields = append(fields, strings.TrimPrefix(fields[0], prefix))
	case 2:
	default:
		return copySpec{}, fmt.Errorf("invalid copy spec %q: want \"source[ destination]\"", spec)
	}

	src, dst := fields[0], fields[1]

	if rest, ok := strings.CutPrefix(src, prefix); ok {
		return copySpec{local: dst, remote: rest, outbound: true}, nil
	}
	return copySpec{local: src, remote: strings.TrimPrefix(dst, prefix)}, nil
}

// Copies files between the host and the unit's running container.
//
// The host path is expanded against the host environment and the container
// path against the container environment, so both may use "~" and $VAR.
func (rt *Runtime) Copy(ctx context.Context, unit pipeline.Unit, spec string) error {
	name := unit.ContainerName()
	if err := rt.requireContainer(ctx, name); err != nil {
		return err
	}

	env, err := rt.containerEnv(ctx, name)
	if err != nil {
		return err
	}

	cs, err := parseCopySpec(spec, name)
	if err != nil {
		return err
	}

	local := environ.Expand(cs.local, rt.opts.Env)
	remote := name + ":" + environ.Expand(cs.remote, env)

	args := []string{"cp", local, remote}
	if cs.outbound {
		args = []string{"cp", remote, local}
	}

	slog.Debug("copying", "container", name, "from", args[1], "to", args[2])

	_, err = rt.output(ctx, args...)
	return err
}
