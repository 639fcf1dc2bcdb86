package pipeline

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parses a list of step references into flattened steps.
//
// Each item is a bare string, {run: string} or {run: {command, ...}}. When
// the resulting command names a known template, the template's steps are
// spliced in as copies and the referencing step's own fields are dropped.
// Otherwise the item becomes a single ad-hoc step.
func (r *resolver) parseSteps(node *yaml.Node, section, path string) ([]Step, error) {
	if !isList(node) {
		return nil, configError(section, path, "steps must be a list")
	}

	var out []Step
	for i, item := range items(node) {
		step, err := r.parseStep(item, section, indexed(path, i))
		if err != nil {
			return nil, err
		}

		if tmpl, ok := r.cfg.Templates[step.Command]; ok {
			out = append(out, cloneSteps(tmpl)...)
			continue
		}
		out = append(out, step)
	}

	return out, nil
}

// Parses a single step reference without resolving templates.
func (r *resolver) parseStep(node *yaml.Node, section, path string) (Step, error) {
	switch {
	case isScalar(node):
		return newStep(node.Value, section, path)

	case isMap(node):
		run := lookup(node, "run")
		switch {
		case run == nil:
			return Step{}, configError(section, path, "step must declare \"run\"")
		case isScalar(run):
			return newStep(run.Value, section, path)
		case isMap(run):
			return r.parseRun(run, section, path)
		}
		return Step{}, configError(section, path, "\"run\" must be a string or a map")
	}

	return Step{}, configError(section, path, "step must be a string or a map")
}

// Parses the expanded form {command, name, workdir, skip_on_error, env}.
func (r *resolver) parseRun(run *yaml.Node, section, path string) (Step, error) {
	cmd := lookup(run, "command")
	if cmd == nil || !isScalar(cmd) {
		return Step{}, configError(section, path, "run must have a \"command\" string")
	}

	step, err := newStep(cmd.Value, section, path)
	if err != nil {
		return Step{}, err
	}

	if n := lookup(run, "name"); n != nil {
		if !isScalar(n) {
			return Step{}, configError(section, path+".name", "name must be a string")
		}
		step.Name = n.Value
	}
	if n := lookup(run, "workdir"); n != nil {
		if !isScalar(n) {
			return Step{}, configError(section, path+".workdir", "workdir must be a string")
		}
		step.Workdir = n.Value
	}
	if n := lookup(run, "skip_on_error"); n != nil {
		if err := n.Decode(&step.SkipOnError); err != nil {
			return Step{}, &ConfigError{Section: section, Item: path + ".skip_on_error", Message: "must be a boolean", Err: err}
		}
	}
	if n := lookup(run, "env"); n != nil {
		env, err := r.parseEnv(n, section, path+".env")
		if err != nil {
			return Step{}, err
		}
		step.Env = env
	}

	return step, nil
}

func newStep(command, section, path string) (Step, error) {
	if strings.TrimSpace(command) == "" {
		return Step{}, configError(section, path, "step command is empty")
	}
	return Step{Command: command}, nil
}

func indexed(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
