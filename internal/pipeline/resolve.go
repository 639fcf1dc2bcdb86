package pipeline

import (
	"log/slog"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Holds the state accumulated while resolving one document and its includes.
type resolver struct {
	opts  Options  // Resolution options, with defaults applied.
	cfg   *Config  // Plan under construction.
	stack []string // Include chain currently being resolved, for cycle detection.
}

// Reads the pipeline document at path and resolves it into a [Config].
//
// Relative includes are resolved against the directory containing path.
func Resolve(path string, opts Options) (*Config, error) {
	opts = opts.withDefaults()

	data, err := opts.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading pipeline %s", path)
	}

	r := &resolver{opts: opts, cfg: newConfig()}
	r.stack = append(r.stack, cleanPath(path))

	if err := r.resolve(data, filepath.Dir(path)); err != nil {
		return nil, err
	}
	return r.cfg, nil
}

// Resolves an in-memory pipeline document into a [Config].
//
// Relative includes are resolved against opts.Cwd.
func Parse(data []byte, opts Options) (*Config, error) {
	opts = opts.withDefaults()

	r := &resolver{opts: opts, cfg: newConfig()}
	if err := r.resolve(data, opts.Cwd); err != nil {
		return nil, err
	}
	return r.cfg, nil
}

// Resolves the top-level document.
//
// Includes are loaded before the document's own commands so that templates
// defined by fragments are visible to it. Sections are validated for
// presence before any template is parsed.
func (r *resolver) resolve(data []byte, dir string) error {
	root, err := parseDocument(data)
	if err != nil {
		return errors.Wrap(err, "parsing pipeline")
	}
	if !isMap(root) {
		return configError(".", "", "pipeline document must be a map")
	}

	if err := r.parseSettings(root); err != nil {
		return err
	}

	if n := lookup(root, "include"); n != nil {
		if err := r.parseIncludes(n, dir); err != nil {
			return err
		}
	}

	commands := lookup(root, "commands")
	if commands == nil {
		return configError(".", "commands", "config file does not include \"commands\" section")
	}

	jobs := lookup(root, "jobs")
	multijob := lookup(root, "multijob")
	switch {
	case jobs == nil && multijob == nil:
		return configError("jobs|multijob", "", "config file does not include \"jobs\" or \"multijob\" section")
	case jobs != nil && multijob != nil:
		return configError("jobs|multijob", "", "\"jobs\" and \"multijob\" are mutually exclusive")
	}

	if err := r.parseCommands(commands); err != nil {
		return err
	}

	if n := lookup(root, "build_images"); n != nil {
		if err := r.parseBuildImages(n); err != nil {
			return err
		}
	}

	if jobs != nil {
		return r.parseJobs(jobs)
	}
	return r.parseMultijob(multijob)
}

// Parses the global settings: flags, workdir, shell, checkout and copy.
func (r *resolver) parseSettings(root *yaml.Node) error {
	for _, flag := range []struct {
		key string
		dst *bool
	}{
		{"debug", &r.cfg.Debug},
		{"commands_verbose", &r.cfg.CommandsVerbose},
		{"sudo", &r.cfg.Sudo},
	} {
		n := lookup(root, flag.key)
		if n == nil {
			continue
		}
		if err := n.Decode(flag.dst); err != nil {
			return &ConfigError{Section: flag.key, Message: "must be a boolean", Err: err}
		}
	}

	for _, setting := range []struct {
		key string
		dst *string
	}{
		{"workdir", &r.cfg.Workdir},
		{"shell", &r.cfg.Shell},
	} {
		n := lookup(root, setting.key)
		if n == nil {
			continue
		}
		if !isScalar(n) || n.Value == "" {
			return configError(setting.key, "", "%s section must be a non-empty string", setting.key)
		}
		*setting.dst = n.Value
	}

	if n := lookup(root, "checkout"); n != nil && !r.opts.CopyLocal {
		if !isScalar(n) {
			return configError("checkout", "", "checkout section must be a string")
		}
		r.cfg.Checkout = n.Value
	}

	if n := lookup(root, "copy"); n != nil {
		specs, ok := stringList(n)
		if !ok {
			return configError("copy", "", "copy section must be a string or a list of strings")
		}
		r.cfg.Copy = specs
	}

	if r.opts.CopyLocal {
		r.cfg.Copy = append(r.cfg.Copy, r.opts.Cwd+"/. "+r.cfg.Workdir)
	}

	return nil
}

// Parses the "commands" section of a document or fragment.
//
// The first definition of a template name wins; later definitions, whether
// from the same document or another fragment, are ignored.
func (r *resolver) parseCommands(node *yaml.Node) error {
	if isNull(node) {
		return nil
	}
	if !isMap(node) {
		return configError("commands", "", "commands section must be a map")
	}

	for name, body := range pairs(node) {
		if _, ok := r.cfg.Templates[name]; ok {
			slog.Debug("ignoring duplicate command definition", "command", name)
			continue
		}

		stepsNode := lookup(body, "steps")
		if stepsNode == nil {
			return configError("commands", name, "command does not have a steps list")
		}

		steps, err := r.parseSteps(stepsNode, "commands", name+".steps")
		if err != nil {
			return err
		}

		for i, step := range steps {
			if step.Command == name {
				return &ConfigError{
					Section: "commands",
					Item:    indexed(name+".steps", i),
					Message: "invalid command",
					Err:     ErrSelfReference,
				}
			}
		}

		r.cfg.Templates[name] = steps
	}

	return nil
}

func cleanPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
