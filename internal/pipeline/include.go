package pipeline

import (
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cruciblehq/dockerpack/internal/environ"
)

// Loads the fragments listed in an "include" section, depth-first.
//
// Each fragment may declare its own includes, which are loaded before its
// commands and image builds. A fragment that appears again in its own
// include chain is rejected with [ErrIncludeCycle].
func (r *resolver) parseIncludes(node *yaml.Node, dir string) error {
	includes, ok := stringList(node)
	if !ok {
		return configError("include", "", "include section must be a string or a list of strings")
	}

	for _, include := range includes {
		if err := r.include(include, dir); err != nil {
			return err
		}
	}
	return nil
}

// Loads a single fragment and merges its templates and image builds.
func (r *resolver) include(include, dir string) error {
	path, data, err := r.locate(include, dir)
	if err != nil {
		return err
	}

	slog.Debug("including fragment", "path", path)

	root, err := parseDocument(data)
	if err != nil {
		return &ConfigError{Section: "include", Item: include, Message: "unable to parse include", Err: err}
	}
	if !isMap(root) {
		return configError("include", include, "include must be a map")
	}

	r.stack = append(r.stack, path)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	if n := lookup(root, "include"); n != nil {
		if err := r.parseIncludes(n, filepath.Dir(path)); err != nil {
			return err
		}
	}
	if n := lookup(root, "commands"); n != nil {
		if err := r.parseCommands(n); err != nil {
			return err
		}
	}
	if n := lookup(root, "build_images"); n != nil {
		if err := r.parseBuildImages(n); err != nil {
			return err
		}
	}
	return nil
}

// Finds and reads a fragment.
//
// The include path is expanded through the environment ("~", "$VAR"). An
// absolute path is read as-is. A relative path is tried against the
// including document's directory first, then against each fallback include
// directory. The error from the first candidate is reported if none can be
// read.
func (r *resolver) locate(include, dir string) (string, []byte, error) {
	p := environ.Expand(strings.TrimSpace(include), r.opts.Env)

	var candidates []string
	if filepath.IsAbs(p) {
		candidates = []string{p}
	} else {
		candidates = append(candidates, filepath.Join(dir, p))
		for _, d := range r.opts.IncludeDirs {
			candidates = append(candidates, filepath.Join(d, p))
		}
	}

	var firstErr error
	for _, candidate := range candidates {
		candidate = cleanPath(candidate)
		if slices.Contains(r.stack, candidate) {
			return "", nil, &ConfigError{Section: "include", Item: include, Message: "unable to load include", Err: ErrIncludeCycle}
		}

		data, err := r.opts.ReadFile(candidate)
		if err == nil {
			return candidate, data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return "", nil, &ConfigError{Section: "include", Item: include, Message: "unable to load include", Err: firstErr}
}
