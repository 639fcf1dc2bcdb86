package pipeline

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cruciblehq/dockerpack/internal/environ"
)

const (

	// Env value replaced by the process environment variable of the same key.
	envSentinel = "$ENV"

	// Value shown in place of sentinel-substituted variables in redacted mode.
	RedactedValue = "**REDACTED**"
)

// Parses an env map, substituting sentinel values.
//
// A value equal to "$ENV" (in any case) takes the value of the same-named
// variable from the environment, or an empty string if unset. In redacted
// mode the marker is used instead so secrets never reach the output.
func (r *resolver) parseEnv(node *yaml.Node, section, path string) (map[string]string, error) {
	if isNull(node) {
		return nil, nil
	}
	if !isMap(node) {
		return nil, configError(section, path, "env must be a map")
	}

	env := make(map[string]string, len(node.Content)/2)
	for key, value := range pairs(node) {
		if !isScalar(value) {
			return nil, configError(section, path+"."+key, "env value must be a scalar")
		}

		v := value.Value
		if strings.EqualFold(v, envSentinel) {
			if r.opts.Redacted {
				v = RedactedValue
			} else {
				v = environ.Get(r.opts.Env, key)
			}
		}
		env[key] = v
	}

	return env, nil
}

// Returns base with overlay merged on top. Neither input is modified.
func mergeEnv(base, overlay map[string]string) map[string]string {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
