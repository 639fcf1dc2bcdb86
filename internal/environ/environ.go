package environ

import (
	"maps"
	"os"
	"slices"
	"strings"
)

// Key of the variable used to expand a leading "~".
const homeKey = "HOME"

// Read-only key-value lookup of environment variables.
type Source interface {
	LookupEnv(key string) (string, bool)
}

// Fixed set of environment variables.
type Map map[string]string

// Returns the value of key and whether it is set.
func (m Map) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Returns the variables as sorted "key=value" strings.
func (m Map) Environ() []string {
	keys := slices.Sorted(maps.Keys(m))
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+m[k])
	}
	return env
}

type osSource struct{}

func (osSource) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Source backed by the invoking process environment.
var OS Source = osSource{}

// Returns the value of key, or an empty string when it is unset.
func Get(src Source, key string) string {
	if src == nil {
		return ""
	}
	v, _ := src.LookupEnv(key)
	return v
}

// Parses "key=value" lines, as printed by env(1), into a [Map].
//
// Lines without a separator are skipped. Later duplicates win.
func Parse(output string) Map {
	m := make(Map)
	for line := range strings.Lines(output) {
		line = strings.TrimRight(line, "\r\n")
		if k, v, ok := strings.Cut(line, "="); ok && k != "" {
			m[k] = v
		}
	}
	return m
}

// Expands "~" and $VAR / ${VAR} references in s using src.
//
// A "~" is replaced with HOME when it is the whole string or is followed by
// a slash. Unset variables expand to an empty string.
func Expand(s string, src Source) string {
	s = ExpandHome(s, src)
	return os.Expand(s, func(key string) string {
		return Get(src, key)
	})
}

// Replaces a leading "~" with HOME from src.
//
// Any other occurrence of "~" is left untouched. When HOME is unset the
// string is returned as-is.
func ExpandHome(s string, src Source) string {
	if s != "~" && !strings.HasPrefix(s, "~/") {
		return s
	}
	home := Get(src, homeKey)
	if home == "" {
		return s
	}
	return home + s[1:]
}
