package pipeline

import (
	"maps"

	"github.com/opencontainers/go-digest"
)

// A single shell command executed inside a unit's container.
type Step struct {
	Name        string            // Display name, optional. Part of the step identity.
	Command     string            // Shell command. Part of the step identity.
	Workdir     string            // Working directory override, optional.
	SkipOnError bool              // Whether a non-zero exit is ignored.
	Env         map[string]string // Environment overrides for this step only.
}

// Returns the hex SHA-256 digest of the step's name followed by its command.
//
// Two steps with the same name and command have the same hash regardless of
// the job they belong to, their working directory or their environment.
func (s Step) Hash() string {
	return digest.SHA256.FromString(s.Name + s.Command).Encoded()
}

// Returns the step's name, or its command when the step is unnamed.
func (s Step) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Command
}

// Returns a deep copy of the step.
func (s Step) Clone() Step {
	s.Env = maps.Clone(s.Env)
	return s
}

func cloneSteps(steps []Step) []Step {
	if steps == nil {
		return nil
	}
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = s.Clone()
	}
	return out
}
