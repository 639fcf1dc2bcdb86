package pipeline

import (
	"maps"
)

// Suffix appended to unit names to form container names.
const ContainerSuffix = "_dockerpack"

// Capabilities shared by jobs and image builds.
//
// The runtime and the orchestrator treat both kinds uniformly through this
// interface; the values returned must not be modified.
type Unit interface {
	ContainerName() string
	BaseImage() string
	Environ() map[string]string
	DefaultWorkdir() string
	StepList() []Step
}

// A named pipeline run inside a container started from Image.
type Job struct {
	Name    string            // Job name.
	Image   string            // Source image reference.
	Env     map[string]string // Environment injected into the container.
	Workdir string            // Default working directory for steps, optional.
	Steps   []Step            // Flattened steps, in execution order.
}

// Returns the name of the container running this job.
func (j Job) ContainerName() string {
	return j.Name + ContainerSuffix
}

// Returns the source image reference.
func (j Job) BaseImage() string {
	return j.Image
}

// Returns the job environment.
func (j Job) Environ() map[string]string {
	return j.Env
}

// Returns the unit-level working directory.
func (j Job) DefaultWorkdir() string {
	return j.Workdir
}

// Returns the flattened steps.
func (j Job) StepList() []Step {
	return j.Steps
}

// Returns a deep copy of the job.
func (j Job) Clone() Job {
	j.Env = maps.Clone(j.Env)
	j.Steps = cloneSteps(j.Steps)
	return j
}

// Returns a copy of the job with extra merged into its environment.
//
// Values from extra win over existing values. The receiver is not modified.
func (j Job) WithEnv(extra map[string]string) Job {
	c := j.Clone()
	if len(extra) == 0 {
		return c
	}
	if c.Env == nil {
		c.Env = make(map[string]string, len(extra))
	}
	maps.Copy(c.Env, extra)
	return c
}

// A job whose container is committed as a new image once its steps succeed.
type ImageBuild struct {
	Job
	Repo string // Target repository prefix, optional.
	Tag  string // Target tag.
}

// Returns "repo/name", or just the name when no repository is set.
func (b ImageBuild) FullName() string {
	if b.Repo != "" {
		return b.Repo + "/" + b.Name
	}
	return b.Name
}

// Returns the target image reference, "repo/name:tag".
func (b ImageBuild) Reference() string {
	return b.FullName() + ":" + b.Tag
}

// Returns a copy of the image build with extra merged into its environment.
func (b ImageBuild) WithEnv(extra map[string]string) ImageBuild {
	b.Job = b.Job.WithEnv(extra)
	return b
}
