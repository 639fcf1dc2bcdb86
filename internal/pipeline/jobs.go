package pipeline

import (
	"strings"

	"github.com/distribution/reference"
	"gopkg.in/yaml.v3"
)

// Fields shared by job and image build entries.
type unitSpec struct {
	image   string
	env     map[string]string
	workdir string
	steps   []Step
}

// Parses the image, env, workdir and steps of a job or image build entry.
func (r *resolver) parseUnit(body *yaml.Node, section, name, kind string) (unitSpec, error) {
	var spec unitSpec

	if !isMap(body) {
		return spec, configError(section, name, "%s has invalid format, must be a map", kind)
	}

	image := lookup(body, "image")
	if image == nil {
		return spec, configError(section, name, "%s does not have a source image", kind)
	}
	if !isScalar(image) || image.Value == "" {
		return spec, configError(section, name+".image", "image must be a non-empty string")
	}
	spec.image = image.Value

	stepsNode := lookup(body, "steps")
	if stepsNode == nil {
		return spec, configError(section, name, "%s does not have a steps list", kind)
	}
	steps, err := r.parseSteps(stepsNode, section, name+".steps")
	if err != nil {
		return spec, err
	}
	if len(steps) == 0 {
		return spec, configError(section, name+".steps", "%s has an empty steps list", kind)
	}
	spec.steps = steps

	if n := lookup(body, "env"); n != nil {
		env, err := r.parseEnv(n, section, name+".env")
		if err != nil {
			return spec, err
		}
		spec.env = env
	}

	if n := lookup(body, "workdir"); n != nil {
		if !isScalar(n) {
			return spec, configError(section, name+".workdir", "workdir must be a string")
		}
		spec.workdir = n.Value
	}

	return spec, nil
}

// Parses the "jobs" section.
func (r *resolver) parseJobs(node *yaml.Node) error {
	if !isMap(node) {
		return configError("jobs", "", "jobs section must be a map")
	}

	for name, body := range pairs(node) {
		spec, err := r.parseUnit(body, "jobs", name, "job")
		if err != nil {
			return err
		}

		r.cfg.Jobs = append(r.cfg.Jobs, Job{
			Name:    name,
			Image:   spec.image,
			Env:     spec.env,
			Workdir: spec.workdir,
			Steps:   r.withCheckout(spec.steps, "/"),
		})
	}

	return nil
}

// Parses a "build_images" section of a document or fragment.
//
// Keys have the form "repo/name"; a key without a slash has no repository.
func (r *resolver) parseBuildImages(node *yaml.Node) error {
	if !isMap(node) {
		return configError("build_images", "", "build_images section must be a map")
	}

	for key, body := range pairs(node) {
		repo, name, ok := strings.Cut(key, "/")
		if !ok {
			repo, name = "", key
		}

		spec, err := r.parseUnit(body, "build_images", key, "image")
		if err != nil {
			return err
		}

		tag := lookup(body, "tag")
		if tag == nil {
			return configError("build_images", key, "image does not have a tag name")
		}
		if !isScalar(tag) || tag.Value == "" {
			return configError("build_images", key+".tag", "tag must be a non-empty string")
		}

		img := ImageBuild{
			Job: Job{
				Name:    name,
				Image:   spec.image,
				Env:     spec.env,
				Workdir: spec.workdir,
				Steps:   spec.steps,
			},
			Repo: repo,
			Tag:  tag.Value,
		}

		// The target must be a valid reference for commit and lookup.
		if _, err := reference.ParseNormalizedNamed(img.Reference()); err != nil {
			return &ConfigError{Section: "build_images", Item: key, Message: "invalid image reference " + img.Reference(), Err: err}
		}

		r.cfg.ImageBuilds = append(r.cfg.ImageBuilds, img)
	}

	return nil
}

// Returns steps preceded by the checkout step, if a checkout command is set.
// The checkout step runs in dir.
//
// The result never shares backing storage with steps.
func (r *resolver) withCheckout(steps []Step, dir string) []Step {
	out := make([]Step, 0, len(steps)+1)
	if r.cfg.Checkout != "" {
		out = append(out, Step{
			Name:        CheckoutStepName,
			Command:     r.cfg.Checkout,
			SkipOnError: true,
			Workdir:     dir,
		})
	}
	return append(out, cloneSteps(steps)...)
}
