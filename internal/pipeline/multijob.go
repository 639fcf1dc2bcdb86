package pipeline

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Replaces path and tag separators of an image reference.
var jobNameReplacer = strings.NewReplacer("/", "_", ".", "_", ":", "_")

// Derives a job name from an image reference, e.g. "debian:12.1" becomes
// "debian_12_1".
func multijobName(image string) string {
	return jobNameReplacer.Replace(image)
}

// Parses the "multijob" section into one job per image.
//
// Every image gets its own copy of the shared steps and the shared env. An
// image entry that is a map may carry an env overlay, which wins over the
// shared env on conflicting keys.
func (r *resolver) parseMultijob(node *yaml.Node) error {
	if !isMap(node) {
		return configError("multijob", "", "multijob node must be a map")
	}

	stepsNode := lookup(node, "steps")
	if stepsNode == nil {
		return configError("multijob", "steps", "multijob must have a step list")
	}
	if !isList(stepsNode) {
		return configError("multijob", "steps", "multijob steps must be a list")
	}

	imagesNode := lookup(node, "images")
	if imagesNode == nil {
		return configError("multijob", "images", "multijob must have an images list")
	}
	if !isList(imagesNode) {
		return configError("multijob", "images", "multijob images must be a list")
	}

	var shared map[string]string
	if n := lookup(node, "env"); n != nil {
		env, err := r.parseEnv(n, "multijob", "env")
		if err != nil {
			return err
		}
		shared = env
	}

	var workdir string
	if n := lookup(node, "workdir"); n != nil {
		if !isScalar(n) {
			return configError("multijob", "workdir", "workdir must be a string")
		}
		workdir = n.Value
	}

	// Multijob checkouts run where the shared steps do.
	checkoutDir := workdir
	if checkoutDir == "" {
		checkoutDir = r.cfg.Workdir
	}

	steps, err := r.parseSteps(stepsNode, "multijob", "steps")
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		return configError("multijob", "steps", "multijob has an empty steps list")
	}

	for i, entry := range items(imagesNode) {
		images, overlay, err := r.parseMultijobImage(entry, indexed("images", i))
		if err != nil {
			return err
		}

		for _, image := range images {
			r.cfg.Jobs = append(r.cfg.Jobs, Job{
				Name:    multijobName(image),
				Image:   image,
				Env:     mergeEnv(shared, overlay),
				Workdir: workdir,
				Steps:   r.withCheckout(steps, checkoutDir),
			})
		}
	}

	return nil
}

// Parses one entry of the multijob images list.
//
// Returns the image references the entry expands to and its env overlay.
func (r *resolver) parseMultijobImage(entry *yaml.Node, path string) ([]string, map[string]string, error) {
	if isScalar(entry) {
		if entry.Value == "" {
			return nil, nil, configError("multijob", path, "image must be a non-empty string")
		}
		return []string{entry.Value}, nil, nil
	}

	if !isMap(entry) {
		return nil, nil, configError("multijob", path, "image must be a string or a map")
	}

	var images []string
	if n := lookup(entry, "image"); n != nil && isScalar(n) && n.Value != "" {
		images = []string{n.Value}
	} else if n := lookup(entry, "images"); n != nil && isList(n) {
		list, ok := stringList(n)
		if !ok {
			return nil, nil, configError("multijob", path+".images", "images must be a list of strings")
		}
		images = list
	} else {
		return nil, nil, configError("multijob", path, "multijob image does not have an image or an image list")
	}

	var overlay map[string]string
	if n := lookup(entry, "env"); n != nil {
		env, err := r.parseEnv(n, "multijob", path+".env")
		if err != nil {
			return nil, nil, err
		}
		overlay = env
	}

	return images, overlay, nil
}
