package runtime

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/distribution/reference"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/cruciblehq/dockerpack/internal/pipeline"
)

// Placeholder printed by the runtime for untagged images.
const untagged = "<none>"

// Commits the image build's container as its target image.
//
// The image is labelled with its creation time and the image it was built
// from, using the OCI annotation keys.
func (rt *Runtime) Commit(ctx context.Context, build pipeline.ImageBuild) error {
	name := build.ContainerName()
	if err := rt.requireContainer(ctx, name); err != nil {
		return err
	}

	created := time.Now().UTC().Format(time.RFC3339)
	_, err := rt.output(ctx, "commit",
		"--change", "LABEL "+ocispec.AnnotationCreated+"="+created,
		"--change", "LABEL "+ocispec.AnnotationBaseImageName+"="+build.BaseImage(),
		name, build.Reference(),
	)
	if err != nil {
		return err
	}

	slog.Debug("image committed", "container", name, "image", build.Reference())
	return nil
}

// Returns the tagged images known to the runtime.
//
// Entries without a repository or tag are skipped, as are entries that do
// not parse as references.
func (rt *Runtime) ListImages(ctx context.Context) ([]reference.NamedTagged, error) {
	out, err := rt.output(ctx, "images", "--format", "{{.Repository}}:{{.Tag}}")
	if err != nil {
		return nil, err
	}
	return parseImages(out), nil
}

func parseImages(out string) []reference.NamedTagged {
	var images []reference.NamedTagged
	for line := range strings.Lines(out) {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, untagged) {
			continue
		}

		named, err := reference.ParseNormalizedNamed(line)
		if err != nil {
			slog.Debug("skipping image", "reference", line, "error", err)
			continue
		}
		if tagged, ok := named.(reference.NamedTagged); ok {
			images = append(images, tagged)
		}
	}
	return images
}

// Reports whether the runtime has an image with the given reference.
//
// References are compared in normalized form, so "app:1" matches
// "docker.io/library/app:1".
func (rt *Runtime) HasImage(ctx context.Context, ref string) (bool, error) {
	want, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return false, err
	}
	want = reference.TagNameOnly(want)

	images, err := rt.ListImages(ctx)
	if err != nil {
		return false, err
	}
	for _, img := range images {
		if img.String() == want.String() {
			return true, nil
		}
	}
	return false, nil
}
