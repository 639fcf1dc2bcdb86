package build

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cruciblehq/dockerpack/internal/pipeline"
)

// Builds image builds in order, stopping at the first failure.
func (b *Builder) buildImages(ctx context.Context, images []pipeline.ImageBuild, report *Report) error {
	for _, img := range images {
		state, err := b.buildImage(ctx, img)
		if err != nil {
			report.set(KindImage, img.Name, StateFailed)
			return unitError(KindImage, img.Name, err)
		}
		report.set(KindImage, img.Name, state)
	}
	return nil
}

// Builds a single image: start, copy, steps, commit, then stop and remove
// the container.
//
// The image is skipped when it is recorded as completed or when the target
// reference already exists in the runtime.
func (b *Builder) buildImage(ctx context.Context, img pipeline.ImageBuild) (State, error) {
	name := img.ContainerName()
	ref := img.Reference()

	if b.store.HasCompletedJob(name) {
		slog.Info("skipping completed image build", "image", ref)
		return StateSkipped, nil
	}

	exists, err := b.drv.HasImage(ctx, ref)
	if err != nil {
		return StateFailed, err
	}
	if exists {
		slog.Info("skipping existing image", "image", ref)
		return StateSkipped, nil
	}

	slog.Info(fmt.Sprintf("building image %s", ref), "from", img.Image)

	img = img.WithEnv(b.opts.Env)

	if err := b.start(ctx, img); err != nil {
		return StateFailed, err
	}

	steps := stepRecorder{
		completed: func(hash string) bool { return b.store.HasCompletedBuildStep(name, hash) },
		mark:      func(hash string) { b.store.MarkBuildStepCompleted(name, hash) },
	}
	if err := b.executeSteps(ctx, img, steps); err != nil {
		return StateFailed, err
	}

	if err := b.drv.Commit(ctx, img); err != nil {
		return StateFailed, err
	}
	if err := b.teardown(ctx, name); err != nil {
		return StateFailed, err
	}

	b.store.MarkJobCompleted(name)
	if err := b.store.Save(); err != nil {
		return StateFailed, err
	}

	slog.Info("image built", "image", ref)
	return StateCompleted, nil
}

// Runs jobs in order, stopping at the first failure.
func (b *Builder) buildJobs(ctx context.Context, jobs []pipeline.Job, report *Report) error {
	for _, job := range jobs {
		state, err := b.buildJob(ctx, job)
		if err != nil {
			report.set(KindJob, job.Name, StateFailed)
			return unitError(KindJob, job.Name, err)
		}
		report.set(KindJob, job.Name, state)
	}
	return nil
}

// Runs a single job: start, copy, steps, then stop and remove the container
// unless cleanup is disabled.
func (b *Builder) buildJob(ctx context.Context, job pipeline.Job) (State, error) {
	name := job.ContainerName()

	if b.store.HasCompletedJob(name) {
		slog.Info("skipping completed job", "job", job.Name)
		return StateSkipped, nil
	}

	job = job.WithEnv(b.opts.Env)

	if b.opts.Stateless {
		exists, err := b.drv.HasContainer(ctx, name)
		if err != nil {
			return StateFailed, err
		}
		if exists {
			slog.Debug("replacing existing container", "name", name)
			if err := b.teardown(ctx, name); err != nil {
				return StateFailed, err
			}
		}
	}

	slog.Info(fmt.Sprintf("starting job %s", job.Name), "image", job.Image)

	if err := b.start(ctx, job); err != nil {
		return StateFailed, err
	}

	steps := stepRecorder{
		completed: func(hash string) bool { return b.store.HasCompletedStep(name, hash) },
		mark:      func(hash string) { b.store.MarkStepCompleted(name, hash) },
	}
	if err := b.executeSteps(ctx, job, steps); err != nil {
		return StateFailed, err
	}

	if !b.opts.NoCleanup {
		if err := b.teardown(ctx, name); err != nil {
			return StateFailed, err
		}
	}

	b.store.MarkJobCompleted(name)
	if err := b.store.Save(); err != nil {
		return StateFailed, err
	}

	slog.Info("job done", "job", job.Name)
	return StateCompleted, nil
}

// Starts or reuses the unit's container and applies the copy specs.
func (b *Builder) start(ctx context.Context, unit pipeline.Unit) error {
	if err := b.drv.Run(ctx, unit); err != nil {
		return err
	}
	for _, spec := range b.cfg.Copy {
		slog.Info("copying", "spec", spec)
		if err := b.drv.Copy(ctx, unit, spec); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrCopy, spec, err)
		}
	}
	return nil
}

// Stops and removes the named container.
func (b *Builder) teardown(ctx context.Context, name string) error {
	if err := b.drv.Stop(ctx, name); err != nil {
		return err
	}
	return b.drv.Remove(ctx, name)
}
