package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/cruciblehq/dockerpack/internal/pipeline"
	"github.com/cruciblehq/dockerpack/internal/state"
)

// Controls pipeline execution.
type Options struct {
	Filter    string            // Case-insensitive substring selecting units. Empty selects all.
	Reset     bool              // Remove the state record before running.
	Stateless bool              // Disable the state store and replace existing job containers.
	NoCleanup bool              // Leave job containers behind after they succeed.
	Env       map[string]string // Environment merged over every unit's environment.
	Output    io.Writer         // Destination of [Builder.PrintJobs]. Defaults to os.Stdout.
}

// Executes a resolved pipeline.
type Builder struct {
	cfg   *pipeline.Config // Resolved pipeline, read-only.
	drv   Driver           // Container operations.
	store *state.Store     // Completion record.
	opts  Options          // Run options.
}

// Creates a builder for cfg.
//
// In stateless mode the store is disabled here, so it neither answers
// queries nor touches the record for the lifetime of the builder.
func New(cfg *pipeline.Config, drv Driver, store *state.Store, opts Options) *Builder {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Stateless {
		store.Enable(false)
	}
	return &Builder{cfg: cfg, drv: drv, store: store, opts: opts}
}

// Builds the selected image builds, then the selected jobs.
//
// The state record is removed once, after both phases succeed.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	images, jobs := b.selectImages(), b.selectJobs()
	report := newReport(images, jobs)

	if err := b.prepare(); err != nil {
		return report, err
	}
	if err := b.buildImages(ctx, images, report); err != nil {
		return report, err
	}
	if err := b.buildJobs(ctx, jobs, report); err != nil {
		return report, err
	}
	return report, b.finish(len(report.Units))
}

// Builds the selected image builds only.
func (b *Builder) BuildImages(ctx context.Context) (*Report, error) {
	images := b.selectImages()
	report := newReport(images, nil)

	if err := b.prepare(); err != nil {
		return report, err
	}
	if err := b.buildImages(ctx, images, report); err != nil {
		return report, err
	}
	return report, b.finish(len(images))
}

// Runs the selected jobs only.
func (b *Builder) BuildJobs(ctx context.Context) (*Report, error) {
	jobs := b.selectJobs()
	report := newReport(nil, jobs)

	if err := b.prepare(); err != nil {
		return report, err
	}
	if err := b.buildJobs(ctx, jobs, report); err != nil {
		return report, err
	}
	return report, b.finish(len(jobs))
}

// Applies the reset option and loads the state record.
func (b *Builder) prepare() error {
	if b.opts.Reset {
		if err := b.store.Remove(); err != nil {
			return err
		}
	}
	if err := b.store.Load(); err != nil {
		return err
	}
	if last := b.store.LastBuild(); !last.IsZero() {
		slog.Info("resuming build started " + humanize.Time(last))
	}
	return nil
}

// Removes the state record after a successful run that selected at least
// one unit.
func (b *Builder) finish(selected int) error {
	if selected == 0 {
		if b.opts.Filter != "" {
			slog.Info("nothing to run", "filter", b.opts.Filter)
		} else {
			slog.Info("nothing to run")
		}
		return nil
	}
	return b.store.Remove()
}

func newReport(images []pipeline.ImageBuild, jobs []pipeline.Job) *Report {
	r := &Report{}
	for _, img := range images {
		r.add(img.Name, KindImage)
	}
	for _, job := range jobs {
		r.add(job.Name, KindJob)
	}
	return r
}

// Returns the image builds selected by the filter.
//
// An image build matches on its container name, source image or target
// repository.
func (b *Builder) selectImages() []pipeline.ImageBuild {
	var out []pipeline.ImageBuild
	for _, img := range b.cfg.ImageBuilds {
		if matches(b.opts.Filter, img.ContainerName(), img.Image, img.Repo) {
			out = append(out, img)
		}
	}
	return out
}

// Returns the jobs selected by the filter.
//
// A job matches on its container name or source image.
func (b *Builder) selectJobs() []pipeline.Job {
	var out []pipeline.Job
	for _, job := range b.cfg.Jobs {
		if matches(b.opts.Filter, job.ContainerName(), job.Image) {
			out = append(out, job)
		}
	}
	return out
}

// Reports whether any field contains filter, ignoring case. An empty filter
// matches everything.
func matches(filter string, fields ...string) bool {
	if filter == "" {
		return true
	}
	filter = strings.ToLower(filter)
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), filter) {
			return true
		}
	}
	return false
}

// Wraps a unit failure with its kind and name.
func unitError(kind Kind, name string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrBuild, kind, name, err)
}
