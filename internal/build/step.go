package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cruciblehq/dockerpack/internal/pipeline"
	"github.com/cruciblehq/dockerpack/internal/runtime"
)

// Binds step completion queries and marks to one unit's collection in the
// state store.
type stepRecorder struct {
	completed func(hash string) bool // Reports whether the step completed earlier.
	mark      func(hash string)      // Marks the step as completed.
}

// Executes the unit's steps in order.
//
// Completed steps are skipped. After each successful step its completion is
// marked and the store saved before the next step starts. A skip-on-error
// step whose command fails is logged and passed over; it is never marked,
// whether it succeeds or not, and a failure to launch it is still fatal.
func (b *Builder) executeSteps(ctx context.Context, unit pipeline.Unit, rec stepRecorder) error {
	for i, step := range unit.StepList() {
		label := step.Label()
		hash := step.Hash()

		if rec.completed(hash) {
			slog.Info("skipping completed step", "step", label)
			continue
		}

		slog.Info(fmt.Sprintf("running step %s", label), "container", unit.ContainerName())

		if err := b.drv.Exec(ctx, unit, step); err != nil {
			var opErr *runtime.OperationError
			if step.SkipOnError && errors.As(err, &opErr) {
				slog.Warn("step failed, continuing", "step", label, "exit_code", opErr.ExitCode)
				continue
			}
			return fmt.Errorf("%w: step %d (%s): %w", ErrStep, i+1, label, err)
		}

		if step.SkipOnError {
			continue
		}

		rec.mark(hash)
		slog.Debug("step completed", "container", unit.ContainerName(), "step", label, "hash", hash)
		if err := b.store.Save(); err != nil {
			return err
		}
	}
	return nil
}
