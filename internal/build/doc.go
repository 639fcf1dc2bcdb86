// Package build executes a resolved pipeline against a container runtime.
//
// A [Builder] walks the plan in declaration order: image builds first, then
// jobs. Each selected unit gets a container started from its source image,
// the configured copy specs are applied, and its steps run one by one. After
// every step that succeeds the execution state is saved, so an interrupted
// run resumes at the first step that did not complete. Image build
// containers are committed as their target image; job containers are
// removed unless cleanup is disabled.
//
// Container operations are delegated to a [Driver], normally a
// *runtime.Runtime. Completion is tracked in a *state.Store, which is
// removed once every selected unit has succeeded.
//
// Example usage:
//
//	b := build.New(cfg, rt, store, build.Options{
//	    Filter: "api",
//	    Env:    map[string]string{"CI": "true"},
//	})
//
//	report, err := b.Build(ctx)
//	if err != nil {
//	    return err
//	}
//	slog.Info("done", "completed", report.Count(build.StateCompleted))
package build
