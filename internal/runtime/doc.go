// Package runtime drives containers through the docker command line.
//
// A [Runtime] is a synchronous facade over container lifecycle operations.
// Every operation runs the runtime executable (docker, optionally through
// sudo) as a child process via an [Executor], waits for it to exit, and
// turns a non-zero exit into an [OperationError]. Nothing runs in the
// background; output relays are joined before an exit code is read.
//
// Containers are identified by name. Only containers whose names carry the
// pipeline suffix are considered, and the set of known containers is
// refreshed from the runtime before every decision that depends on it, so
// containers left behind by an interrupted run are picked up again.
//
// Example usage:
//
//	rt := runtime.New(runtime.NewExecutor(), runtime.Options{
//	    Shell:   "bash",
//	    Workdir: "~/project",
//	    Verbose: true,
//	})
//	if err := rt.CheckAvailable(); err != nil {
//	    return err
//	}
//
//	if err := rt.Run(ctx, job); err != nil {
//	    return err
//	}
//	defer rt.Remove(ctx, job.ContainerName())
//
//	for _, step := range job.Steps {
//	    if err := rt.Exec(ctx, job, step); err != nil {
//	        return err
//	    }
//	}
package runtime
