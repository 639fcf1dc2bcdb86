package cli

import (
	"context"
)

// Represents the 'dockerpack build' command.
type BuildCmd struct {
	Document  documentFlags  `embed:""`
	Execution executionFlags `embed:""`
	NoCleanup bool           `name:"no-cleanup" help:"Leave job containers running after they succeed."`
}

// Executes the build command.
//
// Image builds run first, then jobs. The state record is removed after both
// succeed.
func (c *BuildCmd) Run(ctx context.Context) error {
	s, err := openSession(c.Document, sessionOptions{copyLocal: c.Execution.CopyLocal, runtime: true})
	if err != nil {
		return err
	}

	report, err := s.builder(c.Document, c.Execution, c.NoCleanup).Build(ctx)
	return s.finish(ctx, report, err)
}

// Represents the 'dockerpack build-images' command.
type BuildImagesCmd struct {
	Document  documentFlags  `embed:""`
	Execution executionFlags `embed:""`
}

// Executes the build-images command.
func (c *BuildImagesCmd) Run(ctx context.Context) error {
	s, err := openSession(c.Document, sessionOptions{copyLocal: c.Execution.CopyLocal, runtime: true})
	if err != nil {
		return err
	}

	report, err := s.builder(c.Document, c.Execution, false).BuildImages(ctx)
	return s.finish(ctx, report, err)
}
