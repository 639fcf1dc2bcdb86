package cli

import (
	"context"
	"fmt"
)

// Represents the 'dockerpack cleanup' command.
type CleanupCmd struct {
	Document documentFlags `embed:""`
}

// Executes the cleanup command.
//
// Removes the state record, then stops and removes the pipeline containers
// selected by the filter.
func (c *CleanupCmd) Run(ctx context.Context) error {
	s, err := openSession(c.Document, sessionOptions{runtime: true})
	if err != nil {
		return err
	}

	n, err := s.builder(c.Document, executionFlags{}, false).Cleanup(ctx)
	if err != nil {
		return err
	}

	stdout, _ := outputs()
	if n == 0 {
		fmt.Fprintln(stdout, "Nothing to clean up")
		return nil
	}
	fmt.Fprintf(stdout, "Stopped and removed %d containers\n", n)
	return nil
}
