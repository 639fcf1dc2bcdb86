package cli

import (
	"context"
)

// Represents the 'dockerpack print-jobs' command.
type PrintJobsCmd struct {
	Document documentFlags `embed:""`
}

// Executes the print-jobs command.
//
// Values taken from the invoking environment are redacted.
func (c *PrintJobsCmd) Run(ctx context.Context) error {
	s, err := openSession(c.Document, sessionOptions{redacted: true})
	if err != nil {
		return err
	}
	return s.builder(c.Document, executionFlags{}, false).PrintJobs()
}
