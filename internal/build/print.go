package build

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/heroku/color"
)

var highlight = color.New(color.FgGreen)

// Writes the selected jobs to the output writer.
//
// Each job is listed with its container name, source image, environment
// and steps. Environment values are printed as resolved, so callers that
// display the plan should resolve it in redacted mode.
func (b *Builder) PrintJobs() error {
	w := b.opts.Output
	jobs := b.selectJobs()

	if len(jobs) == 0 {
		var err error
		if b.opts.Filter != "" {
			_, err = fmt.Fprintf(w, "No jobs match filter %q\n", b.opts.Filter)
		} else {
			_, err = fmt.Fprintln(w, "No jobs in config")
		}
		return err
	}

	var sb strings.Builder
	for _, job := range jobs {
		sb.WriteString("Job:\n")
		fmt.Fprintf(&sb, "   name: %s\n", highlight.Sprint(job.ContainerName()))
		fmt.Fprintf(&sb, "  image: %s\n", highlight.Sprint(job.Image))

		if len(job.Env) == 0 {
			sb.WriteString("    env: <none>\n")
		} else {
			sb.WriteString("    env:\n")
			for _, k := range slices.Sorted(maps.Keys(job.Env)) {
				fmt.Fprintf(&sb, "         %s\n", highlight.Sprint(k+"="+job.Env[k]))
			}
		}

		sb.WriteString("  steps:\n")
		for _, step := range job.Steps {
			line := step.Command
			if step.Name != "" {
				line = step.Name + ": " + step.Command
			}
			fmt.Fprintf(&sb, "         %s\n", highlight.Sprint(line))
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
