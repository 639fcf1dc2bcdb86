package pipeline

import (
	"os"

	"github.com/cruciblehq/dockerpack/internal/environ"
	"github.com/cruciblehq/dockerpack/internal/paths"
)

const (

	// Working directory used when the document does not declare one.
	DefaultWorkdir = "~/project"

	// Shell used to run step commands when the document does not declare one.
	DefaultShell = "bash"

	// Name of the synthetic step prepended to jobs when checkout is set.
	CheckoutStepName = "checkout"
)

// Resolved pipeline, ready for execution.
//
// A Config is built once by [Resolve] and treated as read-only afterwards.
// Callers that need to adjust a unit work on a copy (see [Job.WithEnv]).
type Config struct {
	Debug           bool              // Lower log level to debug.
	CommandsVerbose bool              // Stream step output to the terminal.
	Sudo            bool              // Run the runtime executable through sudo.
	Workdir         string            // Default working directory inside containers.
	Shell           string            // Shell used to run step commands.
	Checkout        string            // Checkout command, empty when unset or copy-local is requested.
	Copy            []string          // Copy specs, "local[ remote]".
	Templates       map[string][]Step // Command templates by name, flattened.
	Jobs            []Job             // Jobs in declaration order.
	ImageBuilds     []ImageBuild      // Image builds in declaration order.
}

// Controls document resolution.
type Options struct {
	Cwd         string                       // Invocation working directory.
	CopyLocal   bool                         // Copy Cwd into the workdir instead of running checkout.
	Redacted    bool                         // Substitute a marker for "$ENV" values (display only).
	Env         environ.Source               // Environment for "$ENV" values and include paths. Defaults to [environ.OS].
	ReadFile    func(string) ([]byte, error) // Reads documents and fragments. Defaults to [os.ReadFile].
	IncludeDirs []string                     // Fallback directories for relative includes. Defaults to [paths.Includes].
}

func (o Options) withDefaults() Options {
	if o.Env == nil {
		o.Env = environ.OS
	}
	if o.ReadFile == nil {
		o.ReadFile = os.ReadFile
	}
	if o.IncludeDirs == nil {
		o.IncludeDirs = []string{paths.Includes()}
	}
	return o
}

func newConfig() *Config {
	return &Config{
		CommandsVerbose: true,
		Workdir:         DefaultWorkdir,
		Shell:           DefaultShell,
		Templates:       make(map[string][]Step),
	}
}

// Returns the steps of a template and whether it exists. The returned
// steps are copies.
func (c *Config) Template(name string) ([]Step, bool) {
	steps, ok := c.Templates[name]
	return cloneSteps(steps), ok
}
