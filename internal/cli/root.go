package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/heroku/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/cruciblehq/dockerpack/internal"
)

// Represents the root command for dockerpack.
var RootCmd struct {
	Quiet       bool           `short:"q" help:"Suppress informational output."`
	Verbose     bool           `short:"v" help:"Include timestamps in log output."`
	Debug       bool           `short:"d" help:"Enable debug output."`
	NoColor     bool           `name:"no-color" help:"Disable coloured output."`
	Build       BuildCmd       `cmd:"" help:"Build images, then run jobs."`
	BuildImages BuildImagesCmd `cmd:"" name:"build-images" help:"Build images only."`
	PrintJobs   PrintJobsCmd   `cmd:"" name:"print-jobs" help:"Print the resolved jobs."`
	Cleanup     CleanupCmd     `cmd:"" help:"Stop and remove pipeline containers and the state record."`
	Version     VersionCmd     `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Runs container build pipelines locally and resumes them after interruption."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()
	configureColor()

	return kongCtx.Run()
}

// Applies the logging flags on top of the build-time defaults.
func configureLogger() {
	internal.SetDebug(RootCmd.Debug || internal.IsDebug())
	internal.SetQuiet(RootCmd.Quiet || internal.IsQuiet())
	internal.SetVerbose(RootCmd.Verbose || internal.IsVerbose())
}

// Disables colour when requested or when standard output is not a terminal.
func configureColor() {
	if RootCmd.NoColor || !isTerminal(os.Stdout) {
		color.Disable(true)
	}
}

// Whether the given file is an interactive terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Returns writers for program output that translate colour sequences on
// consoles that need it.
func outputs() (stdout, stderr io.Writer) {
	return colorable.NewColorableStdout(), colorable.NewColorableStderr()
}
