package main

import (
	"log/slog"
	"os"

	"github.com/cruciblehq/dockerpack/internal"
	"github.com/cruciblehq/dockerpack/internal/cli"
)

// The entry point for dockerpack.
//
// Initializes logging, displays startup information, and executes the root
// command. If any error occurs during execution, it exits with a non-zero code.
func main() {
	slog.SetDefault(logger())

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("dockerpack is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// Creates a text logger on stderr whose level follows the shared level
// variable, seeded from build-time linker flags and updated after flag
// parsing via cli.Execute.
func logger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       internal.LogLevel(),
		ReplaceAttr: replaceAttr,
	})
	return slog.New(handler)
}

// Drops the timestamp from top-level records unless verbose logging is on.
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey && !internal.IsVerbose() {
		return slog.Attr{}
	}
	return a
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
