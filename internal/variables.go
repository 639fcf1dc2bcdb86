package internal

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const (

	// Program name, used in usage output.
	Name = "dockerpack"

	// Version reported by development builds.
	develVersion = "(devel)"

	// Length of the commit hash shown in version strings.
	shortCommit = 12
)

var (
	version   = "" // Version number (e.g., "1.2.3"), set via ldflags.
	gitCommit = "" // Git commit hash (e.g., "a1b2c3d4"), set via ldflags.

	rawQuiet   = "false" // Whether to enable quiet mode
	rawDebug   = "false" // Whether to enable debug mode
	rawVerbose = "false" // Whether to enable verbose logging
)

// Returns the current version.
//
// Linker flags take precedence. Otherwise the main module version recorded
// by the Go toolchain is used, which is set for "go install pkg@version"
// builds. A "v" prefix is stripped. Returns "(devel)" when neither is known.
func Version() string {
	v := strings.TrimSpace(version)
	if v == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			v = info.Main.Version
		}
	}
	return normalizeVersion(v)
}

// Returns the git commit the binary was built from, or an empty string.
//
// Linker flags take precedence over the VCS revision stamped by the Go
// toolchain.
func GitCommit() string {
	if c := strings.TrimSpace(gitCommit); c != "" {
		return c
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return ""
}

// Returns a detailed version string of the form
// "<version> (<commit>) <os>/<arch>". The commit is omitted when unknown.
func VersionString() string {
	return formatVersion(Version(), GitCommit(), runtime.GOOS+"/"+runtime.GOARCH)
}

func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == develVersion {
		return develVersion
	}
	return strings.TrimPrefix(strings.ToLower(v), "v")
}

func formatVersion(version, commit, platform string) string {
	if len(commit) > shortCommit {
		commit = commit[:shortCommit]
	}
	if commit == "" {
		return fmt.Sprintf("%s %s", version, platform)
	}
	return fmt.Sprintf("%s (%s) %s", version, commit, platform)
}
