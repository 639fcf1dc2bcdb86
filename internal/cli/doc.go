// Parses flags, configures logging and runs dockerpack commands.
//
// The following global flags are accepted before the command:
//
//	-q, --quiet      Suppress informational output.
//	-v, --verbose    Include timestamps in log output.
//	-d, --debug      Enable debug output.
//	    --no-color   Disable coloured output.
//
// Commands that execute the pipeline (build, build-images) resolve the
// document, verify that the container runtime is available, and hand the
// plan to the build package. An interrupt cancels the running command; the
// state record is then removed and the command fails.
package cli
