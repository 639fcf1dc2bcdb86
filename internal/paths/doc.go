// Provides the file locations used by dockerpack.
//
// The pipeline document and the state record live in the directory the
// tool is invoked from. Shared include fragments follow XDG conventions on
// Linux and platform-native conventions on macOS and Windows, with
// "dockerpack" as the subdirectory under the base path.
package paths
