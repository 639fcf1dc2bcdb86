package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	appName = "dockerpack"

	// File name of the pipeline document looked up in the working directory.
	ConfigFileName = "dockerpack.yml"

	// File name of the persisted execution state.
	StateFileName = "dockerpack.lock"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Directory searched for include fragments that are not found next to the
// including document.
//
//	Linux:   $XDG_CONFIG_HOME/dockerpack/include
//	macOS:   ~/Library/Application Support/dockerpack/include
func Includes() string {
	return filepath.Join(xdg.ConfigHome, appName, "include")
}

// Default path of the pipeline document for the given working directory.
func ConfigFile(cwd string) string {
	return filepath.Join(cwd, ConfigFileName)
}

// Path of the state record for the given working directory.
func StateFile(cwd string) string {
	return filepath.Join(cwd, StateFileName)
}
