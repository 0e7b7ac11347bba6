package session

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDir = "backoffice"

// DefaultDurableDir returns $XDG_CONFIG_HOME/backoffice, falling back to
// ~/.config/backoffice.
func DefaultDurableDir() string {
	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), appDir+"-config")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, appDir)
}

// DefaultEphemeralDir returns $XDG_RUNTIME_DIR/backoffice. The runtime
// directory is removed by the system when the user's last login session
// ends. Without one, a per-user directory under the temp dir is used.
func DefaultEphemeralDir() string {
	if runtimeDirectory := os.Getenv("XDG_RUNTIME_DIR"); runtimeDirectory != "" {
		return filepath.Join(runtimeDirectory, appDir)
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d", appDir, os.Getuid()))
}
