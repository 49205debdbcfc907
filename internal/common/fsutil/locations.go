// fsutil/locations.go
package fsutil

import (
	"os"
	"path/filepath"

	"github.com/deploymenttheory/go-job-composer/internal/common/osutil"
)

// GetHomeDir returns the current user's home directory
func GetHomeDir() (string, error) {
	return os.UserHomeDir()
}

// GetConfigDir returns the OS-specific configuration directory for the application
func GetConfigDir(appName string) (string, error) {
	home, err := GetHomeDir()
	if err != nil {
		return "", err
	}

	switch {
	case osutil.IsWindows():
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, appName), nil
	case osutil.IsMacOS():
		return filepath.Join(home, "Library", "Application Support", appName), nil
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		return filepath.Join(home, ".config", appName), nil
	}
}
