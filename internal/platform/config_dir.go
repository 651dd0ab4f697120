package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDir returns the OS-standard configuration directory, falling back to
// the conventional location under the home directory when the environment
// does not name one.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}
	return fallbackConfigDir(runtime.GOOS, homeDir), nil
}

// AppDir returns the directory holding appName's settings and data.
func AppDir(appName string) (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

func fallbackConfigDir(goos, homeDir string) string {
	switch goos {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support")
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming")
	default:
		return filepath.Join(homeDir, ".config")
	}
}
