package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// OutputPath derives a result file name from the input path: the last
// extension of the file name is replaced by suffix, or suffix is appended
// when there is none. Dots in directory names and leading dots of hidden
// files are not extensions.
func OutputPath(inputPath, suffix string) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return inputPath + suffix
	}
	return strings.TrimSuffix(inputPath, ext) + suffix
}

// GetExecutableDir returns the directory of the current executable
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// UserConfigDir returns the platform config dir for app, without creating it.
func UserConfigDir(homeDir, app string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, app)
		}
		return filepath.Join(homeDir, ".config", app)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, app)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", app)
	default:
		return filepath.Join(homeDir, ".config", app)
	}
}
