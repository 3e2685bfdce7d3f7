// Package application resolves where repomirror keeps its own files and,
// by default, the mirror tree.
package application

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	// AppName is the application name used for directories and identification
	AppName = "repomirror"

	// EnvPrefix prefixes every environment variable read by the config loader
	EnvPrefix = "REPOMIRROR"

	// HomeEnv overrides the application directory (config file, profile store)
	HomeEnv = EnvPrefix + "_HOME"

	// DefaultMirrorDirName is the folder created under the home directory when
	// no mirror base directory is configured
	DefaultMirrorDirName = "repomirror"
)

var (
	once   sync.Once
	appDir string
	errDir error
)

// GetApplicationDirectory returns the directory holding repomirror.yaml and
// the profile store. The result is resolved once per process.
//
//	$REPOMIRROR_HOME when set
//	Linux: ~/.config/repomirror (via os.UserConfigDir)
//	Windows: C:\Users\{username}\AppData\Local\repomirror (via os.UserCacheDir)
func GetApplicationDirectory() (string, error) {
	once.Do(func() {
		appDir, errDir = applicationDirectory(runtime.GOOS, os.Getenv(HomeEnv))
	})

	if errDir != nil {
		return "", errDir
	}

	return appDir, nil
}

// DefaultMirrorDirectory returns ~/repomirror, the mirror base when neither
// --dir nor mirror.base_dir is set.
func DefaultMirrorDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, DefaultMirrorDirName), nil
}

func applicationDirectory(goos, override string) (string, error) {
	if override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", fmt.Errorf("invalid %s: %w", HomeEnv, err)
		}

		return abs, nil
	}

	var (
		baseDir string
		err     error
	)

	switch goos {
	case "windows":
		// Windows: use AppData\Local (via UserCacheDir)
		baseDir, err = os.UserCacheDir()
	default:
		// Linux/others: use ~/.config (via UserConfigDir)
		baseDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}

	return filepath.Join(baseDir, AppName), nil
}
