// Package paths resolves where ranks keeps its config.yaml and its database.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "ranks"

// DataDirName is the working-directory-relative default for the database.
const DataDirName = ".ranks"

// Environment variable overrides.
const (
	EnvConfigDir = "RANKS_CONFIG_DIR"
	EnvDataDir   = "RANKS_DATA_DIR"
)

// Overridden in tests.
var (
	homeDir       = os.UserHomeDir
	userConfigDir = os.UserConfigDir
	getwd         = os.Getwd
)

// xdgDir returns $env/ranks when env is set, else ~/<fallback...>/ranks.
func xdgDir(env string, fallback ...string) (string, error) {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), AppName)...), nil
}

// DefaultConfigDir returns the per-user configuration directory:
// $XDG_CONFIG_HOME/ranks or ~/.config/ranks on Linux, os.UserConfigDir()/ranks
// elsewhere.
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	dir, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// ResolveConfigDir applies flag > RANKS_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir applies flag > config.yaml data_dir > RANKS_DATA_DIR >
// ./.ranks.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, dir := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DataDirName), nil
}
