package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "RANKS"
)

// Config keys. data_dir is resolved by internal/paths and is not bound to
// the environment here.
const (
	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyDriver      = "driver"
	cfgKeyDSN         = "dsn"
	cfgKeyUniqueIndex = "unique_index"
	cfgKeyUniqueness  = "uniqueness"
	cfgKeyStrict      = "strict"
	cfgKeyLogLevel    = "log_level"
)

var envKeys = []string{
	cfgKeyBackend,
	cfgKeyDriver,
	cfgKeyDSN,
	cfgKeyUniqueIndex,
	cfgKeyUniqueness,
	cfgKeyStrict,
	cfgKeyLogLevel,
}

// loadConfig reads configDir/config.yaml. A missing file is not an error;
// RANKS_* environment variables override file values.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyUniqueIndex, types.UniqueIndexEager)
	v.SetDefault(cfgKeyUniqueness, types.UniquenessAuto)
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return v, nil
}

func buildConfig(v *viper.Viper, dataDir string) types.Config {
	return types.Config{
		Backend:     v.GetString(cfgKeyBackend),
		DataDir:     dataDir,
		Driver:      v.GetString(cfgKeyDriver),
		DSN:         v.GetString(cfgKeyDSN),
		UniqueIndex: v.GetString(cfgKeyUniqueIndex),
		Uniqueness:  v.GetString(cfgKeyUniqueness),
		Strict:      v.GetBool(cfgKeyStrict),
		LogLevel:    v.GetString(cfgKeyLogLevel),
	}
}

// writeConfigIfMissing writes cfg to path as YAML unless the file exists.
func writeConfigIfMissing(path string, cfg types.Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return false, fmt.Errorf("encoding config: %w", err)
	}
	header := []byte("# ranks configuration. RANKS_* environment variables override these values.\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// newLogger returns a text logger on w. Unknown levels fall back to warn.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
