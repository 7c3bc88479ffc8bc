package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDirLinux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/ranks", got)
	})

	t.Run("falls back to ~/.config", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "ranks"), got)
	})

	t.Run("home lookup failure", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		orig := homeDir
		homeDir = func() (string, error) { return "", errors.New("no home") }
		t.Cleanup(func() { homeDir = orig })

		_, err := DefaultConfigDir()
		assert.Error(t, err)
	})
}

func TestResolveConfigDir(t *testing.T) {
	tmp := t.TempDir()

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(EnvConfigDir, filepath.Join(tmp, "env"))
		got, err := ResolveConfigDir(filepath.Join(tmp, "flag"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tmp, "flag"), got)
	})

	t.Run("env when no flag", func(t *testing.T) {
		t.Setenv(EnvConfigDir, filepath.Join(tmp, "env"))
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tmp, "env"), got)
	})

	t.Run("platform default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		want, err := DefaultConfigDir()
		require.NoError(t, err)
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestResolveDataDir(t *testing.T) {
	tmp := t.TempDir()
	tests := []struct {
		name   string
		flag   string
		config string
		env    string
		want   string
	}{
		{"flag over everything", filepath.Join(tmp, "f"), filepath.Join(tmp, "c"), filepath.Join(tmp, "e"), filepath.Join(tmp, "f")},
		{"config over env", "", filepath.Join(tmp, "c"), filepath.Join(tmp, "e"), filepath.Join(tmp, "c")},
		{"env", "", "", filepath.Join(tmp, "e"), filepath.Join(tmp, "e")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, tt.env)
			got, err := ResolveDataDir(tt.flag, tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("working directory default", func(t *testing.T) {
		t.Setenv(EnvDataDir, "")
		orig := getwd
		getwd = func() (string, error) { return "/work", nil }
		t.Cleanup(func() { getwd = orig })

		got, err := ResolveDataDir("", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/work", DataDirName), got)
	})
}
