package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.APIURL, cfg.APIURL)
	assert.Equal(t, time.Minute, cfg.RefreshInterval)
	assert.Equal(t, ThemeAuto, cfg.Theme)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: http://tasks.internal:8080\ntheme: light\nrefresh_interval: 30s\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://tasks.internal:8080", cfg.APIURL)
	assert.Equal(t, ThemeLight, cfg.Theme)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: light\n"), 0o644))
	t.Setenv("TASKFLOW_THEME", "dark")
	t.Setenv("TASKFLOW_LOG_CALLS", "true")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, cfg.Theme)
	assert.True(t, cfg.LogCalls)
}

func TestLoad_ChangedFlagWins(t *testing.T) {
	t.Setenv("TASKFLOW_API_URL", "http://from-env:1")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("api-url", "", "")
	fs.String("theme", "", "")
	require.NoError(t, fs.Parse([]string{"--api-url", "http://from-flag:2"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, "http://from-flag:2", cfg.APIURL)
	assert.Equal(t, ThemeAuto, cfg.Theme)
}

func TestLoad_RejectsUnknownTheme(t *testing.T) {
	t.Setenv("TASKFLOW_THEME", "solarized")
	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid theme")
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.APIURL = "http://saved:9000"
	cfg.RefreshInterval = 2 * time.Minute

	require.NoError(t, Save(path, cfg))
	got, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg.APIURL, got.APIURL)
	assert.Equal(t, cfg.RefreshInterval, got.RefreshInterval)
}
