package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches the working directory for the duration of a test so the
// default cleansheet.yml lookup never finds a stray file.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "exports", cfg.Paths.ExportsDir)
	assert.Equal(t, int64(33554432), cfg.Upload.MaxBytes)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Server.RateLimit.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CLEANSHEET_SERVER_PORT", "9090")
	t.Setenv("CLEANSHEET_LOGGING_FORMAT", "text")
	t.Setenv("CLEANSHEET_UPLOAD_MAX_ROWS", "1000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 1000, cfg.Upload.MaxRows)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "cleansheet.yml")
	content := []byte("server:\n  port: 3000\npaths:\n  exports_dir: out\n")
	require.NoError(t, os.WriteFile(configPath, content, 0644))
	t.Setenv("CLEANSHEET_CONFIG_FILE", configPath)
	// Env must still win over the file
	t.Setenv("CLEANSHEET_SERVER_PORT", "4000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid port", "CLEANSHEET_SERVER_PORT", "70000"},
		{"invalid format", "CLEANSHEET_LOGGING_FORMAT", "xml"},
		{"negative max rows", "CLEANSHEET_UPLOAD_MAX_ROWS", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()

	paths, err := ResolvePaths(PathsConfig{BaseDir: base})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "exports"), paths.ExportsDir)
	assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)

	require.NoError(t, paths.EnsureDirectories())
	assert.DirExists(t, paths.ExportsDir)
	assert.DirExists(t, paths.LogsDir)

	assert.Equal(t, filepath.Join(base, "exports", "out.csv"), paths.ExportPath("out.csv"))
}

func TestResolvePaths_AbsoluteOverride(t *testing.T) {
	base := t.TempDir()
	abs := t.TempDir()

	paths, err := ResolvePaths(PathsConfig{BaseDir: base, ExportsDir: abs})
	require.NoError(t, err)

	assert.Equal(t, abs, paths.ExportsDir)
}
