package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ascent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultDatabasePath, cfg.DatabasePath)
	assert.Equal(t, DefaultExportDir, cfg.ExportDir)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
database_path: /var/lib/ascent/results.db
export_dir: /srv/snapshots
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/ascent/results.db", cfg.DatabasePath)
	assert.Equal(t, "/srv/snapshots", cfg.ExportDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "export_dir: out\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.ExportDir)
	assert.Equal(t, DefaultDatabasePath, cfg.DatabasePath)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultDatabasePath, cfg.DatabasePath)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "database_path: from-file.db\nlog:\n  level: warn\n")
	t.Setenv("ASCENT_DB", "from-env.db")
	t.Setenv("ASCENT_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.DatabasePath)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(writeConfig(t, "databse_path: typo.db\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		DatabasePath: "a.db",
		ExportDir:    "out",
		Log:          Logging{Level: "loud", Format: "xml"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "log.format")

	cfg.Log = Logging{Level: "WARN", Format: "JSON"}
	assert.NoError(t, cfg.Validate())

	cfg.DatabasePath = " "
	assert.Error(t, cfg.Validate())
}
