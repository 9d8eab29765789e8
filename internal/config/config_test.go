package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"BOOKIT_DIR", "BOOKIT_DATABASE", "BOOKIT_BACKEND", "BOOKIT_SALT", "BOOKIT_LOG_LEVEL", "BOOKIT_CURRENCY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(Overrides{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "bookit", cfg.Salt)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "bookit.db"), cfg.DatabasePath())
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("BOOKIT_DIR", dir)
	t.Setenv("BOOKIT_SALT", "pepper")
	t.Setenv("BOOKIT_LOG_LEVEL", "DEBUG")
	t.Setenv("BOOKIT_DATABASE", "/var/lib/bookit/ledger.db")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, "pepper", cfg.Salt)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/lib/bookit/ledger.db", cfg.DatabasePath())
}

func TestLoadConfigFileAndOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	toml := "database = \"work.db\"\ncurrency = \"EUR\"\nbackend = \"sqlite\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bookit.toml"), []byte(toml), 0o644))

	cfg, err := Load(Overrides{Dir: dir, Backend: "memory"})
	require.NoError(t, err)
	assert.Equal(t, "work.db", cfg.Database)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, BackendMemory, cfg.Backend, "flags beat the config file")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load(Overrides{Dir: dir, Backend: "postgres"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend")

	_, err = Load(Overrides{Dir: dir, LogLevel: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loglevel")

	t.Setenv("BOOKIT_SALT", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bookit.toml"), []byte("salt = \"\"\n"), 0o644))
	_, err = Load(Overrides{Dir: dir})
	assert.Error(t, err)
}

func TestLoadRejectsBrokenConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bookit.toml"), []byte("database = \n"), 0o644))

	_, err := Load(Overrides{Dir: dir})
	assert.Error(t, err)
}
