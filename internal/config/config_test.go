package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "hospital.db", cfg.Database.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "hospital.audit", cfg.Redis.Channel)
	assert.Equal(t, 100*time.Millisecond, cfg.Redis.RetryBackoff)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
app:
  log_level: debug
database:
  driver: mysql
  host: db.internal
  port: 3306
  user: admin
  name: hospital
server:
  port: 9090
redis:
  url: redis://localhost:6379/0
`)
	t.Setenv("HOSPITAL_SERVER_PORT", "9191")
	t.Setenv("HOSPITAL_DB_PASSWORD", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: oracle
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Driver")

	path = writeConfig(t, `
database:
  driver: postgres
`)
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Host")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
