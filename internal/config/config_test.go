package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vellum.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9000"
storage:
  backend: file
  path: /var/lib/vellum
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/vellum", cfg.Storage.Path)
	assert.Equal(t, "info", cfg.LogLevel, "keys absent from the file keep defaults")
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vellum.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\n"), 0o644))

	t.Setenv("VELLUM_ADDR", ":7000")
	t.Setenv("VELLUM_STORAGE_BACKEND", "redis")
	t.Setenv("VELLUM_REDIS_ADDR", "redis.internal:6379")
	t.Setenv("VELLUM_REDIS_DB", "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "redis.internal:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, 3, cfg.Storage.Redis.DB)
}

func TestLoad_BadRedisDB(t *testing.T) {
	t.Setenv("VELLUM_REDIS_DB", "not-a-number")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vellum.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "ftp"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Storage.Backend = "file"
	cfg.Storage.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())
}
