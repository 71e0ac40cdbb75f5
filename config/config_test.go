package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, "input", cfg.Watch.InputDir)
	assert.Equal(t, "output", cfg.Watch.OutputDir)
	assert.Equal(t, 250, cfg.Watch.SettleMillis)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
batch:
  workers: 8
watch:
  input_dir: /data/in
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, "/data/in", cfg.Watch.InputDir)
	assert.Equal(t, "output", cfg.Watch.OutputDir, "unset fields keep defaults")
	assert.Equal(t, 250, cfg.Watch.SettleMillis)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("CONVERTER_PORT", "7070")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "${CONVERTER_PORT}"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
