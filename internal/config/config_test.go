package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.True(t, cfg.Server.Seed)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Generation.APIKeyEnv)
	assert.Equal(t, 60*time.Second, cfg.Generation.Timeout())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_TOML(t *testing.T) {
	path := write(t, "flowchart.toml", `
[server]
addr = ":8080"

[generation]
model = "gpt-4o"
max_tokens = 500
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "gpt-4o", cfg.Generation.Model)
	assert.Equal(t, 500, cfg.Generation.MaxTokens)
	// Untouched keys keep their defaults.
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Generation.APIKeyEnv)
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, "flowchart.yaml", `
server:
  seed: false
log:
  level: debug
generation:
  api_key_env: ESSAY_KEY
  timeout_seconds: 5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Server.Seed)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "ESSAY_KEY", cfg.Generation.APIKeyEnv)
	assert.Equal(t, 5*time.Second, cfg.Generation.Timeout())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(write(t, "flowchart.json", `{}`))
	assert.Error(t, err)

	_, err = Load(write(t, "broken.toml", `[server`))
	assert.Error(t, err)

	_, err = Load(write(t, "neg.yml", "generation:\n  max_tokens: -1\n"))
	assert.Error(t, err)
}
