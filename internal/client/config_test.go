package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))

	require.NoError(t, err)
	assert.Equal(t, Config{Server: DefaultServer}, cfg)
}

func TestLoadConfig_AllowsComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// staging box
		"server": "https://kanban.example.com",
		"token": "abc",
	}`), 0o600))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "https://kanban.example.com", cfg.Server)
	assert.Equal(t, "abc", cfg.Token)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server": `), 0o600))

	_, err := LoadConfig(path)

	assert.Error(t, err)
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	want := Config{Server: "http://localhost:9000", Token: "tok", Email: "me@example.com"}

	require.NoError(t, SaveConfig(path, want))
	got, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
