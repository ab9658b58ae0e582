package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	c, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_DATA_HOME"), "qboard"), c.StorageDir)
	assert.Equal(t, DefaultDatabase, c.Database)
	assert.Equal(t, DefaultListen, c.Listen)
	assert.Equal(t, DefaultBuffer, c.Realtime.Buffer)
	assert.False(t, c.Search.EscapeWildcards)
	assert.DirExists(t, c.StorageDir)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
storage_dir = "/srv/qboard"
database = "board.db"
debug = true

[search]
escape_wildcards = true

[realtime]
buffer = 8
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/qboard", c.StorageDir)
	assert.Equal(t, "/srv/qboard/board.db", c.DBPath())
	assert.Equal(t, DefaultListen, c.Listen)
	assert.True(t, c.Debug)
	assert.True(t, c.Search.EscapeWildcards)
	assert.Equal(t, 8, c.Realtime.Buffer)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("debug = ["), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "parsing "+path)
}

func TestDBPathAbsoluteDatabase(t *testing.T) {
	c := &Config{StorageDir: "/srv/qboard", Database: "/tmp/other.db"}
	assert.Equal(t, "/tmp/other.db", c.DBPath())
}

func TestSaveTemplateConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	c := &Config{StorageDir: filepath.Join(dir, "data")}
	require.NoError(t, c.SaveTemplateConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, c.StorageDir, loaded.StorageDir)
	assert.Equal(t, DefaultDatabase, loaded.Database)
	assert.Equal(t, DefaultBuffer, loaded.Realtime.Buffer)
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	c := &Config{StorageDir: "/data", Database: "x.db", Listen: ":9000", Debug: true}
	require.NoError(t, c.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", loaded.Listen)
	assert.True(t, loaded.Debug)
}

func TestGetDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "qboard", "config.toml"), path)
}
