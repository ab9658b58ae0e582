package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// templateStorageDir is the storage_dir placeholder in config.toml.sample.
const templateStorageDir = "/home/user/.local/share/qboard"

const (
	DefaultDatabase = "qboard.db"
	DefaultListen   = "127.0.0.1:8080"
	DefaultBuffer   = 32
)

type Config struct {
	StorageDir string         `toml:"storage_dir"`
	Database   string         `toml:"database"`
	Listen     string         `toml:"listen"`
	Debug      bool           `toml:"debug"`
	Search     SearchConfig   `toml:"search"`
	Realtime   RealtimeConfig `toml:"realtime"`
}

type SearchConfig struct {
	EscapeWildcards bool `toml:"escape_wildcards"`
}

type RealtimeConfig struct {
	// Buffer is the per listener event queue length.
	Buffer int `toml:"buffer"`
}

func GetDefaultConfig() (*Config, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return nil, fmt.Errorf("getting default storage directory: %w", err)
	}
	c := &Config{StorageDir: storageDir}
	c.applyDefaults()
	return c, nil
}

// LoadConfig reads configPath. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return GetDefaultConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configPath, err)
	}
	if c.StorageDir == "" {
		if c.StorageDir, err = GetDefaultStorageDir(); err != nil {
			return nil, fmt.Errorf("getting default storage directory: %w", err)
		}
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Realtime.Buffer <= 0 {
		c.Realtime.Buffer = DefaultBuffer
	}
}

// DBPath returns the absolute database location. An absolute Database value
// is used as is.
func (c *Config) DBPath() string {
	if filepath.IsAbs(c.Database) {
		return c.Database
	}
	return filepath.Join(c.StorageDir, c.Database)
}

// SaveConfig writes c as plain TOML.
func (c *Config) SaveConfig(configPath string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return writeFile(configPath, data)
}

// SaveTemplateConfig writes the commented sample config with c's storage
// directory filled in.
func (c *Config) SaveTemplateConfig(configPath string) error {
	storageDir := c.StorageDir
	if storageDir == "" {
		var err error
		if storageDir, err = GetDefaultStorageDir(); err != nil {
			return fmt.Errorf("getting default storage directory: %w", err)
		}
	}
	return writeFile(configPath, []byte(strings.Replace(configTemplate, templateStorageDir, storageDir, 1)))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// xdgDir returns $env/qboard, or ~/fallback/qboard when env is unset, and
// makes sure it exists.
func xdgDir(env string, fallback ...string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		base = filepath.Join(append([]string{home}, fallback...)...)
	}

	dir := filepath.Join(base, "qboard")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return dir, nil
}

// GetDefaultStorageDir returns the XDG data directory for the board database.
func GetDefaultStorageDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

func GetConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func GetDefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
