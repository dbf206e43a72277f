package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds application-level configuration. Per-account behavior lives in
// the settings table, not here.
type Config struct {
	Version int           `toml:"version"`
	Control ControlConfig `toml:"control"`
	Storage StorageConfig `toml:"storage"`
	Media   MediaConfig   `toml:"media"`
}

// ControlConfig points at the local profile-control endpoint that owns the
// browser profiles.
type ControlConfig struct {
	Endpoint string `toml:"endpoint"`
}

type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

type MediaConfig struct {
	Dir      string `toml:"dir"`
	Download bool   `toml:"download"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	dbPath := ""
	if dir, err := ConfigDir(); err == nil {
		dbPath = filepath.Join(dir, "xpilot.db")
	}
	mediaDir := ""
	if dir, err := CacheDir(); err == nil {
		mediaDir = filepath.Join(dir, "media")
	}
	return &Config{
		Version: 1,
		Control: ControlConfig{
			Endpoint: "http://127.0.0.1:19995",
		},
		Storage: StorageConfig{
			DBPath: dbPath,
		},
		Media: MediaConfig{
			Dir:      mediaDir,
			Download: true,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "xpilot"), nil
}

// CacheDir returns the platform-appropriate cache directory
func CacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "xpilot"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads config from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return loadFrom(path)
}

func loadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	return c.saveTo(path)
}

func (c *Config) saveTo(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}
