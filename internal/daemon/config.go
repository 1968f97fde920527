// Package daemon holds the LifeLab configuration, loaded from
// ~/.lifelab/config.toml with sane defaults for every field.
package daemon

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full daemon configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Remote  RemoteConfig  `toml:"remote"`
	Sync    SyncConfig    `toml:"sync"`
}

// APIConfig configures the dashboard HTTP server.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// StorageConfig configures the local store.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// RemoteConfig configures the optional sync service. When UserID and Token
// are both set, the provider switch treats the session as authenticated.
type RemoteConfig struct {
	Endpoint       string `toml:"endpoint"`
	UserID         string `toml:"user_id"`
	Token          string `toml:"token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the remote request timeout as a duration.
func (r RemoteConfig) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// SyncConfig tunes the notebook layer.
type SyncConfig struct {
	ReflectionDebounceMS int `toml:"reflection_debounce_ms"`
}

// Debounce returns the reflection auto-save delay.
func (s SyncConfig) Debounce() time.Duration {
	if s.ReflectionDebounceMS <= 0 {
		return time.Second
	}
	return time.Duration(s.ReflectionDebounceMS) * time.Millisecond
}

// DefaultDataDir is ~/.lifelab.
func DefaultDataDir() string {
	if env := os.Getenv("LIFELAB_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".lifelab")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    8377,
			Metrics: true,
		},
		Storage: StorageConfig{
			Dir: DefaultDataDir(),
		},
		Remote: RemoteConfig{
			TimeoutSeconds: 10,
		},
		Sync: SyncConfig{
			ReflectionDebounceMS: 1000,
		},
	}
}

// LoadConfig reads the TOML file at path, layering it over the defaults.
// A missing file is not an error — the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
