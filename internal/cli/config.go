package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Storage backends selectable in the config file.
const (
	StorageFile  = "file"
	StorageRedis = "redis"
)

// Config holds user preferences loaded from config.toml.
type Config struct {
	// Chapter filters enemy locations during source resolution.
	// Zero means no filter.
	Chapter int `toml:"chapter"`

	// Start is the default start node for route planning.
	Start string `toml:"start"`

	// Unlocks lists the unlock conditions already obtained, for
	// example "boat_dock" or "restoration".
	Unlocks []string `toml:"unlocks"`

	Storage StorageConfig `toml:"storage"`
}

// StorageConfig selects and configures the snapshot persistence backend.
type StorageConfig struct {
	// Backend is "file" or "redis".
	Backend string `toml:"backend"`

	// Dir overrides the snapshot directory for the file backend.
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Start: "mir",
		Storage: StorageConfig{
			Backend: StorageFile,
		},
	}
}

// UnlockSet returns the unlocks as a lookup set for the routing filter.
func (c *Config) UnlockSet() map[string]bool {
	set := make(map[string]bool, len(c.Unlocks))
	for _, u := range c.Unlocks {
		set[u] = true
	}
	return set
}

// LoadConfig reads config.toml from the given path. An empty path
// means the default location (~/.config/wayfinder/config.toml). A
// missing file yields the defaults; a malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file %s does not exist", path)
		}
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	switch cfg.Storage.Backend {
	case StorageFile, StorageRedis:
	case "":
		cfg.Storage.Backend = StorageFile
	default:
		return nil, fmt.Errorf("unknown storage backend %q in %s", cfg.Storage.Backend, path)
	}
	return cfg, nil
}
