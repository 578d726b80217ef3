package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the studysync CLI.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	CacheFile           string
	RemoteTimeout       time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.CacheFile = defaultCacheFile()
	c.RemoteTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}

func defaultCacheFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "studysync", "cache.db")
}
