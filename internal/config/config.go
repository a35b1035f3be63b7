// Package config loads the optional keysort.yaml project file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the file looked up when no --config flag is given.
const DefaultPath = "keysort.yaml"

// Store kinds.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the project configuration.
// Relative dataset paths are resolved against the config file's directory.
type Config struct {
	Traits   string      `yaml:"traits" json:"traits"`
	Items    string      `yaml:"items" json:"items"`
	ItemsDir string      `yaml:"items_dir" json:"items_dir"`
	Strict   bool        `yaml:"strict" json:"strict"`
	LogLevel string      `yaml:"log_level" json:"log_level"`
	LogJSON  bool        `yaml:"log_json" json:"log_json"`
	Store    StoreConfig `yaml:"store" json:"store"`
	Server   Server      `yaml:"server" json:"server"`
}

// StoreConfig selects where built keys are cached.
type StoreConfig struct {
	Kind  string      `yaml:"kind" json:"kind"`
	Path  string      `yaml:"path" json:"path"`
	Redis RedisConfig `yaml:"redis" json:"redis"`
}

// RedisConfig configures the redis key store.
type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
}

// Server configures the HTTP adapter.
type Server struct {
	Addr    string `yaml:"addr" json:"addr"`
	Metrics bool   `yaml:"metrics" json:"metrics"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Traits:   "traits.json",
		Items:    "items.json",
		LogLevel: "info",
		Store: StoreConfig{
			Kind:  StoreNone,
			Path:  filepath.Join(".keysort", "keys"),
			Redis: RedisConfig{Addr: "localhost:6379", Prefix: "keysort:key:"},
		},
		Server: Server{Addr: ":8080", Metrics: true},
	}
}

// Load reads a configuration file (YAML or JSON) on top of the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	base := filepath.Dir(path)
	cfg.Traits = resolve(base, cfg.Traits)
	cfg.Items = resolve(base, cfg.Items)
	cfg.ItemsDir = resolve(base, cfg.ItemsDir)
	cfg.Store.Path = resolve(base, cfg.Store.Path)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that cannot be caught by decoding.
func (c Config) Validate() error {
	switch c.Store.Kind {
	case "", StoreNone, StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	if c.Store.Redis.TTL < 0 {
		return fmt.Errorf("store.redis.ttl must not be negative")
	}
	return nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
