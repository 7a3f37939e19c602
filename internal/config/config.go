// Package config loads the server configuration from an optional YAML
// file and the environment. Environment variables win over file values,
// and every knob has a usable default so the server starts with no
// configuration at all.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `mapstructure:"addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	Storage StorageConfig `mapstructure:"storage"`
}

// StorageConfig selects and configures the template store backend.
type StorageConfig struct {
	// Backend is one of memory, file, redis.
	Backend string `mapstructure:"backend"`

	// Path is the base directory for the file backend.
	Path string `mapstructure:"path"`

	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		Storage: StorageConfig{
			Backend: "memory",
			Path:    "./data",
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped silently when path is empty or the file does not exist),
// then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	// Decode to a generic map first so that keys missing from the file
	// keep their defaults instead of being zeroed.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := mapstructure.Decode(raw, cfg); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("VELLUM_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("VELLUM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("VELLUM_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("VELLUM_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("VELLUM_REDIS_ADDR"); v != "" {
		cfg.Storage.Redis.Addr = v
	}
	if v := os.Getenv("VELLUM_REDIS_PASSWORD"); v != "" {
		cfg.Storage.Redis.Password = v
	}
	if v := os.Getenv("VELLUM_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("VELLUM_REDIS_DB: %w", err)
		}
		cfg.Storage.Redis.DB = db
	}
	return nil
}

// Validate checks cross-field invariants that Load cannot express.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "redis":
	case "file":
		if c.Storage.Path == "" {
			return fmt.Errorf("file backend requires storage.path")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
