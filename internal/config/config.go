// Package config loads application configuration for the remac CLI and
// servers. Priority: Env Vars (REMAC_ prefix) > Config File > Defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// APIConfig describes the target REST API calls are replayed against.
type APIConfig struct {
	BaseURL   string `yaml:"base_url" envconfig:"BASE_URL"`
	Key       string `yaml:"key" envconfig:"KEY"`
	KeyHeader string `yaml:"key_header" envconfig:"KEY_HEADER"`
}

// StoreConfig selects and configures the macro store backend.
type StoreConfig struct {
	// Backend is one of "memory", "file", or "redis".
	Backend string `yaml:"backend" envconfig:"BACKEND"`
	// Path is the macro directory for the file backend.
	Path string `yaml:"path" envconfig:"PATH"`
	// Redis connection settings, used when Backend is "redis".
	RedisAddr     string `yaml:"redis_addr" envconfig:"REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" envconfig:"REDIS_DB"`
}

// HTTPConfig contains HTTP API server settings.
type HTTPConfig struct {
	Addr string `yaml:"addr" envconfig:"ADDR"`
}

// Config is the root configuration structure.
type Config struct {
	// LogLevel controls structured logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// API is the replay target.
	API APIConfig `yaml:"api" envconfig:"API"`

	// Store selects where macros are persisted.
	Store StoreConfig `yaml:"store" envconfig:"STORE"`

	// HTTP server settings.
	HTTP HTTPConfig `yaml:"http" envconfig:"HTTP"`
}

// Load reads configuration from the specified path, or default locations
// if path is empty.
func Load(path string) (*Config, error) {
	// Try loading .env files (ignore error if not present)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			defaultPath := filepath.Join(home, ".remac", "config.yaml")
			if _, err := os.Stat(defaultPath); err == nil {
				path = defaultPath
			}
		}

		localPath := "remac.yaml"
		if _, err := os.Stat(localPath); err == nil {
			path = localPath
		}
	}

	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Env vars override values from the config file.
	if err := envconfig.Process("REMAC", cfg); err != nil {
		return nil, fmt.Errorf("failed to process env vars: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "file"
	}
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(".remac", "macros")
	}
	if c.Store.RedisAddr == "" {
		c.Store.RedisAddr = "localhost:6379"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.API.KeyHeader == "" {
		c.API.KeyHeader = "X-API-Key"
	}
}
