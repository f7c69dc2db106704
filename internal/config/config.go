// Package config provides configuration management for the registrar.
//
// Config file locations (priority order):
//  1. $REGISTRAR_CONFIG
//  2. ./registrar.yaml
//  3. ~/.config/registrar/config.yaml
//  4. /etc/registrar/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	Database DatabaseConfig `yaml:"database"`

	// SeedFile is a companion JSON document imported (upsert) at
	// startup when it exists. A missing file is not an error.
	SeedFile string `yaml:"seed_file"`

	// BackupDir receives timestamped backups when the caller does not
	// name a destination.
	BackupDir string `yaml:"backup_dir"`

	Log LogConfig `yaml:"log"`
}

// DatabaseConfig locates the embedded database file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Load finds and loads the config file, or returns defaults if none
// found.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Addr:      ":3000",
		Database:  DatabaseConfig{Path: "./school.db"},
		SeedFile:  "./school_data.json",
		BackupDir: ".",
		Log:       LogConfig{Level: "info", Pretty: true},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./school.db"
	}
	if c.SeedFile == "" {
		c.SeedFile = "./school_data.json"
	}
	if c.BackupDir == "" {
		c.BackupDir = "."
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
