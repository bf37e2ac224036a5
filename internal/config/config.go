// Package config loads and saves the TabbySpaces JSON configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// CurrentVersion is written into new config files.
const CurrentVersion = "1"

// FileName is the config file inside the config directory.
const FileName = "config.json"

// Config represents the flat TabbySpaces configuration
type Config struct {
	Version            string  `json:"version" yaml:"version"`
	TabbyConfigPath    string  `json:"tabby_config_path,omitempty" yaml:"tabby_config_path"`
	DatabasePath       string  `json:"database_path,omitempty" yaml:"database_path"`
	TmuxSessionPrefix  string  `json:"tmux_session_prefix,omitempty" yaml:"tmux_session_prefix"`
	LogLevel           string  `json:"log_level,omitempty" yaml:"log_level"`
	ResizeStep         float64 `json:"resize_step,omitempty" yaml:"resize_step"`
	DefaultOrientation string  `json:"default_orientation,omitempty" yaml:"default_orientation"`

	// SyncOnSave regenerates Tabby profiles after every edit. Unset means on.
	SyncOnSave *bool `json:"sync_on_save,omitempty" yaml:"sync_on_save"`
}

// Default returns a config with every field at its default.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.TabbyConfigPath == "" {
		cfg.TabbyConfigPath = DefaultTabbyConfigPath()
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = DefaultDatabasePath()
	}
	if cfg.TmuxSessionPrefix == "" {
		cfg.TmuxSessionPrefix = "ts"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.ResizeStep <= 0 || cfg.ResizeStep >= 0.5 {
		cfg.ResizeStep = 0.1
	}
	if cfg.DefaultOrientation != "vertical" {
		cfg.DefaultOrientation = "horizontal"
	}
	if cfg.SyncOnSave == nil {
		on := true
		cfg.SyncOnSave = &on
	}
}

// LoadConfig reads config.json from dir. A missing file yields defaults.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// SaveConfig writes config.json to dir
func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Keys lists the settable config keys.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var setters = map[string]func(*Config, string) error{
	"tabby_config_path":   func(c *Config, v string) error { c.TabbyConfigPath = v; return nil },
	"database_path":       func(c *Config, v string) error { c.DatabasePath = v; return nil },
	"tmux_session_prefix": func(c *Config, v string) error { c.TmuxSessionPrefix = v; return nil },
	"log_level": func(c *Config, v string) error {
		switch v {
		case "debug", "info", "warn", "error":
			c.LogLevel = v
			return nil
		}
		return fmt.Errorf("invalid log level %q (want debug, info, warn or error)", v)
	},
	"resize_step": func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f >= 0.5 {
			return fmt.Errorf("invalid resize step %q (want a number in (0, 0.5))", v)
		}
		c.ResizeStep = f
		return nil
	},
	"default_orientation": func(c *Config, v string) error {
		if v != "horizontal" && v != "vertical" {
			return fmt.Errorf("invalid orientation %q (want horizontal or vertical)", v)
		}
		c.DefaultOrientation = v
		return nil
	},
	"sync_on_save": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", v)
		}
		c.SyncOnSave = &b
		return nil
	},
}

// Set assigns a config key from its string form.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	return set(c, value)
}

// ShouldSync reports whether edits regenerate Tabby profiles.
func (c *Config) ShouldSync() bool {
	return c.SyncOnSave == nil || *c.SyncOnSave
}
