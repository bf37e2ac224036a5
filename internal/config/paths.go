package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// Environment overrides.
const (
	EnvConfigDir       = "TABBYSPACES_CONFIG_DIR"
	EnvTabbyConfigPath = "TABBY_CONFIG_PATH"
)

var (
	configDirOnce   sync.Once
	configDirCached string
)

// ConfigDir resolves the TabbySpaces config directory.
// Priority: TABBYSPACES_CONFIG_DIR env > ~/.config/tabbyspaces/
func ConfigDir() string {
	configDirOnce.Do(func() {
		if env := os.Getenv(EnvConfigDir); env != "" {
			configDirCached = env
			return
		}
		home, err := os.UserHomeDir()
		if err != nil {
			configDirCached = "."
			return
		}
		configDirCached = filepath.Join(home, ".config", "tabbyspaces")
	})
	return configDirCached
}

// EnsureConfigDir creates the config directory if it doesn't exist and returns its path.
func EnsureConfigDir() (string, error) {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config dir %s: %w", dir, err)
	}
	return dir, nil
}

// DefaultDatabasePath is the sqlite file used when the config names none.
func DefaultDatabasePath() string {
	return filepath.Join(ConfigDir(), "tabbyspaces.db")
}

// DefaultTabbyConfigPath returns where Tabby keeps config.yaml.
// Priority: TABBY_CONFIG_PATH env > the platform's Tabby config location.
func DefaultTabbyConfigPath() string {
	if env := os.Getenv(EnvTabbyConfigPath); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "tabby", "config.yaml")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "tabby", "config.yaml")
		}
		return filepath.Join(home, "AppData", "Roaming", "tabby", "config.yaml")
	default:
		return filepath.Join(home, ".config", "tabby", "config.yaml")
	}
}

// ResetForTest clears cached values so tests can re-run resolution logic.
// Only use in tests.
func ResetForTest() {
	configDirOnce = sync.Once{}
	configDirCached = ""
}
