// Package tabby reads and writes Tabby's config.yaml: it serves the shell
// profile catalog and writes generated split-layout profiles back.
package tabby

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	coreworkspace "github.com/example/tabbyspaces/internal/core/workspace"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/secondary"
)

// DefaultShellProfileID identifies the synthesized login-shell profile.
const DefaultShellProfileID = "local:default"

// ConfigStore implements secondary.ProfileCatalog and secondary.ProfileSyncer
// over one config.yaml. Reads are served from a snapshot that Watch keeps
// fresh; a stale snapshot is acceptable.
type ConfigStore struct {
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	snapshot []*models.Profile
	loaded   bool
	watcher  *fsnotify.Watcher
}

// NewConfigStore creates a store for the config file at path.
func NewConfigStore(path string, logger *slog.Logger) *ConfigStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigStore{path: path, logger: logger}
}

// Path returns the config file location.
func (s *ConfigStore) Path() string {
	return s.path
}

type configFile struct {
	Profiles []profileRecord `yaml:"profiles"`
}

type profileRecord struct {
	ID        string         `yaml:"id"`
	Type      string         `yaml:"type"`
	Name      string         `yaml:"name"`
	Group     string         `yaml:"group"`
	Icon      string         `yaml:"icon"`
	Color     string         `yaml:"color"`
	IsBuiltin bool           `yaml:"isBuiltin"`
	Options   profileOptions `yaml:"options"`
}

type profileOptions struct {
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Cwd     string            `yaml:"cwd"`
	Env     map[string]string `yaml:"env"`
}

// ListProfiles returns every profile in the config plus the login shell.
func (s *ConfigStore) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		profiles, err := s.read()
		if err != nil {
			return nil, err
		}
		s.snapshot = profiles
		s.loaded = true
		s.logger.Debug("loaded tabby profiles", "path", s.path, "count", len(profiles))
	}
	return s.snapshot, nil
}

// ListAvailable returns local profiles that are not split layouts.
func (s *ConfigStore) ListAvailable(ctx context.Context) ([]*models.Profile, error) {
	all, err := s.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	var out []*models.Profile
	for _, p := range all {
		if p.Type == models.ProfileTypeLocal && !coreworkspace.IsSplitLayoutProfileID(p.ID) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Lookup resolves a local profile by id.
func (s *ConfigStore) Lookup(ctx context.Context, id string) (*models.Profile, bool, error) {
	all, err := s.ListProfiles(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, p := range all {
		if p.ID == id && p.Type == models.ProfileTypeLocal {
			return p, true, nil
		}
	}
	return nil, false, nil
}

// Invalidate drops the snapshot so the next read goes to disk.
func (s *ConfigStore) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.snapshot = nil
	s.mu.Unlock()
}

// Watch invalidates the snapshot whenever the config file changes, until
// ctx is done. The parent directory is watched because Tabby replaces the
// file on save.
func (s *ConfigStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(s.path), err)
	}

	s.mu.Lock()
	s.watcher = watcher
	s.mu.Unlock()

	name := filepath.Clean(s.path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != name {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					s.logger.Debug("tabby config changed", "op", event.Op.String())
					s.Invalidate()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("config watcher error", "error", err)
			}
		}
	}()
	return nil
}

// Close stops the watcher started by Watch.
func (s *ConfigStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}

func (s *ConfigStore) read() ([]*models.Profile, error) {
	profiles := []*models.Profile{loginShellProfile()}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return profiles, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tabby config: %w", err)
	}

	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tabby config %s: %w", s.path, err)
	}

	for _, rec := range cfg.Profiles {
		if rec.ID == "" {
			continue
		}
		profiles = append(profiles, toProfile(rec))
	}
	return profiles, nil
}

func toProfile(rec profileRecord) *models.Profile {
	p := &models.Profile{
		ID:        rec.ID,
		Name:      rec.Name,
		Type:      rec.Type,
		Group:     rec.Group,
		Icon:      rec.Icon,
		Color:     rec.Color,
		Command:   rec.Options.Command,
		Args:      rec.Options.Args,
		Cwd:       rec.Options.Cwd,
		Env:       rec.Options.Env,
		IsBuiltin: rec.IsBuiltin,
	}
	p.IsWSL = isWSLCommand(p.Command) || strings.HasPrefix(p.ID, "local:wsl")
	return p
}

func isWSLCommand(command string) bool {
	base := strings.ToLower(filepath.Base(strings.ReplaceAll(command, `\`, "/")))
	return base == "wsl.exe" || base == "wsl"
}

// loginShellProfile stands in for the host's built-in default shell.
func loginShellProfile() *models.Profile {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
		if runtime.GOOS == "windows" {
			shell = "cmd.exe"
		}
	}
	return &models.Profile{
		ID:        DefaultShellProfileID,
		Name:      "Default shell",
		Type:      models.ProfileTypeLocal,
		Command:   shell,
		IsBuiltin: true,
	}
}

// Ensure ConfigStore implements the interfaces
var (
	_ secondary.ProfileCatalog = (*ConfigStore)(nil)
	_ secondary.ProfileSyncer  = (*ConfigStore)(nil)
)
