package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/example/tabbyspaces/internal/core/projection"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
	"github.com/example/tabbyspaces/internal/ports/secondary"
)

// Group names used when a profile carries none.
const (
	groupBuiltin = "Built-in"
	groupCustom  = "Custom"
)

// ProfileServiceImpl implements the ProfileService interface and keeps the
// host's split-layout profiles in step with the workspace list.
type ProfileServiceImpl struct {
	repo    secondary.WorkspaceRepository
	catalog secondary.ProfileCatalog
	syncer  secondary.ProfileSyncer
	logger  *slog.Logger
}

// NewProfileService creates a new ProfileService with injected dependencies.
func NewProfileService(
	repo secondary.WorkspaceRepository,
	catalog secondary.ProfileCatalog,
	syncer secondary.ProfileSyncer,
	logger *slog.Logger,
) *ProfileServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileServiceImpl{
		repo:    repo,
		catalog: catalog,
		syncer:  syncer,
		logger:  logger,
	}
}

// ListAvailable returns launchable profiles grouped by their host group.
// Ungrouped profiles fall into "Built-in" or "Custom".
func (s *ProfileServiceImpl) ListAvailable(ctx context.Context) ([]*primary.ProfileGroup, error) {
	profiles, err := s.catalog.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	byName := make(map[string]*primary.ProfileGroup)
	var groups []*primary.ProfileGroup
	for _, p := range profiles {
		name := p.Group
		if name == "" {
			name = groupCustom
			if p.IsBuiltin {
				name = groupBuiltin
			}
		}
		g, ok := byName[name]
		if !ok {
			g = &primary.ProfileGroup{Name: name}
			byName[name] = g
			groups = append(groups, g)
		}
		g.Profiles = append(g.Profiles, p)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Name) < strings.ToLower(groups[j].Name)
	})
	for _, g := range groups {
		sort.SliceStable(g.Profiles, func(i, j int) bool {
			return strings.ToLower(g.Profiles[i].Name) < strings.ToLower(g.Profiles[j].Name)
		})
	}
	return groups, nil
}

// SyncProfiles regenerates every split-layout profile from the stored list.
func (s *ProfileServiceImpl) SyncProfiles(ctx context.Context) (*primary.SyncProfilesResponse, error) {
	list, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspaces: %w", err)
	}
	result, err := s.sync(ctx, list)
	if err != nil {
		return nil, err
	}
	return &primary.SyncProfilesResponse{
		Removed: result.Removed,
		Added:   result.Added,
		Path:    result.Path,
	}, nil
}

// SyncWorkspaces pushes list to the host config. It satisfies WorkspaceSyncer.
func (s *ProfileServiceImpl) SyncWorkspaces(ctx context.Context, list []*models.Workspace) error {
	_, err := s.sync(ctx, list)
	return err
}

// GetWorkspaceProfile returns the split-layout profile for one workspace.
func (s *ProfileServiceImpl) GetWorkspaceProfile(ctx context.Context, ref string) (*projection.SplitLayoutProfile, error) {
	list, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspaces: %w", err)
	}
	idx, err := resolveRef(list, ref)
	if err != nil {
		return nil, err
	}
	lookup, err := s.lookup(ctx)
	if err != nil {
		return nil, err
	}
	return projection.WorkspaceProfile(list[idx], lookup), nil
}

func (s *ProfileServiceImpl) sync(ctx context.Context, list []*models.Workspace) (*secondary.ProfileSyncResult, error) {
	// 1. Snapshot the catalog once for every projection
	lookup, err := s.lookup(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Project each workspace and gather background rules
	profiles := make([]*projection.SplitLayoutProfile, 0, len(list))
	var css strings.Builder
	for _, ws := range list {
		profiles = append(profiles, projection.WorkspaceProfile(ws, lookup))
		css.WriteString(projection.BackgroundCSS(ws))
	}

	// 3. Write profiles, then styles
	result, err := s.syncer.SyncProfiles(ctx, profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to sync profiles: %w", err)
	}
	if err := s.syncer.SyncBackgrounds(ctx, css.String()); err != nil {
		return nil, fmt.Errorf("failed to sync backgrounds: %w", err)
	}
	s.logger.Debug("host config synced", "workspaces", len(list), "removed", result.Removed, "added", result.Added)
	return result, nil
}

// lookup resolves only launchable local profiles, matching what the host
// itself accepts inside a split layout.
func (s *ProfileServiceImpl) lookup(ctx context.Context) (projection.ProfileLookup, error) {
	profiles, err := s.catalog.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return projection.LookupFromProfiles(profiles), nil
}

var (
	_ primary.ProfileService = (*ProfileServiceImpl)(nil)
	_ WorkspaceSyncer        = (*ProfileServiceImpl)(nil)
)
