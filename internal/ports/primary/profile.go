package primary

import (
	"context"

	"github.com/example/tabbyspaces/internal/core/projection"
	"github.com/example/tabbyspaces/internal/models"
)

// ProfileService defines the primary port for host profile operations.
type ProfileService interface {
	// ListAvailable returns launchable profiles grouped for display.
	ListAvailable(ctx context.Context) ([]*ProfileGroup, error)

	// SyncProfiles regenerates every split-layout profile in the host config.
	SyncProfiles(ctx context.Context) (*SyncProfilesResponse, error)

	// GetWorkspaceProfile returns the split-layout profile for one workspace.
	GetWorkspaceProfile(ctx context.Context, ref string) (*projection.SplitLayoutProfile, error)
}

// ProfileGroup is a named bucket of profiles.
type ProfileGroup struct {
	Name     string
	Profiles []*models.Profile
}

// SyncProfilesResponse reports what a sync wrote.
type SyncProfilesResponse struct {
	Removed int
	Added   int
	Path    string
}
