// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"

	"github.com/example/tabbyspaces/internal/core/projection"
	"github.com/example/tabbyspaces/internal/models"
)

// WorkspaceRepository persists the full ordered list of workspaces.
// Save is an atomic whole-list replace; there are no partial updates.
type WorkspaceRepository interface {
	// Load returns every workspace in display order.
	Load(ctx context.Context) ([]*models.Workspace, error)

	// Save replaces the stored list with workspaces, in order.
	Save(ctx context.Context, workspaces []*models.Workspace) error
}

// ProfileCatalog reads shell profiles from the host configuration.
// Implementations may serve a cached snapshot.
type ProfileCatalog interface {
	// ListProfiles returns every profile the host knows.
	ListProfiles(ctx context.Context) ([]*models.Profile, error)

	// ListAvailable returns local, launchable profiles, excluding split layouts.
	ListAvailable(ctx context.Context) ([]*models.Profile, error)

	// Lookup resolves a local profile by id.
	Lookup(ctx context.Context, id string) (*models.Profile, bool, error)

	// Invalidate drops any cached snapshot.
	Invalidate()
}

// ProfileSyncResult reports what a profile sync changed.
type ProfileSyncResult struct {
	Removed int
	Added   int
	Path    string
}

// ProfileSyncer writes generated split-layout profiles into the host config.
type ProfileSyncer interface {
	// SyncProfiles removes every previously generated profile and appends
	// profiles in order. Foreign profiles are preserved.
	SyncProfiles(ctx context.Context, profiles []*projection.SplitLayoutProfile) (*ProfileSyncResult, error)

	// SyncBackgrounds replaces the generated workspace background rules in
	// the host's custom CSS. Empty css removes them.
	SyncBackgrounds(ctx context.Context, css string) error
}

// DocumentFormat is the serialization used for workspace export/import.
type DocumentFormat string

const (
	FormatYAML DocumentFormat = "yaml"
	FormatJSON DocumentFormat = "json"
)

// WorkspaceCodec encodes workspace documents for export and import.
type WorkspaceCodec interface {
	Encode(workspaces []*models.Workspace, format DocumentFormat) ([]byte, error)
	Decode(data []byte, format DocumentFormat) ([]*models.Workspace, error)
}
