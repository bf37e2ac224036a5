// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces the CLI, the MCP server and the picker call into.
package primary

import (
	"context"

	"github.com/example/tabbyspaces/internal/models"
)

// WorkspaceService defines the primary port for workspace operations.
// Every mutation loads the stored list and saves it back whole.
type WorkspaceService interface {
	// ListWorkspaces returns all workspaces in display order.
	ListWorkspaces(ctx context.Context) ([]*models.Workspace, error)

	// GetWorkspace resolves a workspace by id, or by name when no id matches.
	GetWorkspace(ctx context.Context, ref string) (*models.Workspace, error)

	// CreateWorkspace creates a workspace with a two-pane root.
	CreateWorkspace(ctx context.Context, req CreateWorkspaceRequest) (*CreateWorkspaceResponse, error)

	// UpdateWorkspace changes workspace metadata. Nil fields are left alone.
	UpdateWorkspace(ctx context.Context, req UpdateWorkspaceRequest) (*models.Workspace, error)

	// DeleteWorkspace removes a workspace.
	DeleteWorkspace(ctx context.Context, ref string) error

	// DuplicateWorkspace stores a deep copy with fresh ids after the original.
	DuplicateWorkspace(ctx context.Context, ref string) (*models.Workspace, error)

	// MoveWorkspace moves a workspace to position in the display order.
	MoveWorkspace(ctx context.Context, ref string, position int) error

	// SaveWorkspace replaces the stored workspace with the same id.
	SaveWorkspace(ctx context.Context, ws *models.Workspace) error

	// EditLayout applies one tree mutation to a workspace and saves it.
	EditLayout(ctx context.Context, req EditLayoutRequest) (*EditLayoutResponse, error)

	// UpdatePane edits a single pane's fields. Nil fields are left alone.
	UpdatePane(ctx context.Context, req UpdatePaneRequest) (*models.Pane, error)

	// ExportWorkspaces encodes the referenced workspaces (all when refs is empty).
	ExportWorkspaces(ctx context.Context, req ExportRequest) ([]byte, error)

	// ImportWorkspaces decodes and stores workspaces from a document.
	ImportWorkspaces(ctx context.Context, req ImportRequest) (*ImportResponse, error)
}

// CreateWorkspaceRequest contains parameters for creating a workspace.
type CreateWorkspaceRequest struct {
	Name        string
	Orientation models.Orientation // defaults to horizontal
	ProfileID   string             // optional, applied to both initial panes
	Icon        string             // optional, random when empty
	Color       string             // optional, random when empty
}

// CreateWorkspaceResponse contains the result of workspace creation.
type CreateWorkspaceResponse struct {
	WorkspaceID string
	Workspace   *models.Workspace
}

// UpdateWorkspaceRequest contains parameters for updating workspace metadata.
type UpdateWorkspaceRequest struct {
	Ref             string
	Name            *string
	Icon            *string
	Color           *string
	Hotkey          *string
	LaunchOnStartup *bool
	Background      *models.Background
}

// LayoutOp names a tree mutation.
type LayoutOp string

const (
	OpSplit       LayoutOp = "split"
	OpRemove      LayoutOp = "remove"
	OpInsert      LayoutOp = "insert"
	OpOrientation LayoutOp = "orientation"
	OpResize      LayoutOp = "resize"
	OpDrag        LayoutOp = "drag"
	OpEqualize    LayoutOp = "equalize"
)

// EditLayoutRequest contains parameters for a tree mutation.
//
// Split and insert anchor on PaneID. Resize, drag and equalize act on the
// split holding PaneID, or on the root split when PaneID is empty.
type EditLayoutRequest struct {
	WorkspaceRef string
	Op           LayoutOp
	PaneID       string
	Orientation  models.Orientation // split, orientation
	Direction    models.Direction   // insert
	Index        int                // resize, drag: ratio index within the split
	Value        float64            // resize: new ratio; drag: pointer fraction of the split
	Step         float64            // drag snap step, 0 means default
}

// EditLayoutResponse contains the result of a tree mutation.
type EditLayoutResponse struct {
	Workspace *models.Workspace
	Changed   bool
	// NewPaneID is set by split and insert.
	NewPaneID string
}

// UpdatePaneRequest contains parameters for editing a pane.
type UpdatePaneRequest struct {
	WorkspaceRef   string
	PaneID         string
	ProfileID      *string
	Cwd            *string
	StartupCommand *string
	Title          *string
}

// ExportRequest contains parameters for exporting workspaces.
type ExportRequest struct {
	Refs   []string
	Format string // "yaml" or "json"
}

// ImportRequest contains parameters for importing workspaces.
type ImportRequest struct {
	Data   []byte
	Format string
	// Replace overwrites workspaces with matching ids instead of assigning
	// fresh ids to the imported copies.
	Replace bool
}

// ImportResponse contains the result of an import.
type ImportResponse struct {
	Imported []*models.Workspace
	Replaced int
}
