package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/tabbyspaces/internal/core/projection"
	"github.com/example/tabbyspaces/internal/ctxutil"
	"github.com/example/tabbyspaces/internal/logging"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
)

// fakeWorkspaces implements primary.WorkspaceService over a single workspace.
type fakeWorkspaces struct {
	ws        *models.Workspace
	lastActor string
	lastEdit  primary.EditLayoutRequest
	lastPane  primary.UpdatePaneRequest
	deleted   string
}

func (f *fakeWorkspaces) ListWorkspaces(ctx context.Context) ([]*models.Workspace, error) {
	return []*models.Workspace{f.ws}, nil
}

func (f *fakeWorkspaces) GetWorkspace(ctx context.Context, ref string) (*models.Workspace, error) {
	if ref != f.ws.ID && !strings.EqualFold(ref, f.ws.Name) {
		return nil, errors.New("workspace not found")
	}
	return f.ws, nil
}

func (f *fakeWorkspaces) CreateWorkspace(ctx context.Context, req primary.CreateWorkspaceRequest) (*primary.CreateWorkspaceResponse, error) {
	f.lastActor = ctxutil.ActorFromContext(ctx)
	return &primary.CreateWorkspaceResponse{WorkspaceID: "ws-new", Workspace: &models.Workspace{ID: "ws-new", Name: req.Name}}, nil
}

func (f *fakeWorkspaces) UpdateWorkspace(ctx context.Context, req primary.UpdateWorkspaceRequest) (*models.Workspace, error) {
	return f.ws, nil
}

func (f *fakeWorkspaces) DeleteWorkspace(ctx context.Context, ref string) error {
	f.deleted = ref
	return nil
}

func (f *fakeWorkspaces) DuplicateWorkspace(ctx context.Context, ref string) (*models.Workspace, error) {
	return &models.Workspace{ID: "ws-dup", Name: f.ws.Name + " (Copy)"}, nil
}

func (f *fakeWorkspaces) MoveWorkspace(ctx context.Context, ref string, position int) error {
	return nil
}

func (f *fakeWorkspaces) SaveWorkspace(ctx context.Context, ws *models.Workspace) error {
	return nil
}

func (f *fakeWorkspaces) EditLayout(ctx context.Context, req primary.EditLayoutRequest) (*primary.EditLayoutResponse, error) {
	f.lastEdit = req
	f.lastActor = ctxutil.ActorFromContext(ctx)
	return &primary.EditLayoutResponse{Workspace: f.ws, Changed: true, NewPaneID: "p3"}, nil
}

func (f *fakeWorkspaces) UpdatePane(ctx context.Context, req primary.UpdatePaneRequest) (*models.Pane, error) {
	f.lastPane = req
	p := &models.Pane{ID: req.PaneID, ProfileID: "local:bash"}
	if req.Cwd != nil {
		p.Cwd = *req.Cwd
	}
	return p, nil
}

func (f *fakeWorkspaces) ExportWorkspaces(ctx context.Context, req primary.ExportRequest) ([]byte, error) {
	return nil, nil
}

func (f *fakeWorkspaces) ImportWorkspaces(ctx context.Context, req primary.ImportRequest) (*primary.ImportResponse, error) {
	return nil, nil
}

type fakeProfiles struct {
	listErr error
}

func (f *fakeProfiles) ListAvailable(ctx context.Context) ([]*primary.ProfileGroup, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []*primary.ProfileGroup{{Name: "Built-in", Profiles: []*models.Profile{{ID: "local:bash", Name: "Bash"}}}}, nil
}

func (f *fakeProfiles) SyncProfiles(ctx context.Context) (*primary.SyncProfilesResponse, error) {
	return &primary.SyncProfilesResponse{Path: "/tmp/config.yaml", Removed: 2, Added: 1}, nil
}

func (f *fakeProfiles) GetWorkspaceProfile(ctx context.Context, ref string) (*projection.SplitLayoutProfile, error) {
	return nil, nil
}

type fakeLauncher struct {
	lastReq primary.LaunchRequest
}

func (f *fakeLauncher) LaunchWorkspace(ctx context.Context, req primary.LaunchRequest) (*primary.LaunchResponse, error) {
	f.lastReq = req
	return &primary.LaunchResponse{
		SessionName:        "ts-Backend",
		Panes:              map[string]string{"p1": "%0", "p2": "%1"},
		StartupCommands:    1,
		AttachInstructions: "tmux attach -t ts-Backend\n",
	}, nil
}

func (f *fakeLauncher) LaunchStartupWorkspaces(ctx context.Context) ([]*primary.LaunchResponse, error) {
	return nil, nil
}

func newTestServer() (*Server, *fakeWorkspaces, *fakeLauncher) {
	ws := &fakeWorkspaces{ws: &models.Workspace{
		ID:   "ws-1",
		Name: "Backend",
		Root: &models.Split{
			Orientation: models.Horizontal,
			Ratios:      []float64{0.5, 0.5},
			Children: []*models.Node{
				models.PaneNode(&models.Pane{ID: "p1", ProfileID: "local:bash"}),
				models.PaneNode(&models.Pane{ID: "p2", ProfileID: "local:gone", Cwd: "/srv"}),
			},
		},
	}}
	launcher := &fakeLauncher{}
	s := NewServer(Services{Workspaces: ws, Profiles: &fakeProfiles{}, Launcher: launcher}, logging.Discard())
	return s, ws, launcher
}

// ============================================================================
// Read Tools
// ============================================================================

func TestHandleListWorkspaces(t *testing.T) {
	s, _, _ := newTestServer()

	_, out, err := s.handleListWorkspaces(context.Background(), nil, ListWorkspacesInput{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out.Workspaces) != 1 {
		t.Fatalf("expected 1 workspace, got %d", len(out.Workspaces))
	}
	if got := out.Workspaces[0]; got.ID != "ws-1" || got.Panes != 2 {
		t.Errorf("unexpected summary %+v", got)
	}
}

func TestHandleShowWorkspace(t *testing.T) {
	s, _, _ := newTestServer()

	_, out, err := s.handleShowWorkspace(context.Background(), nil, WorkspaceRefInput{Workspace: "backend"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out.Panes) != 2 {
		t.Fatalf("expected 2 panes, got %d", len(out.Panes))
	}
	if out.Panes[0].Label != "Bash" {
		t.Errorf("expected profile name label, got %q", out.Panes[0].Label)
	}
	if out.Panes[1].ProfileID != "local:gone" || out.Panes[1].Cwd != "/srv" {
		t.Errorf("unexpected pane %+v", out.Panes[1])
	}
	if !strings.HasPrefix(out.Outline, "horizontal [0.5 0.5]") {
		t.Errorf("unexpected outline %q", out.Outline)
	}

	if _, _, err := s.handleShowWorkspace(context.Background(), nil, WorkspaceRefInput{Workspace: "nope"}); err == nil {
		t.Fatal("expected error for unknown workspace, got nil")
	}
}

func TestProfileNames_CatalogError(t *testing.T) {
	s, _, _ := newTestServer()
	s.services.Profiles = &fakeProfiles{listErr: errors.New("tabby config missing")}

	names := s.profileNames(context.Background())
	if got := names("local:bash"); got != "local:bash" {
		t.Errorf("expected id fallback, got %q", got)
	}
}

// ============================================================================
// Mutating Tools
// ============================================================================

func TestHandleCreateWorkspace(t *testing.T) {
	t.Setenv("USER", "dev")
	s, ws, _ := newTestServer()

	_, out, err := s.handleCreateWorkspace(context.Background(), nil, CreateWorkspaceInput{Name: "Docs", Orientation: "Vertical"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.ID != "ws-new" || out.Name != "Docs" {
		t.Errorf("unexpected output %+v", out)
	}
	if ws.lastActor != "mcp:dev" {
		t.Errorf("expected actor mcp:dev, got %q", ws.lastActor)
	}

	if _, _, err := s.handleCreateWorkspace(context.Background(), nil, CreateWorkspaceInput{Name: "X", Orientation: "diagonal"}); err == nil {
		t.Fatal("expected error for bad orientation, got nil")
	}
}

func TestHandleDeleteWorkspace(t *testing.T) {
	s, ws, _ := newTestServer()

	_, out, err := s.handleDeleteWorkspace(context.Background(), nil, WorkspaceRefInput{Workspace: "Backend"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Deleted != "ws-1" || ws.deleted != "ws-1" {
		t.Errorf("expected delete by id, got output %q and call %q", out.Deleted, ws.deleted)
	}
}

func TestEditRequest(t *testing.T) {
	tests := []struct {
		name    string
		in      EditLayoutInput
		wantErr bool
		check   func(t *testing.T, req primary.EditLayoutRequest)
	}{
		{
			name: "split with orientation",
			in:   EditLayoutInput{Workspace: "w", Op: "split", PaneID: "p1", Orientation: "vertical"},
			check: func(t *testing.T, req primary.EditLayoutRequest) {
				if req.Op != primary.OpSplit || req.Orientation != models.Vertical {
					t.Errorf("unexpected request %+v", req)
				}
			},
		},
		{
			name: "insert direction is case-insensitive",
			in:   EditLayoutInput{Op: "INSERT", PaneID: "p1", Direction: "Top"},
			check: func(t *testing.T, req primary.EditLayoutRequest) {
				if req.Direction != models.DirectionTop {
					t.Errorf("expected top, got %q", req.Direction)
				}
			},
		},
		{
			name: "drag carries index and value",
			in:   EditLayoutInput{Op: "drag", Index: 1, Value: 0.7},
			check: func(t *testing.T, req primary.EditLayoutRequest) {
				if req.Index != 1 || req.Value != 0.7 {
					t.Errorf("unexpected request %+v", req)
				}
			},
		},
		{name: "bad direction", in: EditLayoutInput{Op: "insert", Direction: "up"}, wantErr: true},
		{name: "bad orientation", in: EditLayoutInput{Op: "orientation", Orientation: "sideways"}, wantErr: true},
		{name: "unknown op", in: EditLayoutInput{Op: "rotate"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := editRequest(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			tt.check(t, req)
		})
	}
}

func TestHandleEditLayout(t *testing.T) {
	s, ws, _ := newTestServer()

	_, out, err := s.handleEditLayout(context.Background(), nil, EditLayoutInput{Workspace: "ws-1", Op: "split", PaneID: "p1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !out.Changed || out.NewPaneID != "p3" {
		t.Errorf("unexpected output %+v", out)
	}
	if ws.lastEdit.WorkspaceRef != "ws-1" || ws.lastEdit.PaneID != "p1" {
		t.Errorf("unexpected request %+v", ws.lastEdit)
	}
	if !strings.HasPrefix(ws.lastActor, ctxutil.ActorMCP) {
		t.Errorf("expected mcp actor, got %q", ws.lastActor)
	}
}

func TestHandleUpdatePane(t *testing.T) {
	s, ws, _ := newTestServer()
	cwd := "/home/dev/api"

	_, out, err := s.handleUpdatePane(context.Background(), nil, UpdatePaneInput{Workspace: "ws-1", PaneID: "p2", Cwd: &cwd})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Cwd != cwd {
		t.Errorf("expected cwd %q, got %q", cwd, out.Cwd)
	}
	if ws.lastPane.StartupCommand != nil {
		t.Errorf("expected startup command untouched, got %v", *ws.lastPane.StartupCommand)
	}
}

func TestHandleLaunch(t *testing.T) {
	s, _, launcher := newTestServer()

	_, out, err := s.handleLaunch(context.Background(), nil, LaunchInput{Workspace: "Backend", Replace: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !launcher.lastReq.Replace || launcher.lastReq.WorkspaceRef != "Backend" {
		t.Errorf("unexpected launch request %+v", launcher.lastReq)
	}
	if out.Session != "ts-Backend" || len(out.Panes) != 2 {
		t.Errorf("unexpected output %+v", out)
	}
	if out.Attach != "tmux attach -t ts-Backend" {
		t.Errorf("expected trimmed attach hint, got %q", out.Attach)
	}
}

func TestHandleSync(t *testing.T) {
	s, _, _ := newTestServer()

	_, out, err := s.handleSync(context.Background(), nil, SyncInput{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Removed != 2 || out.Added != 1 {
		t.Errorf("unexpected output %+v", out)
	}
}

func TestHandleLaunch_Unavailable(t *testing.T) {
	s, _, _ := newTestServer()
	s.services.Launcher = nil
	s.services.LaunchErr = errors.New("tmux not found in PATH")

	_, _, err := s.handleLaunch(context.Background(), nil, LaunchInput{Workspace: "Backend"})
	if err == nil || !strings.Contains(err.Error(), "tmux not found") {
		t.Fatalf("expected launch error naming the cause, got %v", err)
	}
}
