package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/tabbyspaces/internal/core/projection"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
)

// mockWorkspaceService implements primary.WorkspaceService for testing
type mockWorkspaceService struct {
	listFn   func(ctx context.Context) ([]*models.Workspace, error)
	getFn    func(ctx context.Context, ref string) (*models.Workspace, error)
	editFn   func(ctx context.Context, req primary.EditLayoutRequest) (*primary.EditLayoutResponse, error)
	deleteFn func(ctx context.Context, ref string) error

	lastDeleteRef string
}

func (m *mockWorkspaceService) ListWorkspaces(ctx context.Context) ([]*models.Workspace, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockWorkspaceService) GetWorkspace(ctx context.Context, ref string) (*models.Workspace, error) {
	if m.getFn != nil {
		return m.getFn(ctx, ref)
	}
	return sampleWorkspace(), nil
}

func (m *mockWorkspaceService) CreateWorkspace(ctx context.Context, req primary.CreateWorkspaceRequest) (*primary.CreateWorkspaceResponse, error) {
	ws := sampleWorkspace()
	ws.Name = req.Name
	return &primary.CreateWorkspaceResponse{WorkspaceID: ws.ID, Workspace: ws}, nil
}

func (m *mockWorkspaceService) UpdateWorkspace(ctx context.Context, req primary.UpdateWorkspaceRequest) (*models.Workspace, error) {
	return sampleWorkspace(), nil
}

func (m *mockWorkspaceService) DeleteWorkspace(ctx context.Context, ref string) error {
	m.lastDeleteRef = ref
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ref)
	}
	return nil
}

func (m *mockWorkspaceService) DuplicateWorkspace(ctx context.Context, ref string) (*models.Workspace, error) {
	ws := sampleWorkspace()
	ws.ID = "ws-copy"
	ws.Name += " (Copy)"
	return ws, nil
}

func (m *mockWorkspaceService) MoveWorkspace(ctx context.Context, ref string, position int) error {
	return nil
}

func (m *mockWorkspaceService) SaveWorkspace(ctx context.Context, ws *models.Workspace) error {
	return nil
}

func (m *mockWorkspaceService) EditLayout(ctx context.Context, req primary.EditLayoutRequest) (*primary.EditLayoutResponse, error) {
	if m.editFn != nil {
		return m.editFn(ctx, req)
	}
	return &primary.EditLayoutResponse{Workspace: sampleWorkspace()}, nil
}

func (m *mockWorkspaceService) UpdatePane(ctx context.Context, req primary.UpdatePaneRequest) (*models.Pane, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *mockWorkspaceService) ExportWorkspaces(ctx context.Context, req primary.ExportRequest) ([]byte, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *mockWorkspaceService) ImportWorkspaces(ctx context.Context, req primary.ImportRequest) (*primary.ImportResponse, error) {
	return nil, errors.New("not implemented in mock")
}

// mockProfileService implements primary.ProfileService for testing
type mockProfileService struct {
	syncErr error
}

func (m *mockProfileService) ListAvailable(ctx context.Context) ([]*primary.ProfileGroup, error) {
	return []*primary.ProfileGroup{
		{Name: "Built-in", Profiles: []*models.Profile{
			{ID: "local:bash", Name: "Bash"},
			{ID: "local:wsl", Name: "WSL / Ubuntu", IsWSL: true},
		}},
	}, nil
}

func (m *mockProfileService) SyncProfiles(ctx context.Context) (*primary.SyncProfilesResponse, error) {
	if m.syncErr != nil {
		return nil, m.syncErr
	}
	return &primary.SyncProfilesResponse{Removed: 1, Added: 2, Path: "/home/me/.config/tabby/config.yaml"}, nil
}

func (m *mockProfileService) GetWorkspaceProfile(ctx context.Context, ref string) (*projection.SplitLayoutProfile, error) {
	return nil, errors.New("not implemented in mock")
}

func sampleWorkspace() *models.Workspace {
	return &models.Workspace{
		ID:    "ws-1",
		Name:  "Backend",
		Icon:  "server",
		Color: "#10b981",
		Root: &models.Split{
			Orientation: models.Horizontal,
			Ratios:      []float64{0.5, 0.5},
			Children: []*models.Node{
				models.PaneNode(&models.Pane{ID: "p1", ProfileID: "local:bash", StartupCommand: "go test ./..."}),
				models.PaneNode(&models.Pane{ID: "p2", ProfileID: "local:wsl", Cwd: "/srv"}),
			},
		},
	}
}

// ============================================================================
// List Tests
// ============================================================================

func TestWorkspaceAdapter_List_Empty(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewWorkspaceAdapter(&mockWorkspaceService{}, nil, &buf)

	list, err := adapter.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected 0 workspaces, got %d", len(list))
	}
	if !strings.Contains(buf.String(), "No workspaces found") {
		t.Errorf("expected empty hint, got '%s'", buf.String())
	}
}

func TestWorkspaceAdapter_List_WithResults(t *testing.T) {
	mock := &mockWorkspaceService{
		listFn: func(ctx context.Context) ([]*models.Workspace, error) {
			ws := sampleWorkspace()
			ws.LaunchOnStartup = true
			return []*models.Workspace{ws}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewWorkspaceAdapter(mock, nil, &buf)

	if _, err := adapter.List(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	output := buf.String()
	for _, want := range []string{"NAME", "Backend", "ws-1", "yes"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got '%s'", want, output)
		}
	}
}

func TestWorkspaceAdapter_List_Error(t *testing.T) {
	mock := &mockWorkspaceService{
		listFn: func(ctx context.Context) ([]*models.Workspace, error) {
			return nil, errors.New("database locked")
		},
	}
	adapter := NewWorkspaceAdapter(mock, nil, &bytes.Buffer{})

	if _, err := adapter.List(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

// ============================================================================
// Show / Edit Tests
// ============================================================================

func TestWorkspaceAdapter_Show(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewWorkspaceAdapter(&mockWorkspaceService{}, &mockProfileService{}, &buf)

	if _, err := adapter.Show(context.Background(), "Backend", 40, 6); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	output := buf.String()
	for _, want := range []string{"Workspace: Backend", "horizontal [0.5 0.5]", "p2  WSL / Ubuntu  (/srv)", "Startup commands (1)", "go test ./..."} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got '%s'", want, output)
		}
	}
}

func TestWorkspaceAdapter_EditLayout(t *testing.T) {
	mock := &mockWorkspaceService{
		editFn: func(ctx context.Context, req primary.EditLayoutRequest) (*primary.EditLayoutResponse, error) {
			return &primary.EditLayoutResponse{Workspace: sampleWorkspace(), Changed: true, NewPaneID: "p3"}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewWorkspaceAdapter(mock, nil, &buf)

	if _, err := adapter.EditLayout(context.Background(), primary.EditLayoutRequest{Op: primary.OpSplit}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "New pane: p3") {
		t.Errorf("expected new pane id, got '%s'", buf.String())
	}

	buf.Reset()
	mock.editFn = nil
	if _, err := adapter.EditLayout(context.Background(), primary.EditLayoutRequest{Op: primary.OpOrientation}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "No change.") {
		t.Errorf("expected no-change notice, got '%s'", buf.String())
	}
}

func TestWorkspaceAdapter_Delete(t *testing.T) {
	mock := &mockWorkspaceService{}
	var buf bytes.Buffer
	adapter := NewWorkspaceAdapter(mock, nil, &buf)

	if err := adapter.Delete(context.Background(), "backend"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mock.lastDeleteRef != "ws-1" {
		t.Errorf("expected delete by resolved id, got %q", mock.lastDeleteRef)
	}
	if !strings.Contains(buf.String(), "Deleted workspace ws-1") {
		t.Errorf("unexpected output '%s'", buf.String())
	}
}

// ============================================================================
// Profile Tests
// ============================================================================

func TestProfileAdapter(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewProfileAdapter(&mockProfileService{}, &buf)

	if err := adapter.List(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "Built-in") || !strings.Contains(out, "local:wsl") || !strings.Contains(out, "wsl") {
		t.Errorf("unexpected output '%s'", out)
	}

	buf.Reset()
	if err := adapter.Sync(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "removed 1, added 2") {
		t.Errorf("unexpected output '%s'", buf.String())
	}

	adapter = NewProfileAdapter(&mockProfileService{syncErr: errors.New("read-only")}, &buf)
	if err := adapter.Sync(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestPrintLaunch(t *testing.T) {
	var buf bytes.Buffer
	PrintLaunch(&buf, &primary.LaunchResponse{
		SessionName:        "ts-Backend",
		Panes:              map[string]string{"p1": "%0", "p2": "%1"},
		StartupCommands:    1,
		AttachInstructions: "tmux attach -t ts-Backend\n",
	})
	out := buf.String()
	if !strings.Contains(out, "ts-Backend (2 panes, 1 startup command(s))") {
		t.Errorf("unexpected output '%s'", out)
	}
	if !strings.Contains(out, "tmux attach -t ts-Backend") {
		t.Errorf("expected attach hint, got '%s'", out)
	}
}
