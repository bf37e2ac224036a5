package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/tabbyspaces/internal/core/layout"
	"github.com/example/tabbyspaces/internal/core/projection"
	coreworkspace "github.com/example/tabbyspaces/internal/core/workspace"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
)

// memWorkspaces is an in-memory primary.WorkspaceService.
type memWorkspaces struct {
	list    []*models.Workspace
	saveErr error
	saved   int
}

func (m *memWorkspaces) find(ref string) (int, error) {
	for i, ws := range m.list {
		if ws.ID == ref || strings.EqualFold(ws.Name, ref) {
			return i, nil
		}
	}
	return -1, errors.New("workspace not found")
}

func (m *memWorkspaces) ListWorkspaces(ctx context.Context) ([]*models.Workspace, error) {
	out := make([]*models.Workspace, len(m.list))
	for i, ws := range m.list {
		out[i] = coreworkspace.Clone(ws)
	}
	return out, nil
}

func (m *memWorkspaces) GetWorkspace(ctx context.Context, ref string) (*models.Workspace, error) {
	i, err := m.find(ref)
	if err != nil {
		return nil, err
	}
	return coreworkspace.Clone(m.list[i]), nil
}

func (m *memWorkspaces) CreateWorkspace(ctx context.Context, req primary.CreateWorkspaceRequest) (*primary.CreateWorkspaceResponse, error) {
	ws := testWorkspace("new", req.Name)
	m.list = append(m.list, ws)
	return &primary.CreateWorkspaceResponse{WorkspaceID: ws.ID, Workspace: coreworkspace.Clone(ws)}, nil
}

func (m *memWorkspaces) UpdateWorkspace(ctx context.Context, req primary.UpdateWorkspaceRequest) (*models.Workspace, error) {
	return nil, errors.New("not implemented")
}

func (m *memWorkspaces) DeleteWorkspace(ctx context.Context, ref string) error {
	i, err := m.find(ref)
	if err != nil {
		return err
	}
	m.list = append(m.list[:i], m.list[i+1:]...)
	return nil
}

func (m *memWorkspaces) DuplicateWorkspace(ctx context.Context, ref string) (*models.Workspace, error) {
	i, err := m.find(ref)
	if err != nil {
		return nil, err
	}
	dup := coreworkspace.Duplicate(m.list[i])
	m.list = append(m.list[:i+1], append([]*models.Workspace{dup}, m.list[i+1:]...)...)
	return dup, nil
}

func (m *memWorkspaces) MoveWorkspace(ctx context.Context, ref string, position int) error {
	i, err := m.find(ref)
	if err != nil {
		return err
	}
	ws := m.list[i]
	m.list = append(m.list[:i], m.list[i+1:]...)
	m.list = append(m.list[:position], append([]*models.Workspace{ws}, m.list[position:]...)...)
	return nil
}

func (m *memWorkspaces) SaveWorkspace(ctx context.Context, ws *models.Workspace) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	i, err := m.find(ws.ID)
	if err != nil {
		return err
	}
	m.list[i] = coreworkspace.Clone(ws)
	m.saved++
	return nil
}

func (m *memWorkspaces) EditLayout(ctx context.Context, req primary.EditLayoutRequest) (*primary.EditLayoutResponse, error) {
	return nil, errors.New("not implemented")
}

func (m *memWorkspaces) UpdatePane(ctx context.Context, req primary.UpdatePaneRequest) (*models.Pane, error) {
	return nil, errors.New("not implemented")
}

func (m *memWorkspaces) ExportWorkspaces(ctx context.Context, req primary.ExportRequest) ([]byte, error) {
	return nil, nil
}

func (m *memWorkspaces) ImportWorkspaces(ctx context.Context, req primary.ImportRequest) (*primary.ImportResponse, error) {
	return nil, nil
}

type stubProfiles struct{}

func (stubProfiles) ListAvailable(ctx context.Context) ([]*primary.ProfileGroup, error) {
	return []*primary.ProfileGroup{{Name: "Built-in", Profiles: []*models.Profile{
		{ID: "local:bash", Name: "Bash"},
		{ID: "local:zsh", Name: "Zsh"},
	}}}, nil
}

func (stubProfiles) SyncProfiles(ctx context.Context) (*primary.SyncProfilesResponse, error) {
	return &primary.SyncProfilesResponse{}, nil
}

func (stubProfiles) GetWorkspaceProfile(ctx context.Context, ref string) (*projection.SplitLayoutProfile, error) {
	return nil, nil
}

func testWorkspace(id, name string) *models.Workspace {
	return &models.Workspace{
		ID:   id,
		Name: name,
		Root: &models.Split{
			Orientation: models.Horizontal,
			Ratios:      []float64{0.5, 0.5},
			Children: []*models.Node{
				models.PaneNode(&models.Pane{ID: id + "-a", ProfileID: "local:bash"}),
				models.PaneNode(&models.Pane{ID: id + "-b", ProfileID: "local:bash"}),
			},
		},
	}
}

func newTestModel(t *testing.T, editRef string, list ...*models.Workspace) (*model, *memWorkspaces) {
	t.Helper()
	svc := &memWorkspaces{list: list}
	m, err := newModel(context.Background(), Options{
		Workspaces: svc,
		Profiles:   stubProfiles{},
		ResizeStep: 0.1,
		EditRef:    editRef,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return m, svc
}

func press(m *model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

// ============================================================================
// Picker Tests
// ============================================================================

func TestPicker_EnterLaunchesSelection(t *testing.T) {
	m, _ := newTestModel(t, "", testWorkspace("a", "Alpha"), testWorkspace("b", "Beta"))

	cmd := press(m, "down", "enter")
	if !isQuit(cmd) {
		t.Fatal("expected quit after enter")
	}
	if m.result.Action != ActionLaunch || m.result.WorkspaceID != "b" {
		t.Errorf("expected launch of b, got %+v", m.result)
	}
}

func TestPicker_QuitWithoutChoice(t *testing.T) {
	m, _ := newTestModel(t, "", testWorkspace("a", "Alpha"))

	if !isQuit(press(m, "q")) {
		t.Fatal("expected quit")
	}
	if m.result.Action != ActionNone {
		t.Errorf("expected no action, got %+v", m.result)
	}
}

func TestPicker_CreateOpensEditor(t *testing.T) {
	m, svc := newTestModel(t, "")

	press(m, "n", "D", "o", "c", "s", "enter")
	if len(svc.list) != 1 || svc.list[0].Name != "Docs" {
		t.Fatalf("expected Docs created, got %+v", svc.list)
	}
	if m.screen != screenEditor {
		t.Error("expected editor to open on the new workspace")
	}
}

func TestPicker_DeleteNeedsConfirmation(t *testing.T) {
	m, svc := newTestModel(t, "", testWorkspace("a", "Alpha"), testWorkspace("b", "Beta"))

	press(m, "x", "n")
	if len(svc.list) != 2 {
		t.Fatalf("expected delete cancelled, got %d workspaces", len(svc.list))
	}
	press(m, "x", "y")
	if len(svc.list) != 1 || svc.list[0].ID != "b" {
		t.Errorf("expected Alpha deleted, got %+v", svc.list)
	}
	if len(m.picker.workspaces) != 1 {
		t.Errorf("expected picker reloaded, got %d rows", len(m.picker.workspaces))
	}
}

func TestPicker_MoveAndDuplicate(t *testing.T) {
	m, svc := newTestModel(t, "", testWorkspace("a", "Alpha"), testWorkspace("b", "Beta"))

	press(m, "J")
	if svc.list[1].ID != "a" || m.picker.cursor != 1 {
		t.Fatalf("expected Alpha moved down with cursor, got %s at cursor %d", svc.list[1].ID, m.picker.cursor)
	}
	press(m, "D")
	if len(svc.list) != 3 || svc.list[2].Name != "Alpha (Copy)" {
		t.Errorf("expected copy after original, got %+v", svc.list)
	}
}

// ============================================================================
// Editor Tests
// ============================================================================

func TestEditor_SplitAndSave(t *testing.T) {
	m, svc := newTestModel(t, "a", testWorkspace("a", "Alpha"))
	if m.screen != screenEditor {
		t.Fatal("expected editor screen")
	}

	press(m, "-")
	ws := m.editor.session.Workspace()
	if got := layout.CountPanesSplit(ws.Root); got != 3 {
		t.Fatalf("expected 3 panes, got %d", got)
	}
	if !m.editor.session.Dirty() {
		t.Error("expected dirty session")
	}

	press(m, "s")
	if svc.saved != 1 {
		t.Fatalf("expected one save, got %d", svc.saved)
	}
	if got := layout.CountPanesSplit(svc.list[0].Root); got != 3 {
		t.Errorf("expected stored workspace to have 3 panes, got %d", got)
	}
}

func TestEditor_QuitWithUnsavedChanges(t *testing.T) {
	m, svc := newTestModel(t, "a", testWorkspace("a", "Alpha"))

	press(m, "|", "q")
	if m.screen != screenEditor {
		t.Fatal("expected first q to warn, not leave")
	}
	if !strings.Contains(m.editor.status, "Unsaved changes") {
		t.Errorf("unexpected status %q", m.editor.status)
	}
	press(m, "q")
	if m.screen != screenPicker {
		t.Fatal("expected second q to leave the editor")
	}
	if got := layout.CountPanesSplit(svc.list[0].Root); got != 2 {
		t.Errorf("expected edits discarded, got %d panes", got)
	}
}

func TestEditor_RemoveLastPaneIsRejected(t *testing.T) {
	ws := testWorkspace("a", "Alpha")
	ws.Root.Children = ws.Root.Children[:1]
	ws.Root.Ratios = []float64{1}
	m, _ := newTestModel(t, "a", ws)

	press(m, "x")
	if got := layout.CountPanesSplit(m.editor.session.Workspace().Root); got != 1 {
		t.Fatalf("expected the pane kept, got %d", got)
	}
	if !strings.Contains(m.editor.status, "at least one pane") {
		t.Errorf("unexpected status %q", m.editor.status)
	}
}

func TestEditor_DragResize(t *testing.T) {
	m, _ := newTestModel(t, "a", testWorkspace("a", "Alpha"))

	press(m, "r")
	if !m.editor.session.Dragging() {
		t.Fatal("expected drag mode")
	}
	press(m, "right", "right")
	ratios := m.editor.session.Workspace().Root.Ratios
	if ratios[0] < 0.69 || ratios[0] > 0.71 {
		t.Errorf("expected first ratio near 0.7, got %v", ratios)
	}

	press(m, "enter")
	if m.editor.session.Dragging() {
		t.Error("expected drag to end")
	}
	// Outside a drag, right selects the next pane.
	press(m, "right")
	if got := m.editor.session.Selected().ID; got != "a-b" {
		t.Errorf("expected a-b selected, got %s", got)
	}
}

func TestEditor_FieldEditing(t *testing.T) {
	m, _ := newTestModel(t, "a", testWorkspace("a", "Alpha"))

	press(m, "c", "n", "p", "m", " ", "s", "t", "a", "r", "t", "enter")
	if got := m.editor.session.Selected().StartupCommand; got != "npm start" {
		t.Errorf("expected startup command set, got %q", got)
	}

	press(m, "t", "x", "esc")
	if got := m.editor.session.Selected().Title; got != "" {
		t.Errorf("expected esc to cancel, got title %q", got)
	}

	press(m, "p")
	if got := m.editor.session.Selected().ProfileID; got != "local:zsh" {
		t.Errorf("expected profile cycled to zsh, got %s", got)
	}
}

func TestEditor_ViewShowsSelection(t *testing.T) {
	m, _ := newTestModel(t, "a", testWorkspace("a", "Alpha"))
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})

	view := m.View()
	if !strings.Contains(view, "Alpha") || !strings.Contains(view, "a-a") {
		t.Errorf("expected name and selected pane in view, got:\n%s", view)
	}
}

func TestBoundary(t *testing.T) {
	s := &models.Split{Ratios: []float64{0.2, 0.3, 0.5}}
	if got := boundary(s, 1); got < 0.49 || got > 0.51 {
		t.Errorf("expected 0.5, got %v", got)
	}
}
