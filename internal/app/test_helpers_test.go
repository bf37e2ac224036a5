package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/example/tabbyspaces/internal/core/projection"
	coreworkspace "github.com/example/tabbyspaces/internal/core/workspace"
	"github.com/example/tabbyspaces/internal/logging"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/secondary"
)

// ============================================================================
// Mock WorkspaceRepository
// ============================================================================

var _ secondary.WorkspaceRepository = (*mockWorkspaceRepository)(nil)

type mockWorkspaceRepository struct {
	workspaces []*models.Workspace
	saves      int
	loadErr    error
	saveErr    error
}

func newMockWorkspaceRepository(list ...*models.Workspace) *mockWorkspaceRepository {
	return &mockWorkspaceRepository{workspaces: list}
}

func (m *mockWorkspaceRepository) Load(ctx context.Context) ([]*models.Workspace, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]*models.Workspace, len(m.workspaces))
	for i, ws := range m.workspaces {
		out[i] = coreworkspace.Clone(ws)
	}
	return out, nil
}

func (m *mockWorkspaceRepository) Save(ctx context.Context, list []*models.Workspace) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.workspaces = make([]*models.Workspace, len(list))
	for i, ws := range list {
		m.workspaces[i] = coreworkspace.Clone(ws)
	}
	return nil
}

func (m *mockWorkspaceRepository) names() []string {
	out := make([]string, len(m.workspaces))
	for i, ws := range m.workspaces {
		out[i] = ws.Name
	}
	return out
}

// ============================================================================
// Mock ProfileCatalog
// ============================================================================

var _ secondary.ProfileCatalog = (*mockProfileCatalog)(nil)

type mockProfileCatalog struct {
	profiles    []*models.Profile
	listErr     error
	invalidated int
}

func newMockProfileCatalog() *mockProfileCatalog {
	return &mockProfileCatalog{
		profiles: []*models.Profile{
			{ID: "local:bash", Name: "Bash", Type: models.ProfileTypeLocal, Command: "/bin/bash", IsBuiltin: true},
			{ID: "local:zsh", Name: "Zsh", Type: models.ProfileTypeLocal, Command: "/bin/zsh", Group: "Shells"},
			{ID: "local:custom", Name: "Custom", Type: models.ProfileTypeLocal, Command: "/usr/bin/fish"},
			{ID: "ssh:box", Name: "Box", Type: models.ProfileTypeSSH},
			{ID: "split-layout:other:x", Name: "Other", Type: models.ProfileTypeSplitLayout},
		},
	}
}

func (m *mockProfileCatalog) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.profiles, nil
}

func (m *mockProfileCatalog) ListAvailable(ctx context.Context) ([]*models.Profile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.Profile
	for _, p := range m.profiles {
		if p.Type == models.ProfileTypeLocal && !coreworkspace.IsSplitLayoutProfileID(p.ID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProfileCatalog) Lookup(ctx context.Context, id string) (*models.Profile, bool, error) {
	available, err := m.ListAvailable(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, p := range available {
		if p.ID == id {
			return p, true, nil
		}
	}
	return nil, false, nil
}

func (m *mockProfileCatalog) Invalidate() {
	m.invalidated++
}

// ============================================================================
// Mock ProfileSyncer
// ============================================================================

var _ secondary.ProfileSyncer = (*mockProfileSyncer)(nil)

type mockProfileSyncer struct {
	profiles []*projection.SplitLayoutProfile
	css      string
	calls    int
	syncErr  error
}

func newMockProfileSyncer() *mockProfileSyncer {
	return &mockProfileSyncer{}
}

func (m *mockProfileSyncer) SyncProfiles(ctx context.Context, profiles []*projection.SplitLayoutProfile) (*secondary.ProfileSyncResult, error) {
	if m.syncErr != nil {
		return nil, m.syncErr
	}
	m.calls++
	removed := len(m.profiles)
	m.profiles = profiles
	return &secondary.ProfileSyncResult{Removed: removed, Added: len(profiles), Path: "/tmp/config.yaml"}, nil
}

func (m *mockProfileSyncer) SyncBackgrounds(ctx context.Context, css string) error {
	if m.syncErr != nil {
		return m.syncErr
	}
	m.css = css
	return nil
}

// ============================================================================
// Mock WorkspaceSyncer
// ============================================================================

type mockWorkspaceSyncer struct {
	synced  [][]*models.Workspace
	syncErr error
}

func (m *mockWorkspaceSyncer) SyncWorkspaces(ctx context.Context, list []*models.Workspace) error {
	m.synced = append(m.synced, list)
	return m.syncErr
}

// ============================================================================
// Mock WorkspaceCodec
// ============================================================================

var _ secondary.WorkspaceCodec = (*mockCodec)(nil)

// mockCodec stores documents as JSON and records the requested format.
type mockCodec struct {
	lastFormat secondary.DocumentFormat
}

func (m *mockCodec) Encode(list []*models.Workspace, format secondary.DocumentFormat) ([]byte, error) {
	m.lastFormat = format
	return json.Marshal(list)
}

func (m *mockCodec) Decode(data []byte, format secondary.DocumentFormat) ([]*models.Workspace, error) {
	m.lastFormat = format
	var list []*models.Workspace
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ============================================================================
// Mock LogWriter
// ============================================================================

var _ secondary.LogWriter = (*mockLogWriter)(nil)

type mockLogWriter struct {
	entries []string
}

func (m *mockLogWriter) LogCreate(ctx context.Context, entityType, entityID string) error {
	m.entries = append(m.entries, "create "+entityID)
	return nil
}

func (m *mockLogWriter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	m.entries = append(m.entries, fmt.Sprintf("update %s %s %s->%s", entityID, fieldName, oldValue, newValue))
	return nil
}

func (m *mockLogWriter) LogDelete(ctx context.Context, entityType, entityID string) error {
	m.entries = append(m.entries, "delete "+entityID)
	return nil
}

func (m *mockLogWriter) has(prefix string) bool {
	for _, e := range m.entries {
		if strings.HasPrefix(e, prefix) {
			return true
		}
	}
	return false
}

// ============================================================================
// Mock EventRepository
// ============================================================================

var _ secondary.EventRepository = (*mockEventRepository)(nil)

type mockEventRepository struct {
	records    []*secondary.EventRecord
	lastFilter secondary.EventFilters
	pruneDays  int
	pruned     int
	listErr    error
}

func (m *mockEventRepository) Create(ctx context.Context, record *secondary.EventRecord) error {
	record.ID = int64(len(m.records) + 1)
	m.records = append(m.records, record)
	return nil
}

func (m *mockEventRepository) List(ctx context.Context, filters secondary.EventFilters) ([]*secondary.EventRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.lastFilter = filters
	return m.records, nil
}

func (m *mockEventRepository) Prune(ctx context.Context, olderThanDays int) (int, error) {
	m.pruneDays = olderThanDays
	return m.pruned, nil
}

// ============================================================================
// Mock TMuxAdapter
// ============================================================================

var _ secondary.TMuxAdapter = (*mockTMuxAdapter)(nil)

// mockTMuxAdapter records calls and hands out sequential pane ids.
type mockTMuxAdapter struct {
	sessions  map[string]bool
	calls     []string
	options   map[string]string // tmux pane id + option -> value
	keys      map[string][]string
	nextPane  int
	splitErr  error
	newErr    error
	killCalls int
}

func newMockTMuxAdapter() *mockTMuxAdapter {
	return &mockTMuxAdapter{
		sessions: make(map[string]bool),
		options:  make(map[string]string),
		keys:     make(map[string][]string),
	}
}

func (m *mockTMuxAdapter) pane() string {
	id := fmt.Sprintf("%%%d", m.nextPane)
	m.nextPane++
	return id
}

func (m *mockTMuxAdapter) NewSession(ctx context.Context, opts secondary.NewSessionOptions) (string, error) {
	if m.newErr != nil {
		return "", m.newErr
	}
	m.sessions[opts.Name] = true
	m.calls = append(m.calls, "new "+opts.Name)
	return m.pane(), nil
}

func (m *mockTMuxAdapter) SplitPane(ctx context.Context, opts secondary.SplitOptions) (string, error) {
	if m.splitErr != nil {
		return "", m.splitErr
	}
	m.calls = append(m.calls, fmt.Sprintf("split %s %v %d", opts.Target, opts.Horizontal, opts.Percent))
	return m.pane(), nil
}

func (m *mockTMuxAdapter) SetPaneOption(ctx context.Context, paneID, option, value string) error {
	m.options[paneID+option] = value
	return nil
}

func (m *mockTMuxAdapter) SetPaneTitle(ctx context.Context, paneID, title string) error {
	m.calls = append(m.calls, "title "+paneID+" "+title)
	return nil
}

func (m *mockTMuxAdapter) SendKeys(ctx context.Context, paneID, keys string) error {
	m.keys[paneID] = append(m.keys[paneID], keys)
	return nil
}

func (m *mockTMuxAdapter) FindPaneByOption(ctx context.Context, session, option, value string) (string, error) {
	for k, v := range m.options {
		if v == value && strings.HasSuffix(k, option) {
			return strings.TrimSuffix(k, option), nil
		}
	}
	return "", errors.New("no pane")
}

func (m *mockTMuxAdapter) SessionExists(ctx context.Context, name string) bool {
	return m.sessions[name]
}

func (m *mockTMuxAdapter) KillSession(ctx context.Context, name string) error {
	m.killCalls++
	delete(m.sessions, name)
	return nil
}

func (m *mockTMuxAdapter) AttachInstructions(sessionName string) string {
	return "tmux attach -t " + sessionName
}

// ============================================================================
// Fixtures
// ============================================================================

// testWorkspace builds:
//
//	root (horizontal)
//	├── pane-a (startup "npm run dev")
//	└── split (vertical)
//	    ├── pane-b
//	    └── pane-c
func testWorkspace(id, name string) *models.Workspace {
	return &models.Workspace{
		ID:    id,
		Name:  name,
		Icon:  "code",
		Color: "#3b82f6",
		Root: &models.Split{
			Orientation: models.Horizontal,
			Ratios:      []float64{0.5, 0.5},
			Children: []*models.Node{
				models.PaneNode(&models.Pane{ID: id + "-a", ProfileID: "local:bash", StartupCommand: "npm run dev"}),
				models.SplitNode(&models.Split{
					Orientation: models.Vertical,
					Ratios:      []float64{0.5, 0.5},
					Children: []*models.Node{
						models.PaneNode(&models.Pane{ID: id + "-b", ProfileID: "local:zsh"}),
						models.PaneNode(&models.Pane{ID: id + "-c", ProfileID: "local:bash", Cwd: "/srv"}),
					},
				}),
			},
		},
	}
}

func newTestWorkspaceService(list ...*models.Workspace) (*WorkspaceServiceImpl, *mockWorkspaceRepository, *mockWorkspaceSyncer, *mockLogWriter) {
	repo := newMockWorkspaceRepository(list...)
	syncer := &mockWorkspaceSyncer{}
	logWriter := &mockLogWriter{}
	svc := NewWorkspaceService(repo, newMockProfileCatalog(), &mockCodec{}, logWriter, syncer, logging.Discard(), WorkspaceDefaults{})
	return svc, repo, syncer, logWriter
}
