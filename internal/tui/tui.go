// Package tui implements the interactive workspace picker and layout editor.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/example/tabbyspaces/internal/logging"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
)

// Action is what the user chose when the picker closed.
type Action int

const (
	ActionNone Action = iota
	ActionLaunch
)

// Result reports the picker outcome to the caller.
type Result struct {
	Action      Action
	WorkspaceID string
}

// Options configures a picker run.
type Options struct {
	Workspaces primary.WorkspaceService
	Profiles   primary.ProfileService
	ResizeStep float64
	Logger     *slog.Logger

	// EditRef opens the editor on this workspace instead of the list.
	EditRef string
}

// Run starts the TUI on the controlling terminal and blocks until it exits.
func Run(ctx context.Context, opts Options) (Result, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return Result{}, fmt.Errorf("the picker requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	m, err := newModel(ctx, opts)
	if err != nil {
		return Result{}, err
	}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		m.width, m.height = w, h
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("failed to run picker: %w", err)
	}
	return final.(*model).result, nil
}

type screen int

const (
	screenPicker screen = iota
	screenEditor
)

// model is the root bubbletea model. It owns the workspace list and
// switches between the picker and the editor.
type model struct {
	ctx  context.Context
	opts Options

	screen screen
	picker pickerModel
	editor *editorModel

	profiles []*models.Profile
	names    map[string]string

	result Result
	width  int
	height int
}

func newModel(ctx context.Context, opts Options) (*model, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	m := &model{
		ctx:    ctx,
		opts:   opts,
		names:  map[string]string{},
		width:  80,
		height: 24,
	}
	m.loadProfiles()

	if err := m.reload(); err != nil {
		return nil, err
	}
	if opts.EditRef != "" {
		ws, err := opts.Workspaces.GetWorkspace(ctx, opts.EditRef)
		if err != nil {
			return nil, err
		}
		m.openEditor(ws)
	}
	return m, nil
}

// loadProfiles snapshots the profile catalog. A missing Tabby config leaves
// the list empty; panes then show raw profile ids.
func (m *model) loadProfiles() {
	if m.opts.Profiles == nil {
		return
	}
	groups, err := m.opts.Profiles.ListAvailable(m.ctx)
	if err != nil {
		m.opts.Logger.Warn("profile catalog unavailable", "error", err)
		return
	}
	for _, g := range groups {
		for _, p := range g.Profiles {
			m.profiles = append(m.profiles, p)
			m.names[p.ID] = p.Name
		}
	}
}

func (m *model) profileName(id string) string {
	if n, ok := m.names[id]; ok {
		return n
	}
	return id
}

func (m *model) reload() error {
	list, err := m.opts.Workspaces.ListWorkspaces(m.ctx)
	if err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}
	m.picker.setWorkspaces(list)
	return nil
}

func (m *model) openEditor(ws *models.Workspace) {
	m.editor = newEditorModel(ws, m.opts.ResizeStep)
	m.screen = screenEditor
}

func (m *model) closeEditor() {
	m.editor = nil
	m.screen = screenPicker
	if err := m.reload(); err != nil {
		m.picker.status = err.Error()
	}
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenEditor {
			return m, m.updateEditor(msg)
		}
		return m, m.updatePicker(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m *model) View() string {
	if m.screen == screenEditor && m.editor != nil {
		return m.viewEditor()
	}
	return m.viewPicker()
}
