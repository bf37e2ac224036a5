package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/example/tabbyspaces/internal/adapters/cli"
	"github.com/example/tabbyspaces/internal/core/layout"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f59e0b"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	helpBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	dirtyMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b"))
)

type pickerPrompt int

const (
	promptNone pickerPrompt = iota
	promptCreate
	promptConfirmDelete
)

type pickerModel struct {
	workspaces []*models.Workspace
	cursor     int

	prompt pickerPrompt
	input  textinput.Model

	status string
	failed bool
}

func (p *pickerModel) setWorkspaces(list []*models.Workspace) {
	p.workspaces = list
	if p.cursor >= len(list) {
		p.cursor = max(len(list)-1, 0)
	}
}

func (p *pickerModel) current() *models.Workspace {
	if p.cursor < 0 || p.cursor >= len(p.workspaces) {
		return nil
	}
	return p.workspaces[p.cursor]
}

func (p *pickerModel) setStatus(msg string, err error) {
	if err != nil {
		p.status = err.Error()
		p.failed = true
		return
	}
	p.status = msg
	p.failed = false
}

func (m *model) updatePicker(msg tea.KeyMsg) tea.Cmd {
	p := &m.picker

	switch p.prompt {
	case promptCreate:
		return m.updateCreatePrompt(msg)
	case promptConfirmDelete:
		if msg.String() == "y" {
			m.deleteCurrent()
		} else {
			p.setStatus("Delete cancelled.", nil)
		}
		p.prompt = promptNone
		return nil
	}

	switch msg.String() {
	case "q", "esc":
		return tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.workspaces)-1 {
			p.cursor++
		}
	case "enter":
		if ws := p.current(); ws != nil {
			m.result = Result{Action: ActionLaunch, WorkspaceID: ws.ID}
			return tea.Quit
		}
	case "e":
		if ws := p.current(); ws != nil {
			m.openEditor(ws)
		}
	case "n":
		p.input = textinput.New()
		p.input.Prompt = "Name: "
		p.input.Placeholder = "My Project"
		p.input.CharLimit = 64
		p.input.Focus()
		p.prompt = promptCreate
		return textinput.Blink
	case "D":
		if ws := p.current(); ws != nil {
			dup, err := m.opts.Workspaces.DuplicateWorkspace(m.ctx, ws.ID)
			p.setStatus(fmt.Sprintf("Created %s.", nameOf(dup)), err)
			m.refresh()
		}
	case "x":
		if p.current() != nil {
			p.prompt = promptConfirmDelete
		}
	case "K":
		m.moveCurrent(-1)
	case "J":
		m.moveCurrent(1)
	}
	return nil
}

func (m *model) updateCreatePrompt(msg tea.KeyMsg) tea.Cmd {
	p := &m.picker
	switch msg.String() {
	case "esc":
		p.prompt = promptNone
		return nil
	case "enter":
		name := strings.TrimSpace(p.input.Value())
		p.prompt = promptNone
		if name == "" {
			p.setStatus("Name cannot be empty.", nil)
			return nil
		}
		resp, err := m.opts.Workspaces.CreateWorkspace(m.ctx, primary.CreateWorkspaceRequest{Name: name})
		if err != nil {
			p.setStatus("", err)
			return nil
		}
		m.refresh()
		m.selectID(resp.WorkspaceID)
		m.openEditor(resp.Workspace)
		return nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (m *model) deleteCurrent() {
	p := &m.picker
	ws := p.current()
	if ws == nil {
		return
	}
	err := m.opts.Workspaces.DeleteWorkspace(m.ctx, ws.ID)
	p.setStatus(fmt.Sprintf("Deleted %s.", ws.Name), err)
	m.refresh()
}

func (m *model) moveCurrent(delta int) {
	p := &m.picker
	ws := p.current()
	target := p.cursor + delta
	if ws == nil || target < 0 || target >= len(p.workspaces) {
		return
	}
	if err := m.opts.Workspaces.MoveWorkspace(m.ctx, ws.ID, target); err != nil {
		p.setStatus("", err)
		return
	}
	m.refresh()
	m.selectID(ws.ID)
}

func (m *model) refresh() {
	if err := m.reload(); err != nil {
		m.picker.setStatus("", err)
	}
}

func (m *model) selectID(id string) {
	for i, ws := range m.picker.workspaces {
		if ws.ID == id {
			m.picker.cursor = i
			return
		}
	}
}

func nameOf(ws *models.Workspace) string {
	if ws == nil {
		return ""
	}
	return ws.Name
}

func (m *model) viewPicker() string {
	p := &m.picker
	var b strings.Builder

	b.WriteString(titleStyle.Render("TabbySpaces") + "\n\n")

	if len(p.workspaces) == 0 {
		b.WriteString(dimStyle.Render("No workspaces yet. Press n to create one.") + "\n")
	}
	for i, ws := range p.workspaces {
		marker := "  "
		name := ws.Name
		if i == p.cursor {
			marker = cursorStyle.Render("> ")
			name = cursorStyle.Render(name)
		}
		swatch := ""
		if ws.Color != "" {
			swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(ws.Color)).Render("■") + " "
		}
		detail := fmt.Sprintf("%d panes", layout.CountPanesSplit(ws.Root))
		if ws.LaunchOnStartup {
			detail += ", startup"
		}
		if ws.Hotkey != "" {
			detail += ", " + ws.Hotkey
		}
		b.WriteString(marker + swatch + name + "  " + dimStyle.Render(detail) + "\n")
	}

	if ws := p.current(); ws != nil && m.height > 14 {
		b.WriteString("\n")
		b.WriteString(cli.RenderPreview(ws, cli.PreviewOptions{
			Width:       min(m.width, 72),
			Height:      min(m.height-len(p.workspaces)-8, 12),
			ProfileName: m.profileName,
		}))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch p.prompt {
	case promptCreate:
		b.WriteString(p.input.View() + "\n")
	case promptConfirmDelete:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Delete %s? (y/N)", nameOf(p.current()))) + "\n")
	default:
		if p.status != "" {
			style := statusStyle
			if p.failed {
				style = errorStyle
			}
			b.WriteString(style.Render(p.status) + "\n")
		}
	}
	b.WriteString(helpBarStyle.Render("enter launch · e edit · n new · D duplicate · x delete · J/K move · q quit"))
	return b.String()
}
