package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/tabbyspaces/internal/adapters/cli"
	"github.com/example/tabbyspaces/internal/app"
	"github.com/example/tabbyspaces/internal/core/layout"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
)

type editField int

const (
	fieldNone editField = iota
	fieldCommand
	fieldCwd
	fieldTitle
	fieldName
)

func (f editField) label() string {
	switch f {
	case fieldCommand:
		return "Startup command: "
	case fieldCwd:
		return "Working directory: "
	case fieldTitle:
		return "Title: "
	case fieldName:
		return "Workspace name: "
	}
	return ""
}

var insertKeys = map[string]models.Direction{
	"H": models.DirectionLeft,
	"J": models.DirectionBottom,
	"K": models.DirectionTop,
	"L": models.DirectionRight,
}

type editorModel struct {
	session *app.EditSession
	step    float64

	field editField
	input textinput.Model

	// pointer is the dragged boundary position as a fraction of its split.
	pointer     float64
	confirmQuit bool

	status string
	failed bool
}

func newEditorModel(ws *models.Workspace, step float64) *editorModel {
	if step <= 0 {
		step = layout.DefaultStep
	}
	return &editorModel{
		session: app.NewEditSession(ws, step),
		step:    step,
	}
}

func (e *editorModel) setStatus(msg string, err error) {
	if err != nil {
		e.status = err.Error()
		e.failed = true
		return
	}
	e.status = msg
	e.failed = false
}

func (m *model) updateEditor(msg tea.KeyMsg) tea.Cmd {
	e := m.editor
	if e.field != fieldNone {
		return m.updateField(msg)
	}
	if e.session.Dragging() {
		m.updateDrag(msg)
		return nil
	}

	key := msg.String()
	if key != "q" && key != "esc" {
		e.confirmQuit = false
	}
	s := e.session

	switch key {
	case "q", "esc":
		if s.Dirty() && !e.confirmQuit {
			e.confirmQuit = true
			e.setStatus("Unsaved changes. Press q again to discard, s to save.", nil)
			return nil
		}
		s.Discard()
		m.closeEditor()
	case "s", "ctrl+s":
		err := s.Save(m.ctx, m.opts.Workspaces)
		e.setStatus("Saved.", err)
	case "tab", "right", "down":
		s.Next()
	case "shift+tab", "left", "up":
		s.Prev()
	case "|":
		m.apply(primary.EditLayoutRequest{Op: primary.OpSplit, Orientation: models.Horizontal})
	case "-":
		m.apply(primary.EditLayoutRequest{Op: primary.OpSplit, Orientation: models.Vertical})
	case "H", "J", "K", "L":
		m.apply(primary.EditLayoutRequest{Op: primary.OpInsert, Direction: insertKeys[key]})
	case "x":
		m.apply(primary.EditLayoutRequest{Op: primary.OpRemove})
	case "o":
		next := models.Vertical
		if s.Workspace().Root.Orientation == models.Vertical {
			next = models.Horizontal
		}
		m.apply(primary.EditLayoutRequest{Op: primary.OpOrientation, Orientation: next})
	case "=":
		m.apply(primary.EditLayoutRequest{Op: primary.OpEqualize, PaneID: selectedID(s)})
	case "r":
		m.beginDrag()
	case "p":
		m.cycleProfile()
	case "c":
		return m.startField(fieldCommand, selectedPane(s).StartupCommand)
	case "d":
		return m.startField(fieldCwd, selectedPane(s).Cwd)
	case "t":
		return m.startField(fieldTitle, selectedPane(s).Title)
	case "R":
		return m.startField(fieldName, s.Workspace().Name)
	}
	return nil
}

func (m *model) apply(req primary.EditLayoutRequest) {
	changed, err := m.editor.session.Apply(req)
	switch {
	case errors.Is(err, app.ErrLastPane):
		m.editor.setStatus("A workspace needs at least one pane.", nil)
	case err != nil:
		m.editor.setStatus("", err)
	case !changed:
		m.editor.setStatus("No change.", nil)
	default:
		m.editor.setStatus("", nil)
	}
}

// beginDrag grabs the boundary after the selected pane, or before it when
// the pane is the last child of its split.
func (m *model) beginDrag() {
	e := m.editor
	sel := selectedID(e.session)
	parent, idx, ok := layout.ParentOf(e.session.Workspace().Root, sel)
	if !ok || len(parent.Children) < 2 {
		e.setStatus("Nothing to resize here.", nil)
		return
	}
	if idx == len(parent.Children)-1 {
		idx--
	}
	if err := e.session.BeginDrag(sel, idx); err != nil {
		e.setStatus("", err)
		return
	}
	e.pointer = boundary(parent, idx)
	e.setStatus("Resizing: arrows move the divider, enter to finish.", nil)
}

func (m *model) updateDrag(msg tea.KeyMsg) {
	e := m.editor
	switch msg.String() {
	case "left", "up", "h", "k":
		e.pointer -= e.step
	case "right", "down", "l", "j":
		e.pointer += e.step
	case "enter", "esc", "r":
		if err := e.session.EndDrag(); err != nil {
			e.setStatus("", err)
			return
		}
		e.setStatus("", nil)
		return
	default:
		return
	}
	e.session.Drag(e.pointer)

	// Re-read the boundary so the pointer stays where clamping left it.
	if parent, idx, ok := layout.ParentOf(e.session.Workspace().Root, selectedID(e.session)); ok && len(parent.Ratios) > 1 {
		if idx == len(parent.Ratios)-1 {
			idx--
		}
		e.pointer = boundary(parent, idx)
	}
}

// boundary returns the position of the divider after child index, in the
// same units DragResize measures the pointer in.
func boundary(s *models.Split, index int) float64 {
	pos := 0.0
	for _, r := range s.Ratios[:index+1] {
		pos += r
	}
	return pos
}

func (m *model) cycleProfile() {
	e := m.editor
	if len(m.profiles) == 0 {
		e.setStatus("No local profiles found in the Tabby config.", nil)
		return
	}
	pane := selectedPane(e.session)
	next := m.profiles[0]
	for i, p := range m.profiles {
		if p.ID == pane.ProfileID {
			next = m.profiles[(i+1)%len(m.profiles)]
			break
		}
	}
	err := e.session.EditPane(pane.ID, func(p *models.Pane) { p.ProfileID = next.ID })
	e.setStatus("Profile: "+next.Name, err)
}

func (m *model) startField(field editField, value string) tea.Cmd {
	e := m.editor
	e.input = textinput.New()
	e.input.Prompt = field.label()
	e.input.CharLimit = 512
	e.input.Width = max(m.width-len(field.label())-2, 10)
	e.input.SetValue(value)
	e.input.CursorEnd()
	e.input.Focus()
	e.field = field
	return textinput.Blink
}

func (m *model) updateField(msg tea.KeyMsg) tea.Cmd {
	e := m.editor
	switch msg.String() {
	case "esc":
		e.field = fieldNone
		return nil
	case "enter":
		m.commitField(e.field, strings.TrimSpace(e.input.Value()))
		e.field = fieldNone
		return nil
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return cmd
}

func (m *model) commitField(field editField, value string) {
	e := m.editor
	s := e.session
	if field == fieldName {
		if value == "" {
			e.setStatus("Name cannot be empty.", nil)
			return
		}
		s.Rename(value)
		return
	}
	err := s.EditPane(selectedID(s), func(p *models.Pane) {
		switch field {
		case fieldCommand:
			p.StartupCommand = value
		case fieldCwd:
			p.Cwd = value
		case fieldTitle:
			p.Title = value
		}
	})
	e.setStatus("", err)
}

func selectedPane(s *app.EditSession) *models.Pane {
	if p := s.Selected(); p != nil {
		return p
	}
	return &models.Pane{}
}

func selectedID(s *app.EditSession) string {
	return selectedPane(s).ID
}

func (m *model) viewEditor() string {
	e := m.editor
	ws := e.session.Workspace()
	pane := selectedPane(e.session)
	var b strings.Builder

	header := titleStyle.Render(ws.Name)
	if e.session.Dirty() {
		header += dirtyMarkStyle.Render(" *")
	}
	b.WriteString(header + "\n\n")

	b.WriteString(cli.RenderPreview(ws, cli.PreviewOptions{
		Width:       m.width,
		Height:      max(m.height-8, 3),
		Selected:    pane.ID,
		ProfileName: m.profileName,
		Accent:      ws.Color,
	}))
	b.WriteString("\n")

	details := fmt.Sprintf("%s  %s", pane.ID, m.profileName(pane.ProfileID))
	if pane.Cwd != "" {
		details += "  cwd " + pane.Cwd
	}
	if pane.StartupCommand != "" {
		details += "  $ " + pane.StartupCommand
	}
	b.WriteString(dimStyle.Render(details) + "\n")

	switch {
	case e.field != fieldNone:
		b.WriteString(e.input.View() + "\n")
	case e.status != "":
		style := statusStyle
		if e.failed {
			style = errorStyle
		}
		b.WriteString(style.Render(e.status) + "\n")
	default:
		b.WriteString("\n")
	}

	if e.session.Dragging() {
		b.WriteString(helpBarStyle.Render("←/→ move divider · enter done"))
	} else {
		b.WriteString(helpBarStyle.Render("tab next · | - split · HJKL insert · x remove · o flip · r resize · = equalize · p profile · c cmd · d cwd · t title · R rename · s save · q back"))
	}
	return b.String()
}
