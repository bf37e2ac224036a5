package app

import (
	"context"
	"fmt"

	"github.com/example/tabbyspaces/internal/core/layout"
	coreworkspace "github.com/example/tabbyspaces/internal/core/workspace"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
)

// dragState tracks an in-progress boundary drag between two siblings.
type dragState struct {
	split *models.Split
	index int
}

// EditSession is the transient editing state for one workspace. It works
// on a clone; nothing is stored until Save.
type EditSession struct {
	original *models.Workspace
	ws       *models.Workspace
	selected string
	dirty    bool
	step     float64
	drag     *dragState
}

// NewEditSession starts editing a copy of ws with the first pane selected.
func NewEditSession(ws *models.Workspace, resizeStep float64) *EditSession {
	if resizeStep <= 0 {
		resizeStep = layout.DefaultStep
	}
	s := &EditSession{
		original: coreworkspace.Clone(ws),
		ws:       coreworkspace.Clone(ws),
		step:     resizeStep,
	}
	if p := layout.FirstPane(s.ws.Root); p != nil {
		s.selected = p.ID
	}
	return s
}

// Workspace returns the edited copy.
func (s *EditSession) Workspace() *models.Workspace { return s.ws }

// Dirty reports whether the copy differs from what was loaded or last saved.
func (s *EditSession) Dirty() bool { return s.dirty }

// Dragging reports whether a boundary drag is in progress.
func (s *EditSession) Dragging() bool { return s.drag != nil }

// Selected returns the selected pane. If it no longer exists, selection
// moves to the first pane.
func (s *EditSession) Selected() *models.Pane {
	if p := layout.FindPane(s.ws.Root, s.selected); p != nil {
		return p
	}
	p := layout.FirstPane(s.ws.Root)
	if p != nil {
		s.selected = p.ID
	}
	return p
}

// Select makes paneID the selected pane.
func (s *EditSession) Select(paneID string) error {
	if layout.FindPane(s.ws.Root, paneID) == nil {
		return fmt.Errorf("%w: %s", ErrPaneNotFound, paneID)
	}
	s.selected = paneID
	return nil
}

// Next selects the following pane in depth-first order, wrapping around.
func (s *EditSession) Next() { s.cycle(1) }

// Prev selects the preceding pane in depth-first order, wrapping around.
func (s *EditSession) Prev() { s.cycle(-1) }

func (s *EditSession) cycle(delta int) {
	ids := layout.PaneIDs(s.ws.Root)
	if len(ids) == 0 {
		return
	}
	cur := s.Selected().ID
	for i, id := range ids {
		if id == cur {
			s.selected = ids[(i+delta+len(ids))%len(ids)]
			return
		}
	}
}

// Apply runs a layout operation on the copy. Split and insert select the
// new pane. An operation naming no pane acts on the selection, except
// resize-type operations, which then act on the root split.
func (s *EditSession) Apply(req primary.EditLayoutRequest) (bool, error) {
	if req.PaneID == "" {
		switch req.Op {
		case primary.OpSplit, primary.OpRemove, primary.OpInsert:
			if p := s.Selected(); p != nil {
				req.PaneID = p.ID
			}
		}
	}
	s.drag = nil
	result, err := applyLayoutOp(s.ws, req, s.step)
	if err != nil {
		return false, err
	}
	if result.NewPaneID != "" {
		s.selected = result.NewPaneID
	}
	if result.Changed {
		s.dirty = true
	}
	return result.Changed, nil
}

// EditPane applies fn to the pane with paneID.
func (s *EditSession) EditPane(paneID string, fn func(p *models.Pane)) error {
	p := layout.FindPane(s.ws.Root, paneID)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPaneNotFound, paneID)
	}
	before := *p
	fn(p)
	p.ID = before.ID
	if *p != before {
		s.dirty = true
	}
	return nil
}

// Rename changes the workspace name.
func (s *EditSession) Rename(name string) {
	if name != s.ws.Name {
		s.ws.Name = name
		s.dirty = true
	}
}

// BeginDrag starts dragging the boundary after child index of the split
// holding paneID, or of the root split when paneID is empty.
func (s *EditSession) BeginDrag(paneID string, index int) error {
	split, err := targetSplit(s.ws, paneID)
	if err != nil {
		return err
	}
	guard := layout.CanResize(layout.ResizeContext{
		WorkspaceID: s.ws.ID,
		Index:       index,
		RatioCount:  len(split.Ratios),
		Pair:        true,
	})
	if err := guard.Error(); err != nil {
		return err
	}
	s.drag = &dragState{split: split, index: index}
	return nil
}

// Drag moves the dragged boundary to pointer, a fraction of the split's
// extent. Calls outside a drag are ignored.
func (s *EditSession) Drag(pointer float64) bool {
	if s.drag == nil {
		return false
	}
	if layout.DragResize(s.drag.split, s.drag.index, pointer, s.step) {
		s.dirty = true
		return true
	}
	return false
}

// EndDrag finishes the current drag.
func (s *EditSession) EndDrag() error {
	if s.drag == nil {
		return ErrNotDragging
	}
	s.drag = nil
	return nil
}

// Save stores the edited copy through svc, replacing the stored workspace.
func (s *EditSession) Save(ctx context.Context, svc primary.WorkspaceService) error {
	if err := svc.SaveWorkspace(ctx, s.ws); err != nil {
		return err
	}
	s.original = coreworkspace.Clone(s.ws)
	s.dirty = false
	return nil
}

// Discard throws away unsaved edits.
func (s *EditSession) Discard() {
	s.ws = coreworkspace.Clone(s.original)
	s.drag = nil
	s.dirty = false
	s.Selected()
}
