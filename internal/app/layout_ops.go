package app

import (
	"fmt"

	"github.com/example/tabbyspaces/internal/core/layout"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
)

// layoutResult describes the outcome of one tree mutation.
type layoutResult struct {
	Changed   bool
	NewPaneID string
}

// applyLayoutOp runs a tree mutation against ws in place. Guards reject
// missing panes, last-pane removal and out-of-range ratio indices; a
// mutation the engine declines (such as removing from a one-child split)
// reports Changed=false without an error.
func applyLayoutOp(ws *models.Workspace, req primary.EditLayoutRequest, defaultStep float64) (layoutResult, error) {
	before := paneSet(ws.Root)

	switch req.Op {
	case primary.OpSplit:
		if err := checkPane(ws, req.PaneID); err != nil {
			return layoutResult{}, err
		}
		orientation := req.Orientation
		if orientation == "" {
			orientation = models.Horizontal
		}
		if !orientation.Valid() {
			return layoutResult{}, fmt.Errorf("invalid orientation %q", req.Orientation)
		}
		changed := layout.SplitPane(ws.Root, req.PaneID, orientation)
		return layoutResult{Changed: changed, NewPaneID: newPaneID(before, ws.Root)}, nil

	case primary.OpRemove:
		guard := layout.CanRemovePane(layout.RemovePaneContext{
			WorkspaceID: ws.ID,
			PaneID:      req.PaneID,
			PaneExists:  layout.FindPane(ws.Root, req.PaneID) != nil,
			PaneCount:   layout.CountPanesSplit(ws.Root),
		})
		if !guard.Allowed {
			if layout.FindPane(ws.Root, req.PaneID) == nil {
				return layoutResult{}, fmt.Errorf("%w: %v", ErrPaneNotFound, guard.Error())
			}
			return layoutResult{}, fmt.Errorf("%w: %v", ErrLastPane, guard.Error())
		}
		root, changed := layout.RemovePane(ws.Root, req.PaneID)
		ws.Root = root
		return layoutResult{Changed: changed}, nil

	case primary.OpInsert:
		if err := checkPane(ws, req.PaneID); err != nil {
			return layoutResult{}, err
		}
		if !req.Direction.Valid() {
			return layoutResult{}, fmt.Errorf("invalid direction %q (want left, right, top or bottom)", req.Direction)
		}
		root, changed := layout.InsertPane(ws.Root, req.PaneID, req.Direction)
		ws.Root = root
		return layoutResult{Changed: changed, NewPaneID: newPaneID(before, ws.Root)}, nil

	case primary.OpOrientation:
		if !req.Orientation.Valid() {
			return layoutResult{}, fmt.Errorf("invalid orientation %q", req.Orientation)
		}
		changed := ws.Root.Orientation != req.Orientation
		layout.SetOrientation(ws.Root, req.Orientation)
		return layoutResult{Changed: changed}, nil

	case primary.OpResize, primary.OpDrag:
		split, err := targetSplit(ws, req.PaneID)
		if err != nil {
			return layoutResult{}, err
		}
		pair := req.Op == primary.OpDrag
		guard := layout.CanResize(layout.ResizeContext{
			WorkspaceID: ws.ID,
			Index:       req.Index,
			RatioCount:  len(split.Ratios),
			Pair:        pair,
		})
		if err := guard.Error(); err != nil {
			return layoutResult{}, err
		}
		if !pair {
			return layoutResult{Changed: layout.ResizeRatios(split, req.Index, req.Value)}, nil
		}
		step := req.Step
		if step <= 0 {
			step = defaultStep
		}
		return layoutResult{Changed: layout.DragResize(split, req.Index, req.Value, step)}, nil

	case primary.OpEqualize:
		split, err := targetSplit(ws, req.PaneID)
		if err != nil {
			return layoutResult{}, err
		}
		layout.Equalize(split)
		return layoutResult{Changed: true}, nil

	default:
		return layoutResult{}, fmt.Errorf("unknown layout operation %q", req.Op)
	}
}

func checkPane(ws *models.Workspace, paneID string) error {
	guard := layout.CanEditPane(layout.EditPaneContext{
		WorkspaceID: ws.ID,
		PaneID:      paneID,
		PaneExists:  layout.FindPane(ws.Root, paneID) != nil,
	})
	if !guard.Allowed {
		return fmt.Errorf("%w: %v", ErrPaneNotFound, guard.Error())
	}
	return nil
}

// targetSplit returns the split holding paneID, or the root when paneID is empty.
func targetSplit(ws *models.Workspace, paneID string) (*models.Split, error) {
	if paneID == "" {
		return ws.Root, nil
	}
	parent, _, ok := layout.ParentOf(ws.Root, paneID)
	if !ok {
		return nil, fmt.Errorf("%w: pane %s not found in workspace %s", ErrPaneNotFound, paneID, ws.ID)
	}
	return parent, nil
}

func paneSet(root *models.Split) map[string]bool {
	set := make(map[string]bool)
	for _, id := range layout.PaneIDs(root) {
		set[id] = true
	}
	return set
}

func newPaneID(before map[string]bool, root *models.Split) string {
	for _, id := range layout.PaneIDs(root) {
		if !before[id] {
			return id
		}
	}
	return ""
}
