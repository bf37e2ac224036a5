package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/example/tabbyspaces/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// RemovePaneContext provides context for pane removal guards.
type RemovePaneContext struct {
	WorkspaceID string
	PaneID      string
	PaneExists  bool
	PaneCount   int
}

// EditPaneContext provides context for split, insert and edit guards.
type EditPaneContext struct {
	WorkspaceID string
	PaneID      string
	PaneExists  bool
}

// ResizeContext provides context for ratio resize guards.
type ResizeContext struct {
	WorkspaceID string
	Index       int
	RatioCount  int
	Pair        bool
}

// CanRemovePane evaluates whether a pane can be removed.
// Rules:
// - Pane must exist in the workspace
// - The workspace must keep at least one pane
func CanRemovePane(ctx RemovePaneContext) GuardResult {
	if !ctx.PaneExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("pane %s not found in workspace %s", ctx.PaneID, ctx.WorkspaceID),
		}
	}
	if ctx.PaneCount <= 1 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot remove pane %s: it is the last pane in workspace %s", ctx.PaneID, ctx.WorkspaceID),
		}
	}
	return GuardResult{Allowed: true}
}

// CanEditPane evaluates whether a pane can be split, edited or used as an
// insertion anchor.
func CanEditPane(ctx EditPaneContext) GuardResult {
	if !ctx.PaneExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("pane %s not found in workspace %s", ctx.PaneID, ctx.WorkspaceID),
		}
	}
	return GuardResult{Allowed: true}
}

// CanResize evaluates whether a ratio index can be resized.
// Rules:
// - Index must address an existing ratio
// - Pair resizes also need a right-hand neighbour
func CanResize(ctx ResizeContext) GuardResult {
	limit := ctx.RatioCount
	if ctx.Pair {
		limit--
	}
	if ctx.Index < 0 || ctx.Index >= limit {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("ratio index %d out of range for workspace %s (%d ratios)", ctx.Index, ctx.WorkspaceID, ctx.RatioCount),
		}
	}
	return GuardResult{Allowed: true}
}

// ValidateTree checks the structural invariants of a layout tree.
func ValidateTree(root *models.Split) error {
	if root == nil {
		return errors.New("layout has no root split")
	}
	seen := make(map[string]bool)
	return validateSplit(root, seen, "root")
}

func validateSplit(s *models.Split, seen map[string]bool, path string) error {
	if !s.Orientation.Valid() {
		return fmt.Errorf("%s: invalid orientation %q", path, s.Orientation)
	}
	if len(s.Children) == 0 {
		return fmt.Errorf("%s: split has no children", path)
	}
	if len(s.Ratios) != len(s.Children) {
		return fmt.Errorf("%s: %d ratios for %d children", path, len(s.Ratios), len(s.Children))
	}
	for i, r := range s.Ratios {
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 || r > 1 {
			return fmt.Errorf("%s: ratio %d out of range: %v", path, i, r)
		}
	}
	for i, c := range s.Children {
		childPath := fmt.Sprintf("%s.%d", path, i)
		if c == nil {
			return fmt.Errorf("%s: nil node", childPath)
		}
		switch c.Kind {
		case models.KindPane:
			if c.Pane == nil || c.Split != nil {
				return fmt.Errorf("%s: pane node has wrong payload", childPath)
			}
			if c.Pane.ID == "" {
				return fmt.Errorf("%s: pane has empty id", childPath)
			}
			if seen[c.Pane.ID] {
				return fmt.Errorf("%s: duplicate pane id %s", childPath, c.Pane.ID)
			}
			seen[c.Pane.ID] = true
		case models.KindSplit:
			if c.Split == nil || c.Pane != nil {
				return fmt.Errorf("%s: split node has wrong payload", childPath)
			}
			if err := validateSplit(c.Split, seen, childPath); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%s: unknown node kind %q", childPath, c.Kind)
		}
	}
	return nil
}
