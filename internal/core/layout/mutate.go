package layout

import (
	"math"
	"slices"

	"github.com/example/tabbyspaces/internal/models"
)

// Ratio bounds applied by manual resize.
const (
	MinRatio = 0.1
	MaxRatio = 0.9

	// DefaultStep is the drag snapping granularity.
	DefaultStep = 0.1

	// dragEpsilon suppresses commits for sub-step pointer jitter.
	dragEpsilon = 1e-3
)

// location is an explicit handle on a pane's slot in the tree.
// grand is nil when parent is the root.
type location struct {
	parent     *models.Split
	index      int
	grand      *models.Split
	grandIndex int
}

// locate finds the split that directly holds the pane with id.
func locate(root *models.Split, id string) (location, bool) {
	return locateIn(root, nil, -1, id)
}

func locateIn(s, grand *models.Split, grandIndex int, id string) (location, bool) {
	if s == nil {
		return location{}, false
	}
	for i, c := range s.Children {
		if c == nil {
			continue
		}
		switch c.Kind {
		case models.KindPane:
			if c.Pane.ID == id {
				return location{parent: s, index: i, grand: grand, grandIndex: grandIndex}, true
			}
		case models.KindSplit:
			if loc, ok := locateIn(c.Split, s, i, id); ok {
				return loc, true
			}
		}
	}
	return location{}, false
}

// replace swaps the parent split for n in the grandparent. When the parent
// is the root there is no slot to replace and the caller decides.
func (l location) replace(n *models.Node) bool {
	if l.grand == nil {
		return false
	}
	l.grand.Children[l.grandIndex] = n
	return true
}

// ParentOf returns the split directly holding the pane with id and the
// pane's index within it.
func ParentOf(root *models.Split, id string) (*models.Split, int, bool) {
	loc, ok := locate(root, id)
	if !ok {
		return nil, -1, false
	}
	return loc.parent, loc.index, true
}

// FindPane returns the first pane under root with id, or nil.
func FindPane(root *models.Split, id string) *models.Pane {
	var found *models.Pane
	Walk(root, func(p *models.Pane) bool {
		if p.ID == id {
			found = p
			return false
		}
		return true
	})
	return found
}

// CanRemove reports whether the tree has a pane to spare.
func CanRemove(root *models.Split) bool {
	return CountPanesSplit(root) > 1
}

// inheritPane returns a fresh pane carrying only the source's profile binding.
func inheritPane(src *models.Pane) *models.Pane {
	p := NewPane()
	p.ProfileID = src.ProfileID
	return p
}

// SplitPane replaces the pane with id by a new split of the given
// orientation holding the original pane and a new one at 0.5/0.5.
// The parent's ratios are left as they are.
func SplitPane(root *models.Split, id string, orientation models.Orientation) bool {
	loc, ok := locate(root, id)
	if !ok {
		return false
	}
	target := loc.parent.Children[loc.index]
	loc.parent.Children[loc.index] = models.SplitNode(&models.Split{
		Orientation: orientation,
		Ratios:      []float64{0.5, 0.5},
		Children:    []*models.Node{target, models.PaneNode(inheritPane(target.Pane))},
	})
	return true
}

// RemovePane drops the pane with id from its parent and resets the
// parent's ratios to 1/n. A parent left with one child is flattened into
// that child. Returns the root, which changes only when a root holding a
// single split is collapsed into that split.
//
// A parent with a single child is never emptied; the call is a no-op.
func RemovePane(root *models.Split, id string) (*models.Split, bool) {
	loc, ok := locate(root, id)
	if !ok {
		return root, false
	}
	parent := loc.parent
	if len(parent.Children) <= 1 {
		return root, false
	}

	parent.Children = slices.Delete(parent.Children, loc.index, loc.index+1)
	parent.Ratios = uniformRatios(len(parent.Children))

	if len(parent.Children) != 1 {
		return root, true
	}
	only := parent.Children[0]
	if loc.replace(only) {
		return root, true
	}
	// The persisted root must stay a split, so only a split child is promoted.
	if only.Kind == models.KindSplit {
		return only.Split, true
	}
	return root, true
}

// InsertPane adds a pane next to the pane with id on the given side.
//
// When the parent already lays out along the insertion axis, the new pane
// is placed beside the target and the two share the target's former ratio.
// Otherwise the parent split moves one level down under a new split of the
// insertion axis at 0.5/0.5. Returns the root, which is new when the
// wrapped parent was the root.
func InsertPane(root *models.Split, id string, direction models.Direction) (*models.Split, bool) {
	loc, ok := locate(root, id)
	if !ok {
		return root, false
	}
	horizontalAdd := direction == models.DirectionLeft || direction == models.DirectionRight
	before := direction == models.DirectionLeft || direction == models.DirectionTop
	targetOrientation := models.Vertical
	if horizontalAdd {
		targetOrientation = models.Horizontal
	}

	parent := loc.parent
	newPane := models.PaneNode(inheritPane(parent.Children[loc.index].Pane))

	// A lone child has no layout axis yet, so it adopts the insertion axis.
	if len(parent.Children) == 1 {
		parent.Orientation = targetOrientation
	}
	if parent.Orientation == targetOrientation {
		at := loc.index + 1
		if before {
			at = loc.index
		}
		half := parent.Ratios[loc.index] / 2
		parent.Ratios[loc.index] = half
		parent.Ratios = slices.Insert(parent.Ratios, at, half)
		parent.Children = slices.Insert(parent.Children, at, newPane)
		return root, true
	}

	moved := models.SplitNode(&models.Split{
		Orientation: parent.Orientation,
		Ratios:      parent.Ratios,
		Children:    parent.Children,
	})
	children := []*models.Node{moved, newPane}
	if before {
		children = []*models.Node{newPane, moved}
	}
	wrapper := &models.Split{
		Orientation: targetOrientation,
		Ratios:      []float64{0.5, 0.5},
		Children:    children,
	}
	if loc.replace(models.SplitNode(wrapper)) {
		return root, true
	}
	return wrapper, true
}

// SetOrientation re-orients the root split only.
func SetOrientation(root *models.Split, orientation models.Orientation) {
	root.Orientation = orientation
}

// ResizeRatios sets ratios[index] to value, moves the difference onto the
// following sibling (the preceding one for the last index), then clamps
// every ratio to [MinRatio, MaxRatio]. The sum is not renormalised, so
// clamping may let it drift from 1. A NaN value is rejected.
func ResizeRatios(root *models.Split, index int, value float64) bool {
	n := len(root.Ratios)
	if index < 0 || index >= n || math.IsNaN(value) {
		return false
	}
	delta := value - root.Ratios[index]
	root.Ratios[index] = value
	if index < n-1 {
		root.Ratios[index+1] -= delta
	} else if index > 0 {
		root.Ratios[index-1] -= delta
	}
	for i, r := range root.Ratios {
		root.Ratios[i] = clamp(r, MinRatio, MaxRatio)
	}
	return true
}

// ResizeRatiosPair moves the boundary between children indexA and indexA+1.
// position is the proposed share of indexA in parent ratio units and may be
// out of range. It is snapped to step and clamped to [step, combined-step].
// Changes smaller than an epsilon and NaN positions are not committed.
func ResizeRatiosPair(s *models.Split, indexA int, position, step float64) bool {
	if s == nil || indexA < 0 || indexA+1 >= len(s.Ratios) || math.IsNaN(position) {
		return false
	}
	if step <= 0 {
		step = DefaultStep
	}
	combined := s.Ratios[indexA] + s.Ratios[indexA+1]
	lo, hi := step, combined-step

	next := math.Round(position/step) * step
	if hi < lo {
		next = combined / 2
	} else {
		next = clamp(next, lo, hi)
	}
	if math.Abs(next-s.Ratios[indexA]) <= dragEpsilon {
		return false
	}
	s.Ratios[indexA] = next
	s.Ratios[indexA+1] = combined - next
	return true
}

// DragResize converts a pointer position along the split axis (as a
// fraction of the split's extent) into a pair resize of indexA/indexA+1.
func DragResize(s *models.Split, indexA int, pointer, step float64) bool {
	if s == nil || indexA < 0 || indexA+1 >= len(s.Ratios) {
		return false
	}
	start := 0.0
	for _, r := range s.Ratios[:indexA] {
		start += r
	}
	return ResizeRatiosPair(s, indexA, pointer-start, step)
}

// Equalize gives every child of s the same share.
func Equalize(s *models.Split) {
	s.Ratios = uniformRatios(len(s.Children))
}

func uniformRatios(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1 / float64(n)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
