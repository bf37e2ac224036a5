// Package layout holds the split-tree model and the pure operations that
// rewrite it. Nothing in here performs I/O.
package layout

import (
	"github.com/google/uuid"

	"github.com/example/tabbyspaces/internal/models"
)

// GenerateID returns a fresh identifier for panes and workspaces.
func GenerateID() string {
	return uuid.NewString()
}

// IsSplit reports whether n is an internal split node.
func IsSplit(n *models.Node) bool {
	return n != nil && n.Kind == models.KindSplit
}

// NewPane returns an unbound pane with a fresh id.
func NewPane() *models.Pane {
	return &models.Pane{ID: GenerateID()}
}

// NewSplit returns a split holding two fresh panes at 0.5/0.5.
func NewSplit(orientation models.Orientation) *models.Split {
	return &models.Split{
		Orientation: orientation,
		Ratios:      []float64{0.5, 0.5},
		Children: []*models.Node{
			models.PaneNode(NewPane()),
			models.PaneNode(NewPane()),
		},
	}
}

// CountPanes returns the number of leaves under n.
func CountPanes(n *models.Node) int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case models.KindPane:
		return 1
	case models.KindSplit:
		return CountPanesSplit(n.Split)
	}
	return 0
}

// CountPanesSplit returns the number of leaves under s.
func CountPanesSplit(s *models.Split) int {
	if s == nil {
		return 0
	}
	total := 0
	for _, c := range s.Children {
		total += CountPanes(c)
	}
	return total
}

// ClonePane copies a pane.
func ClonePane(p *models.Pane) *models.Pane {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// CloneNode deep-copies n; the result shares nothing with the input.
func CloneNode(n *models.Node) *models.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case models.KindPane:
		return models.PaneNode(ClonePane(n.Pane))
	case models.KindSplit:
		return models.SplitNode(CloneSplit(n.Split))
	}
	return &models.Node{Kind: n.Kind}
}

// CloneSplit deep-copies s including its ratio and children slices.
func CloneSplit(s *models.Split) *models.Split {
	if s == nil {
		return nil
	}
	out := &models.Split{
		Orientation: s.Orientation,
		Ratios:      append([]float64(nil), s.Ratios...),
		Children:    make([]*models.Node, len(s.Children)),
	}
	for i, c := range s.Children {
		out.Children[i] = CloneNode(c)
	}
	return out
}

// Walk visits every pane under root depth-first, left to right.
// Returning false from fn stops the walk.
func Walk(root *models.Split, fn func(p *models.Pane) bool) {
	walkSplit(root, fn)
}

func walkSplit(s *models.Split, fn func(p *models.Pane) bool) bool {
	if s == nil {
		return true
	}
	for _, c := range s.Children {
		if c == nil {
			continue
		}
		switch c.Kind {
		case models.KindPane:
			if !fn(c.Pane) {
				return false
			}
		case models.KindSplit:
			if !walkSplit(c.Split, fn) {
				return false
			}
		}
	}
	return true
}

// Panes returns every pane under root in depth-first order.
func Panes(root *models.Split) []*models.Pane {
	var out []*models.Pane
	Walk(root, func(p *models.Pane) bool {
		out = append(out, p)
		return true
	})
	return out
}

// PaneIDs returns the id of every pane under root in depth-first order.
func PaneIDs(root *models.Split) []string {
	var ids []string
	Walk(root, func(p *models.Pane) bool {
		ids = append(ids, p.ID)
		return true
	})
	return ids
}

// FirstPane returns the leftmost/topmost pane, or nil for an empty tree.
func FirstPane(root *models.Split) *models.Pane {
	var first *models.Pane
	Walk(root, func(p *models.Pane) bool {
		first = p
		return false
	})
	return first
}
