// Package models contains domain types for TabbySpaces entities.
// Persistence lives in internal/adapters/sqlite; tree algorithms live in internal/core/layout.
package models

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// NodeKind tags a tree node as a leaf pane or an internal split.
type NodeKind string

const (
	KindPane  NodeKind = "pane"
	KindSplit NodeKind = "split"
)

// Orientation of a split's children along the screen axis.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Valid reports whether o is a known orientation.
func (o Orientation) Valid() bool {
	return o == Horizontal || o == Vertical
}

// Direction is the side of a target pane where a new pane is inserted.
type Direction string

const (
	DirectionLeft   Direction = "left"
	DirectionRight  Direction = "right"
	DirectionTop    Direction = "top"
	DirectionBottom Direction = "bottom"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	switch d {
	case DirectionLeft, DirectionRight, DirectionTop, DirectionBottom:
		return true
	}
	return false
}

// Pane is a leaf of the layout tree: one terminal slot bound to a profile.
type Pane struct {
	ID             string `json:"id" yaml:"id"`
	ProfileID      string `json:"profileId" yaml:"profileId"`
	Cwd            string `json:"cwd,omitempty" yaml:"cwd,omitempty"`
	StartupCommand string `json:"startupCommand,omitempty" yaml:"startupCommand,omitempty"`
	Title          string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Split is an internal node dividing its area between children by ratio.
// len(Ratios) == len(Children) at all times.
type Split struct {
	Orientation Orientation `json:"orientation" yaml:"orientation"`
	Ratios      []float64   `json:"ratios" yaml:"ratios,flow"`
	Children    []*Node     `json:"children" yaml:"children"`
}

// Node is the tagged union of Pane and Split. Exactly one payload is set,
// matching Kind.
type Node struct {
	Kind  NodeKind
	Pane  *Pane
	Split *Split
}

// PaneNode wraps a pane as a tree node.
func PaneNode(p *Pane) *Node {
	return &Node{Kind: KindPane, Pane: p}
}

// SplitNode wraps a split as a tree node.
func SplitNode(s *Split) *Node {
	return &Node{Kind: KindSplit, Split: s}
}

// Background describes optional workspace backdrop styling.
type Background struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// Background type constants
const (
	BackgroundNone     = "none"
	BackgroundColor    = "color"
	BackgroundGradient = "gradient"
	BackgroundImage    = "image"
)

// Workspace is a named, persisted split tree plus presentation metadata.
type Workspace struct {
	ID              string      `json:"id" yaml:"id"`
	Name            string      `json:"name" yaml:"name"`
	Icon            string      `json:"icon,omitempty" yaml:"icon,omitempty"`
	Color           string      `json:"color,omitempty" yaml:"color,omitempty"`
	Background      *Background `json:"background,omitempty" yaml:"background,omitempty"`
	LaunchOnStartup bool        `json:"launchOnStartup,omitempty" yaml:"launchOnStartup,omitempty"`
	Hotkey          string      `json:"hotkey,omitempty" yaml:"hotkey,omitempty"`
	Root            *Split      `json:"root" yaml:"root"`
}

// MarshalJSON emits the untagged persisted shape of the payload.
func (n *Node) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case KindPane:
		return json.Marshal(n.Pane)
	case KindSplit:
		return json.Marshal(n.Split)
	default:
		return nil, fmt.Errorf("unknown node kind %q", n.Kind)
	}
}

// UnmarshalJSON discriminates by the presence of orientation and children.
func (n *Node) UnmarshalJSON(data []byte) error {
	var probe struct {
		Orientation *Orientation    `json:"orientation"`
		Children    json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Orientation != nil && probe.Children != nil {
		var s Split
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Node{Kind: KindSplit, Split: &s}
		return nil
	}
	var p Pane
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = Node{Kind: KindPane, Pane: &p}
	return nil
}

// MarshalYAML emits the untagged persisted shape of the payload.
func (n *Node) MarshalYAML() (interface{}, error) {
	switch n.Kind {
	case KindPane:
		return n.Pane, nil
	case KindSplit:
		return n.Split, nil
	default:
		return nil, fmt.Errorf("unknown node kind %q", n.Kind)
	}
}

// UnmarshalYAML discriminates by the presence of orientation and children.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: layout node must be a mapping", value.Line)
	}
	var hasOrientation, hasChildren bool
	for i := 0; i+1 < len(value.Content); i += 2 {
		switch value.Content[i].Value {
		case "orientation":
			hasOrientation = true
		case "children":
			hasChildren = true
		}
	}
	if hasOrientation && hasChildren {
		var s Split
		if err := value.Decode(&s); err != nil {
			return err
		}
		*n = Node{Kind: KindSplit, Split: &s}
		return nil
	}
	var p Pane
	if err := value.Decode(&p); err != nil {
		return err
	}
	*n = Node{Kind: KindPane, Pane: &p}
	return nil
}
