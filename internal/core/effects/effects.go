// Package effects defines effect types as data structures representing I/O operations.
// Planners in internal/core return effects; internal/app interprets them.
package effects

// Effect is the base interface for all effects.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// TMux operations
const (
	TMuxNewSession    = "new_session"
	TMuxSplitPane     = "split_pane"
	TMuxSetPaneOption = "set_pane_option"
	TMuxSetPaneTitle  = "set_pane_title"
	TMuxSendKeys      = "send_keys"
	TMuxKillSession   = "kill_session"
)

// TMuxEffect represents a tmux operation.
// Panes are addressed by PaneKey, a workspace pane id; the executor maps
// keys to live tmux pane ids as panes are created.
type TMuxEffect struct {
	Operation      string
	SessionName    string
	WindowName     string
	PaneKey        string // pane created or addressed by this effect
	TargetKey      string // pane split by a split_pane effect
	Horizontal     bool   // split side by side rather than stacked
	Percent        int    // size of the new pane as a share of the target
	StartDirectory string
	Command        string
	Option         string
	Value          string
}

func (e TMuxEffect) EffectType() string { return "tmux" }

// CompositeEffect holds multiple effects to be executed in sequence.
type CompositeEffect struct {
	Effects []Effect
}

func (e CompositeEffect) EffectType() string { return "composite" }
