// Package projection converts workspace trees into the host's recovery-token
// format and extracts the data needed to finish a launch. It is pure: profile
// data arrives through a lookup function over an already-fetched snapshot.
package projection

// Token types understood by the host.
const (
	TokenSplitTab = "app:split-tab"
	TokenLocalTab = "app:local-tab"
)

// RecoveryToken is one node of the host's session-recovery tree. Split tokens
// carry Orientation/Ratios/Children; leaf tokens carry Profile.
type RecoveryToken struct {
	Type                string           `json:"type" yaml:"type"`
	Orientation         string           `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	Ratios              []float64        `json:"ratios,omitempty" yaml:"ratios,omitempty,flow"`
	Children            []*RecoveryToken `json:"children,omitempty" yaml:"children,omitempty"`
	Profile             *TokenProfile    `json:"profile,omitempty" yaml:"profile,omitempty"`
	SavedState          *bool            `json:"savedState,omitempty" yaml:"savedState,omitempty"`
	TabTitle            string           `json:"tabTitle,omitempty" yaml:"tabTitle,omitempty"`
	TabCustomTitle      string           `json:"tabCustomTitle,omitempty" yaml:"tabCustomTitle,omitempty"`
	DisableDynamicTitle bool             `json:"disableDynamicTitle,omitempty" yaml:"disableDynamicTitle,omitempty"`
	// PaneID correlates an opened terminal back to its workspace pane.
	PaneID string `json:"tabbyspacesPaneId,omitempty" yaml:"tabbyspacesPaneId,omitempty"`
}

// IsSplit reports whether the token describes a split container.
func (t *RecoveryToken) IsSplit() bool {
	return t.Type == TokenSplitTab
}

// TokenProfile is the profile embedded in a leaf token.
type TokenProfile struct {
	ID                   string          `json:"id,omitempty" yaml:"id,omitempty"`
	Type                 string          `json:"type" yaml:"type"`
	Name                 string          `json:"name" yaml:"name"`
	Group                string          `json:"group,omitempty" yaml:"group,omitempty"`
	Icon                 string          `json:"icon,omitempty" yaml:"icon,omitempty"`
	Color                string          `json:"color,omitempty" yaml:"color,omitempty"`
	Options              *ProfileOptions `json:"options,omitempty" yaml:"options,omitempty"`
	Weight               int             `json:"weight,omitempty" yaml:"weight,omitempty"`
	IsBuiltin            bool            `json:"isBuiltin,omitempty" yaml:"isBuiltin,omitempty"`
	IsTemplate           bool            `json:"isTemplate,omitempty" yaml:"isTemplate,omitempty"`
	BehaviorOnSessionEnd string          `json:"behaviorOnSessionEnd,omitempty" yaml:"behaviorOnSessionEnd,omitempty"`
}

// ProfileOptions are the process options of a derived leaf profile.
// Width and Height stay nil so the host sizes panes itself.
type ProfileOptions struct {
	RestoreFromPTYID   bool              `json:"restoreFromPTYID" yaml:"restoreFromPTYID"`
	Command            string            `json:"command" yaml:"command"`
	Args               []string          `json:"args" yaml:"args,flow"`
	Cwd                string            `json:"cwd" yaml:"cwd"`
	Env                map[string]string `json:"env" yaml:"env"`
	Width              *int              `json:"width" yaml:"width"`
	Height             *int              `json:"height" yaml:"height"`
	PauseAfterExit     bool              `json:"pauseAfterExit" yaml:"pauseAfterExit"`
	RunAsAdministrator bool              `json:"runAsAdministrator" yaml:"runAsAdministrator"`
}

// SplitLayoutProfile is the host profile that opens a whole workspace.
type SplitLayoutProfile struct {
	ID        string             `json:"id" yaml:"id"`
	Type      string             `json:"type" yaml:"type"`
	Name      string             `json:"name" yaml:"name"`
	Group     string             `json:"group" yaml:"group"`
	Icon      string             `json:"icon,omitempty" yaml:"icon,omitempty"`
	Color     string             `json:"color,omitempty" yaml:"color,omitempty"`
	IsBuiltin bool               `json:"isBuiltin" yaml:"isBuiltin"`
	Options   SplitLayoutOptions `json:"options" yaml:"options"`
}

// SplitLayoutOptions wraps the root recovery token.
type SplitLayoutOptions struct {
	RecoveryToken *RecoveryToken `json:"recoveryToken" yaml:"recoveryToken"`
}
