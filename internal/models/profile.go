package models

// Profile is a shell profile read from the host's profile catalog.
// TabbySpaces never owns profiles; it only reads them and writes its own
// split-layout profiles back.
type Profile struct {
	ID        string
	Name      string
	Type      string
	Group     string
	Icon      string
	Color     string
	Command   string
	Args      []string
	Cwd       string
	Env       map[string]string
	IsBuiltin bool
	// IsWSL marks shells running inside a Windows Subsystem for Linux distro.
	IsWSL     bool
	WSLDistro string
}

// Profile type constants
const (
	ProfileTypeLocal       = "local"
	ProfileTypeSSH         = "ssh"
	ProfileTypeSplitLayout = "split-layout"
)

// StartupCommand is a deferred command for one pane, delivered once the
// pane's terminal is ready.
type StartupCommand struct {
	PaneID        string `json:"paneId"`
	Command       string `json:"command"`
	OriginalTitle string `json:"originalTitle,omitempty"`
}
