package secondary

import "context"

// NewSessionOptions configures the first pane of a new tmux session.
type NewSessionOptions struct {
	Name           string
	WindowName     string
	StartDirectory string
	Command        string
}

// SplitOptions configures a tmux pane split.
type SplitOptions struct {
	Target         string // tmux pane id, e.g. "%3"
	Horizontal     bool   // side by side (-h) rather than stacked (-v)
	Percent        int    // size of the new pane
	StartDirectory string
	Command        string
}

// TMuxAdapter defines the secondary port for building tmux sessions.
type TMuxAdapter interface {
	// NewSession creates a detached session and returns its first pane id.
	NewSession(ctx context.Context, opts NewSessionOptions) (string, error)

	// SplitPane splits a pane and returns the new pane id.
	SplitPane(ctx context.Context, opts SplitOptions) (string, error)

	// SetPaneOption sets a user option on a pane.
	SetPaneOption(ctx context.Context, paneID, option, value string) error

	// SetPaneTitle sets a pane's title.
	SetPaneTitle(ctx context.Context, paneID, title string) error

	// SendKeys types keys into a pane followed by Enter.
	SendKeys(ctx context.Context, paneID, keys string) error

	// FindPaneByOption returns the pane in session whose option equals value.
	FindPaneByOption(ctx context.Context, session, option, value string) (string, error)

	SessionExists(ctx context.Context, name string) bool
	KillSession(ctx context.Context, name string) error

	// AttachInstructions returns a human hint for attaching to a session.
	AttachInstructions(sessionName string) string
}
