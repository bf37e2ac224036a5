package primary

import "context"

// LaunchService defines the primary port for opening workspaces in tmux.
type LaunchService interface {
	// LaunchWorkspace builds a tmux session for a workspace.
	LaunchWorkspace(ctx context.Context, req LaunchRequest) (*LaunchResponse, error)

	// LaunchStartupWorkspaces launches every workspace flagged launch-on-startup.
	LaunchStartupWorkspaces(ctx context.Context) ([]*LaunchResponse, error)
}

// LaunchRequest contains parameters for launching a workspace.
type LaunchRequest struct {
	WorkspaceRef string
	SessionName  string // optional, derived from the workspace name
	// Replace kills an existing session of the same name first.
	Replace bool
}

// LaunchResponse contains the result of a launch.
type LaunchResponse struct {
	WorkspaceID        string
	SessionName        string
	Panes              map[string]string // workspace pane id -> tmux pane id
	StartupCommands    int
	AttachInstructions string
}
