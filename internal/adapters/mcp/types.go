package mcp

// ListWorkspacesInput is the input for the list_workspaces tool.
type ListWorkspacesInput struct{}

// WorkspaceSummary is one row of list_workspaces.
type WorkspaceSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Panes           int    `json:"panes"`
	LaunchOnStartup bool   `json:"launch_on_startup"`
	Hotkey          string `json:"hotkey,omitempty"`
}

// ListWorkspacesOutput is the output for the list_workspaces tool.
type ListWorkspacesOutput struct {
	Workspaces []WorkspaceSummary `json:"workspaces"`
}

// WorkspaceRefInput names a workspace by id or name.
type WorkspaceRefInput struct {
	Workspace string `json:"workspace" jsonschema:"required,Workspace id or name (case-insensitive)"`
}

// PaneInfo describes one pane of a workspace.
type PaneInfo struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	ProfileID      string `json:"profile_id"`
	Cwd            string `json:"cwd,omitempty"`
	StartupCommand string `json:"startup_command,omitempty"`
}

// ShowWorkspaceOutput is the output for the show_workspace tool.
type ShowWorkspaceOutput struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Icon    string     `json:"icon,omitempty"`
	Color   string     `json:"color,omitempty"`
	Outline string     `json:"outline"`
	Panes   []PaneInfo `json:"panes"`
}

// CreateWorkspaceInput is the input for the create_workspace tool.
type CreateWorkspaceInput struct {
	Name        string `json:"name" jsonschema:"required,Display name of the new workspace"`
	Orientation string `json:"orientation,omitempty" jsonschema:"Root split orientation: horizontal (default) or vertical"`
	ProfileID   string `json:"profile_id,omitempty" jsonschema:"Tabby profile id for both initial panes (default: first local profile)"`
}

// WorkspaceOutput reports the workspace a tool acted on.
type WorkspaceOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EditLayoutInput is the input for the edit_layout tool.
type EditLayoutInput struct {
	Workspace   string  `json:"workspace" jsonschema:"required,Workspace id or name"`
	Op          string  `json:"op" jsonschema:"required,One of split, remove, insert, orientation, resize, drag, equalize"`
	PaneID      string  `json:"pane_id,omitempty" jsonschema:"Target pane. Resize, drag and equalize act on the split holding it, or the root when empty"`
	Orientation string  `json:"orientation,omitempty" jsonschema:"split and orientation: horizontal or vertical"`
	Direction   string  `json:"direction,omitempty" jsonschema:"insert: left, right, top or bottom"`
	Index       int     `json:"index,omitempty" jsonschema:"resize and drag: index of the ratio to change"`
	Value       float64 `json:"value,omitempty" jsonschema:"resize: new ratio; drag: pointer position as a fraction of the split"`
}

// EditLayoutOutput is the output for the edit_layout tool.
type EditLayoutOutput struct {
	Changed   bool   `json:"changed"`
	NewPaneID string `json:"new_pane_id,omitempty"`
	Outline   string `json:"outline"`
}

// UpdatePaneInput is the input for the update_pane tool.
type UpdatePaneInput struct {
	Workspace      string  `json:"workspace" jsonschema:"required,Workspace id or name"`
	PaneID         string  `json:"pane_id" jsonschema:"required,Pane id"`
	ProfileID      *string `json:"profile_id,omitempty" jsonschema:"New Tabby profile id"`
	Cwd            *string `json:"cwd,omitempty" jsonschema:"New working directory; empty string clears it"`
	StartupCommand *string `json:"startup_command,omitempty" jsonschema:"Command typed into the pane after launch; empty string clears it"`
	Title          *string `json:"title,omitempty" jsonschema:"Custom pane title; empty string clears it"`
}

// LaunchInput is the input for the launch_workspace tool.
type LaunchInput struct {
	Workspace string `json:"workspace" jsonschema:"required,Workspace id or name"`
	Session   string `json:"session,omitempty" jsonschema:"tmux session name (default: prefix plus workspace name)"`
	Replace   bool   `json:"replace,omitempty" jsonschema:"Kill an existing session with the same name first"`
}

// LaunchOutput is the output for the launch_workspace tool.
type LaunchOutput struct {
	Session         string            `json:"session"`
	Panes           map[string]string `json:"panes"`
	StartupCommands int               `json:"startup_commands"`
	Attach          string            `json:"attach"`
}

// SyncInput is the input for the sync_profiles tool.
type SyncInput struct{}

// SyncOutput is the output for the sync_profiles tool.
type SyncOutput struct {
	Path    string `json:"path"`
	Removed int    `json:"removed"`
	Added   int    `json:"added"`
}

// DeleteOutput is the output for the delete_workspace tool.
type DeleteOutput struct {
	Deleted string `json:"deleted"`
}
