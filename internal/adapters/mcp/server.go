// Package mcp exposes workspace editing and launching as MCP tools over stdio.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/example/tabbyspaces/internal/ctxutil"
	"github.com/example/tabbyspaces/internal/ports/primary"
	"github.com/example/tabbyspaces/internal/version"
)

const ServerName = "tabbyspaces"

// Services groups the primary ports the tools call into.
type Services struct {
	Workspaces primary.WorkspaceService
	Profiles   primary.ProfileService
	Launcher   primary.LaunchService
	// LaunchErr explains a nil Launcher.
	LaunchErr error
}

// Server is the MCP server for workspace management.
type Server struct {
	mcpServer *mcpsdk.Server
	services  Services
	logger    *slog.Logger
	actor     string
}

// NewServer creates an MCP server with every tool registered.
func NewServer(services Services, logger *slog.Logger) *Server {
	s := &Server{
		services: services,
		logger:   logger,
		actor:    ctxutil.ActorFor(ctxutil.ActorMCP),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: version.Short(),
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "actor", s.actor)
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_workspaces",
		Description: "List saved Tabby workspaces in display order with their pane counts.",
	}, s.handleListWorkspaces)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_workspace",
		Description: "Show one workspace: metadata, an indented outline of its split tree, and every pane with its profile, working directory and startup command.",
	}, s.handleShowWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_workspace",
		Description: "Create a workspace with two panes side by side (or stacked when orientation is vertical).",
	}, s.handleCreateWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "duplicate_workspace",
		Description: "Copy a workspace with fresh ids. The copy is named \"<name> (Copy)\" and placed after the original.",
	}, s.handleDuplicateWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "delete_workspace",
		Description: "Delete a workspace and regenerate the Tabby profiles.",
	}, s.handleDeleteWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "edit_layout",
		Description: "Apply one layout operation: split a pane, remove a pane, insert a pane next to another, toggle a split's orientation, set or drag a ratio, or equalize a split. Returns the new outline.",
	}, s.handleEditLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "update_pane",
		Description: "Change a pane's profile, working directory, startup command or title. Omitted fields are left unchanged.",
	}, s.handleUpdatePane)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch_workspace",
		Description: "Open a workspace as a detached tmux session with one pane per layout pane, then type each pane's startup command.",
	}, s.handleLaunch)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "sync_profiles",
		Description: "Regenerate every split-layout profile and workspace background in the Tabby config.",
	}, s.handleSync)
}

func (s *Server) withActor(ctx context.Context) context.Context {
	return ctxutil.WithActorID(ctx, s.actor)
}
