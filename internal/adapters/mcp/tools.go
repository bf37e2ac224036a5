package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/example/tabbyspaces/internal/adapters/cli"
	"github.com/example/tabbyspaces/internal/core/layout"
	coreworkspace "github.com/example/tabbyspaces/internal/core/workspace"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
)

func (s *Server) handleListWorkspaces(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ListWorkspacesInput) (*mcpsdk.CallToolResult, ListWorkspacesOutput, error) {
	list, err := s.services.Workspaces.ListWorkspaces(ctx)
	if err != nil {
		return nil, ListWorkspacesOutput{}, err
	}
	out := ListWorkspacesOutput{Workspaces: make([]WorkspaceSummary, 0, len(list))}
	for _, ws := range list {
		out.Workspaces = append(out.Workspaces, WorkspaceSummary{
			ID:              ws.ID,
			Name:            ws.Name,
			Panes:           layout.CountPanesSplit(ws.Root),
			LaunchOnStartup: ws.LaunchOnStartup,
			Hotkey:          ws.Hotkey,
		})
	}
	return nil, out, nil
}

func (s *Server) handleShowWorkspace(ctx context.Context, _ *mcpsdk.CallToolRequest, args WorkspaceRefInput) (*mcpsdk.CallToolResult, ShowWorkspaceOutput, error) {
	ws, err := s.services.Workspaces.GetWorkspace(ctx, args.Workspace)
	if err != nil {
		return nil, ShowWorkspaceOutput{}, err
	}
	names := s.profileNames(ctx)

	out := ShowWorkspaceOutput{
		ID:      ws.ID,
		Name:    ws.Name,
		Icon:    ws.Icon,
		Color:   ws.Color,
		Outline: cli.RenderTree(ws, names),
	}
	for _, p := range layout.Panes(ws.Root) {
		out.Panes = append(out.Panes, PaneInfo{
			ID:             p.ID,
			Label:          coreworkspace.PaneLabel(p, names(p.ProfileID)),
			ProfileID:      p.ProfileID,
			Cwd:            p.Cwd,
			StartupCommand: p.StartupCommand,
		})
	}
	return nil, out, nil
}

func (s *Server) handleCreateWorkspace(ctx context.Context, _ *mcpsdk.CallToolRequest, args CreateWorkspaceInput) (*mcpsdk.CallToolResult, WorkspaceOutput, error) {
	orientation, err := parseOrientation(args.Orientation)
	if err != nil {
		return nil, WorkspaceOutput{}, err
	}
	resp, err := s.services.Workspaces.CreateWorkspace(s.withActor(ctx), primary.CreateWorkspaceRequest{
		Name:        args.Name,
		Orientation: orientation,
		ProfileID:   args.ProfileID,
	})
	if err != nil {
		return nil, WorkspaceOutput{}, err
	}
	s.logger.Info("workspace created", "id", resp.WorkspaceID, "actor", s.actor)
	return nil, WorkspaceOutput{ID: resp.WorkspaceID, Name: resp.Workspace.Name}, nil
}

func (s *Server) handleDuplicateWorkspace(ctx context.Context, _ *mcpsdk.CallToolRequest, args WorkspaceRefInput) (*mcpsdk.CallToolResult, WorkspaceOutput, error) {
	dup, err := s.services.Workspaces.DuplicateWorkspace(s.withActor(ctx), args.Workspace)
	if err != nil {
		return nil, WorkspaceOutput{}, err
	}
	return nil, WorkspaceOutput{ID: dup.ID, Name: dup.Name}, nil
}

func (s *Server) handleDeleteWorkspace(ctx context.Context, _ *mcpsdk.CallToolRequest, args WorkspaceRefInput) (*mcpsdk.CallToolResult, DeleteOutput, error) {
	ws, err := s.services.Workspaces.GetWorkspace(ctx, args.Workspace)
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	if err := s.services.Workspaces.DeleteWorkspace(s.withActor(ctx), ws.ID); err != nil {
		return nil, DeleteOutput{}, err
	}
	s.logger.Info("workspace deleted", "id", ws.ID, "actor", s.actor)
	return nil, DeleteOutput{Deleted: ws.ID}, nil
}

func (s *Server) handleEditLayout(ctx context.Context, _ *mcpsdk.CallToolRequest, args EditLayoutInput) (*mcpsdk.CallToolResult, EditLayoutOutput, error) {
	req, err := editRequest(args)
	if err != nil {
		return nil, EditLayoutOutput{}, err
	}
	resp, err := s.services.Workspaces.EditLayout(s.withActor(ctx), req)
	if err != nil {
		return nil, EditLayoutOutput{}, err
	}
	return nil, EditLayoutOutput{
		Changed:   resp.Changed,
		NewPaneID: resp.NewPaneID,
		Outline:   cli.RenderTree(resp.Workspace, s.profileNames(ctx)),
	}, nil
}

func (s *Server) handleUpdatePane(ctx context.Context, _ *mcpsdk.CallToolRequest, args UpdatePaneInput) (*mcpsdk.CallToolResult, PaneInfo, error) {
	pane, err := s.services.Workspaces.UpdatePane(s.withActor(ctx), primary.UpdatePaneRequest{
		WorkspaceRef:   args.Workspace,
		PaneID:         args.PaneID,
		ProfileID:      args.ProfileID,
		Cwd:            args.Cwd,
		StartupCommand: args.StartupCommand,
		Title:          args.Title,
	})
	if err != nil {
		return nil, PaneInfo{}, err
	}
	return nil, PaneInfo{
		ID:             pane.ID,
		Label:          coreworkspace.PaneLabel(pane, s.profileNames(ctx)(pane.ProfileID)),
		ProfileID:      pane.ProfileID,
		Cwd:            pane.Cwd,
		StartupCommand: pane.StartupCommand,
	}, nil
}

func (s *Server) handleLaunch(ctx context.Context, _ *mcpsdk.CallToolRequest, args LaunchInput) (*mcpsdk.CallToolResult, LaunchOutput, error) {
	if s.services.Launcher == nil {
		return nil, LaunchOutput{}, fmt.Errorf("launching is unavailable: %w", s.services.LaunchErr)
	}
	resp, err := s.services.Launcher.LaunchWorkspace(s.withActor(ctx), primary.LaunchRequest{
		WorkspaceRef: args.Workspace,
		SessionName:  args.Session,
		Replace:      args.Replace,
	})
	if err != nil {
		return nil, LaunchOutput{}, err
	}
	s.logger.Info("workspace launched", "session", resp.SessionName, "panes", len(resp.Panes))
	return nil, LaunchOutput{
		Session:         resp.SessionName,
		Panes:           resp.Panes,
		StartupCommands: resp.StartupCommands,
		Attach:          strings.TrimSpace(resp.AttachInstructions),
	}, nil
}

func (s *Server) handleSync(ctx context.Context, _ *mcpsdk.CallToolRequest, _ SyncInput) (*mcpsdk.CallToolResult, SyncOutput, error) {
	resp, err := s.services.Profiles.SyncProfiles(s.withActor(ctx))
	if err != nil {
		return nil, SyncOutput{}, err
	}
	return nil, SyncOutput{Path: resp.Path, Removed: resp.Removed, Added: resp.Added}, nil
}

// profileNames resolves profile ids to display names, falling back to the id.
func (s *Server) profileNames(ctx context.Context) func(string) string {
	names := map[string]string{}
	if s.services.Profiles != nil {
		if groups, err := s.services.Profiles.ListAvailable(ctx); err == nil {
			for _, g := range groups {
				for _, p := range g.Profiles {
					names[p.ID] = p.Name
				}
			}
		} else {
			s.logger.Warn("profile catalog unavailable", "error", err)
		}
	}
	return func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}
}

func parseOrientation(raw string) (models.Orientation, error) {
	if raw == "" {
		return "", nil
	}
	o := models.Orientation(strings.ToLower(raw))
	if !o.Valid() {
		return "", fmt.Errorf("invalid orientation %q (want horizontal or vertical)", raw)
	}
	return o, nil
}

func editRequest(args EditLayoutInput) (primary.EditLayoutRequest, error) {
	req := primary.EditLayoutRequest{
		WorkspaceRef: args.Workspace,
		Op:           primary.LayoutOp(strings.ToLower(args.Op)),
		PaneID:       args.PaneID,
		Index:        args.Index,
		Value:        args.Value,
	}
	switch req.Op {
	case primary.OpSplit, primary.OpOrientation:
		o, err := parseOrientation(args.Orientation)
		if err != nil {
			return req, err
		}
		req.Orientation = o
	case primary.OpInsert:
		d := models.Direction(strings.ToLower(args.Direction))
		if !d.Valid() {
			return req, fmt.Errorf("invalid direction %q (want left, right, top or bottom)", args.Direction)
		}
		req.Direction = d
	case primary.OpRemove, primary.OpResize, primary.OpDrag, primary.OpEqualize:
	default:
		return req, fmt.Errorf("unknown layout op %q", args.Op)
	}
	return req, nil
}
