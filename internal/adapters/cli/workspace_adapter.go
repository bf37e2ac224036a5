// Package cli contains the output adapters shared by the cobra commands:
// thin wrappers that call a primary port and print the result.
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/tabbyspaces/internal/core/layout"
	"github.com/example/tabbyspaces/internal/core/projection"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
)

var check = color.New(color.FgGreen).Sprint("✓")

// WorkspaceAdapter translates CLI operations to WorkspaceService calls.
type WorkspaceAdapter struct {
	service  primary.WorkspaceService
	profiles primary.ProfileService
	out      io.Writer
}

// NewWorkspaceAdapter creates a new WorkspaceAdapter.
func NewWorkspaceAdapter(service primary.WorkspaceService, profiles primary.ProfileService, out io.Writer) *WorkspaceAdapter {
	return &WorkspaceAdapter{
		service:  service,
		profiles: profiles,
		out:      out,
	}
}

// List prints every workspace in display order.
func (a *WorkspaceAdapter) List(ctx context.Context) ([]*models.Workspace, error) {
	list, err := a.service.ListWorkspaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No workspaces found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Create your first workspace:")
		fmt.Fprintln(a.out, "  tabbyspaces workspace create \"My Project\"")
		return list, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tPANES\tSTARTUP\tHOTKEY\tID")
	fmt.Fprintln(w, "-\t----\t-----\t-------\t------\t--")
	for i, ws := range list {
		startup := ""
		if ws.LaunchOnStartup {
			startup = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
			i,
			ws.Name,
			layout.CountPanesSplit(ws.Root),
			startup,
			ws.Hotkey,
			ws.ID,
		)
	}
	w.Flush()
	return list, nil
}

// Show prints a workspace's details, a box preview and the pane outline.
func (a *WorkspaceAdapter) Show(ctx context.Context, ref string, width, height int) (*models.Workspace, error) {
	ws, err := a.service.GetWorkspace(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	names := a.profileNames(ctx)

	fmt.Fprintf(a.out, "\nWorkspace: %s\n", ws.Name)
	fmt.Fprintf(a.out, "ID:        %s\n", ws.ID)
	fmt.Fprintf(a.out, "Icon:      %s\n", ws.Icon)
	fmt.Fprintf(a.out, "Color:     %s\n", color.New(color.Bold).Sprint(ws.Color))
	if ws.Hotkey != "" {
		fmt.Fprintf(a.out, "Hotkey:    %s\n", ws.Hotkey)
	}
	if ws.Background != nil {
		fmt.Fprintf(a.out, "Background: %s %s\n", ws.Background.Type, ws.Background.Value)
	}
	fmt.Fprintf(a.out, "Startup:   %v\n", ws.LaunchOnStartup)
	fmt.Fprintln(a.out)

	fmt.Fprintln(a.out, RenderPreview(ws, PreviewOptions{
		Width:       width,
		Height:      height,
		ProfileName: names,
	}))
	fmt.Fprintln(a.out)
	fmt.Fprint(a.out, RenderTree(ws, names))

	if cmds := projection.CollectStartupCommands(ws); len(cmds) > 0 {
		fmt.Fprintln(a.out)
		fmt.Fprintf(a.out, "Startup commands (%d):\n", len(cmds))
		for _, c := range cmds {
			fmt.Fprintf(a.out, "  %s  %s\n", c.PaneID, c.Command)
		}
	}
	return ws, nil
}

// Create creates a workspace and prints its id.
func (a *WorkspaceAdapter) Create(ctx context.Context, req primary.CreateWorkspaceRequest) (*primary.CreateWorkspaceResponse, error) {
	resp, err := a.service.CreateWorkspace(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	fmt.Fprintf(a.out, "%s Created workspace %s: %s\n", check, resp.WorkspaceID, resp.Workspace.Name)
	return resp, nil
}

// Delete removes a workspace.
func (a *WorkspaceAdapter) Delete(ctx context.Context, ref string) error {
	ws, err := a.service.GetWorkspace(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}
	if err := a.service.DeleteWorkspace(ctx, ws.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Deleted workspace %s: %s\n", check, ws.ID, ws.Name)
	return nil
}

// Duplicate copies a workspace.
func (a *WorkspaceAdapter) Duplicate(ctx context.Context, ref string) (*models.Workspace, error) {
	dup, err := a.service.DuplicateWorkspace(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to duplicate workspace: %w", err)
	}
	fmt.Fprintf(a.out, "%s Created %s: %s\n", check, dup.ID, dup.Name)
	return dup, nil
}

// EditLayout applies a layout operation and prints the resulting outline.
func (a *WorkspaceAdapter) EditLayout(ctx context.Context, req primary.EditLayoutRequest) (*primary.EditLayoutResponse, error) {
	resp, err := a.service.EditLayout(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.Changed {
		fmt.Fprintln(a.out, "No change.")
		return resp, nil
	}
	fmt.Fprintf(a.out, "%s %s applied to %s\n", check, req.Op, resp.Workspace.Name)
	if resp.NewPaneID != "" {
		fmt.Fprintf(a.out, "  New pane: %s\n", resp.NewPaneID)
	}
	fmt.Fprint(a.out, RenderTree(resp.Workspace, a.profileNames(ctx)))
	return resp, nil
}

// profileNames returns a resolver from profile id to display name. A
// failed catalog read degrades to bare ids.
func (a *WorkspaceAdapter) profileNames(ctx context.Context) func(string) string {
	names := map[string]string{}
	if a.profiles != nil {
		if groups, err := a.profiles.ListAvailable(ctx); err == nil {
			for _, g := range groups {
				for _, p := range g.Profiles {
					names[p.ID] = p.Name
				}
			}
		}
	}
	return func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}
}

// ProfileAdapter prints host profile information.
type ProfileAdapter struct {
	service primary.ProfileService
	out     io.Writer
}

// NewProfileAdapter creates a new ProfileAdapter.
func NewProfileAdapter(service primary.ProfileService, out io.Writer) *ProfileAdapter {
	return &ProfileAdapter{service: service, out: out}
}

// List prints launchable profiles by group.
func (a *ProfileAdapter) List(ctx context.Context) error {
	groups, err := a.service.ListAvailable(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "No local profiles found in the Tabby config.")
		return nil
	}
	for _, g := range groups {
		fmt.Fprintf(a.out, "%s\n", color.New(color.Bold).Sprint(g.Name))
		w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
		profiles := append([]*models.Profile(nil), g.Profiles...)
		sort.SliceStable(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
		for _, p := range profiles {
			kind := ""
			if p.IsWSL {
				kind = "wsl"
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\n", p.ID, p.Name, kind)
		}
		w.Flush()
	}
	return nil
}

// Sync regenerates the split-layout profiles.
func (a *ProfileAdapter) Sync(ctx context.Context) error {
	resp, err := a.service.SyncProfiles(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Synced %s\n", check, resp.Path)
	fmt.Fprintf(a.out, "  removed %d, added %d split-layout profile(s)\n", resp.Removed, resp.Added)
	return nil
}

// PrintLaunch reports a launched session.
func PrintLaunch(out io.Writer, resp *primary.LaunchResponse) {
	fmt.Fprintf(out, "%s Launched session %s (%d panes", check, resp.SessionName, len(resp.Panes))
	if resp.StartupCommands > 0 {
		fmt.Fprintf(out, ", %d startup command(s)", resp.StartupCommands)
	}
	fmt.Fprintln(out, ")")
	fmt.Fprintln(out)
	fmt.Fprint(out, resp.AttachInstructions)
}
