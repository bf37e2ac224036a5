package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/tabbyspaces/internal/adapters/cli"
	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
	"github.com/example/tabbyspaces/internal/wire"
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Manage workspaces (saved split layouts)",
	Long:    "Create, list, and edit workspaces: named split trees of terminal panes",
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces in display order",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.WorkspaceAdapter().List(NewContext())
		return err
	},
}

var workspaceShowCmd = &cobra.Command{
	Use:   "show [workspace]",
	Short: "Show workspace details and a layout preview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		if width <= 0 {
			width, _ = terminalSize()
			width = min(width, 100)
		}
		_, err := wire.WorkspaceAdapter().Show(NewContext(), args[0], width, height)
		return err
	},
}

var workspacePreviewCmd = &cobra.Command{
	Use:   "preview [workspace]",
	Short: "Draw a workspace layout at terminal size",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := wire.WorkspaceService().GetWorkspace(NewContext(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get workspace: %w", err)
		}
		width, height := terminalSize()
		fmt.Println(cliadapter.RenderPreview(ws, cliadapter.PreviewOptions{
			Width:  width,
			Height: height - 2,
		}))
		return nil
	},
}

var workspaceCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a workspace with two panes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := primary.CreateWorkspaceRequest{Name: args[0]}
		req.ProfileID, _ = cmd.Flags().GetString("profile")
		req.Icon, _ = cmd.Flags().GetString("icon")
		req.Color, _ = cmd.Flags().GetString("color")
		if raw, _ := cmd.Flags().GetString("orientation"); raw != "" {
			o, err := parseOrientation(raw)
			if err != nil {
				return err
			}
			req.Orientation = o
		}
		_, err := wire.WorkspaceAdapter().Create(NewContext(), req)
		return err
	},
}

var workspaceRenameCmd = &cobra.Command{
	Use:   "rename [workspace] [new-name]",
	Short: "Rename a workspace",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[1]
		ws, err := wire.WorkspaceService().UpdateWorkspace(NewContext(), primary.UpdateWorkspaceRequest{
			Ref:  args[0],
			Name: &name,
		})
		if err != nil {
			return fmt.Errorf("failed to rename workspace: %w", err)
		}
		fmt.Printf("✓ Workspace %s renamed to %s\n", ws.ID, ws.Name)
		return nil
	},
}

var workspaceSetCmd = &cobra.Command{
	Use:   "set [workspace]",
	Short: "Change workspace icon, color, hotkey, startup flag or background",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := primary.UpdateWorkspaceRequest{Ref: args[0]}
		flags := cmd.Flags()

		if flags.Changed("icon") {
			v, _ := flags.GetString("icon")
			req.Icon = &v
		}
		if flags.Changed("color") {
			v, _ := flags.GetString("color")
			req.Color = &v
		}
		if flags.Changed("hotkey") {
			v, _ := flags.GetString("hotkey")
			req.Hotkey = &v
		}
		if flags.Changed("startup") {
			v, _ := flags.GetBool("startup")
			req.LaunchOnStartup = &v
		}
		if flags.Changed("background") {
			raw, _ := flags.GetString("background")
			bg, err := parseBackground(raw)
			if err != nil {
				return err
			}
			req.Background = bg
		}
		if req.Icon == nil && req.Color == nil && req.Hotkey == nil && req.LaunchOnStartup == nil && req.Background == nil {
			return fmt.Errorf("nothing to change: pass at least one of --icon, --color, --hotkey, --startup, --background")
		}

		ws, err := wire.WorkspaceService().UpdateWorkspace(NewContext(), req)
		if err != nil {
			return fmt.Errorf("failed to update workspace: %w", err)
		}
		fmt.Printf("✓ Workspace %s updated\n", ws.ID)
		return nil
	},
}

var workspaceDeleteCmd = &cobra.Command{
	Use:   "delete [workspace]",
	Short: "Delete a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.WorkspaceAdapter().Delete(NewContext(), args[0])
	},
}

var workspaceDuplicateCmd = &cobra.Command{
	Use:   "duplicate [workspace]",
	Short: "Copy a workspace with fresh ids",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.WorkspaceAdapter().Duplicate(NewContext(), args[0])
		return err
	},
}

var workspaceMoveCmd = &cobra.Command{
	Use:     "move [workspace] [position]",
	Aliases: []string{"reorder"},
	Short:   "Move a workspace to a position in the list (0 is first)",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		position, err := parsePosition(args[1])
		if err != nil {
			return err
		}
		if err := wire.WorkspaceService().MoveWorkspace(NewContext(), args[0], position); err != nil {
			return fmt.Errorf("failed to move workspace: %w", err)
		}
		fmt.Printf("✓ Moved %s to position %d\n", args[0], position)
		return nil
	},
}

// WorkspaceCmd returns the workspace command
func WorkspaceCmd() *cobra.Command {
	// Add flags
	workspaceShowCmd.Flags().Int("width", 0, "Preview width in cells (default: terminal width, at most 100)")
	workspaceShowCmd.Flags().Int("height", 12, "Preview height in rows")
	workspaceCreateCmd.Flags().StringP("orientation", "o", "", "Root orientation: horizontal or vertical (default from config)")
	workspaceCreateCmd.Flags().StringP("profile", "p", "", "Profile id for both panes (default: first local profile)")
	workspaceCreateCmd.Flags().String("icon", "", "Icon name (default: random)")
	workspaceCreateCmd.Flags().String("color", "", "Hex color like #3b82f6 (default: random)")
	workspaceSetCmd.Flags().String("icon", "", "Icon name")
	workspaceSetCmd.Flags().String("color", "", "Hex color like #3b82f6")
	workspaceSetCmd.Flags().String("hotkey", "", "Tabby hotkey, empty to clear")
	workspaceSetCmd.Flags().Bool("startup", false, "Launch this workspace on startup")
	workspaceSetCmd.Flags().String("background", "", "none, or color:<hex>, gradient:<css>, image:<url>")

	// Add subcommands
	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceShowCmd)
	workspaceCmd.AddCommand(workspacePreviewCmd)
	workspaceCmd.AddCommand(workspaceCreateCmd)
	workspaceCmd.AddCommand(workspaceRenameCmd)
	workspaceCmd.AddCommand(workspaceSetCmd)
	workspaceCmd.AddCommand(workspaceDeleteCmd)
	workspaceCmd.AddCommand(workspaceDuplicateCmd)
	workspaceCmd.AddCommand(workspaceMoveCmd)

	return workspaceCmd
}

// orientationOrDefault is used by layout commands that accept an optional axis.
func orientationOrDefault(raw string, fallback models.Orientation) (models.Orientation, error) {
	if raw == "" {
		return fallback, nil
	}
	return parseOrientation(raw)
}
