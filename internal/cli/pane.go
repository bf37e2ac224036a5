package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/primary"
	"github.com/example/tabbyspaces/internal/wire"
)

var paneCmd = &cobra.Command{
	Use:   "pane",
	Short: "Edit the panes and splits of a workspace",
	Long: `Mutate a workspace's split tree one operation at a time.

Split, remove, insert and edit take a pane id (see "workspace show").
Resize, drag and equalize act on the split holding the given pane, or on
the root split when no pane is given.`,
}

func editLayout(req primary.EditLayoutRequest) error {
	_, err := wire.WorkspaceAdapter().EditLayout(NewContext(), req)
	return err
}

// optionalPane returns args[i] when present.
func optionalPane(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

var paneSplitCmd = &cobra.Command{
	Use:   "split [workspace] [pane]",
	Short: "Split a pane in two",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("orientation")
		o, err := orientationOrDefault(raw, models.Horizontal)
		if err != nil {
			return err
		}
		return editLayout(primary.EditLayoutRequest{
			WorkspaceRef: args[0],
			Op:           primary.OpSplit,
			PaneID:       args[1],
			Orientation:  o,
		})
	},
}

var paneRemoveCmd = &cobra.Command{
	Use:   "remove [workspace] [pane]",
	Short: "Remove a pane (the last pane cannot be removed)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editLayout(primary.EditLayoutRequest{
			WorkspaceRef: args[0],
			Op:           primary.OpRemove,
			PaneID:       args[1],
		})
	},
}

var paneInsertCmd = &cobra.Command{
	Use:   "insert [workspace] [pane]",
	Short: "Insert a new pane beside a pane",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("direction")
		d, err := parseDirection(raw)
		if err != nil {
			return err
		}
		return editLayout(primary.EditLayoutRequest{
			WorkspaceRef: args[0],
			Op:           primary.OpInsert,
			PaneID:       args[1],
			Direction:    d,
		})
	},
}

var paneOrientationCmd = &cobra.Command{
	Use:   "orientation [workspace] [horizontal|vertical]",
	Short: "Set the root split orientation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := parseOrientation(args[1])
		if err != nil {
			return err
		}
		return editLayout(primary.EditLayoutRequest{
			WorkspaceRef: args[0],
			Op:           primary.OpOrientation,
			Orientation:  o,
		})
	},
}

var paneResizeCmd = &cobra.Command{
	Use:   "resize [workspace] [pane]",
	Short: "Set one ratio of a split",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("index")
		ratio, _ := cmd.Flags().GetFloat64("ratio")
		return editLayout(primary.EditLayoutRequest{
			WorkspaceRef: args[0],
			Op:           primary.OpResize,
			PaneID:       optionalPane(args, 1),
			Index:        index,
			Value:        ratio,
		})
	},
}

var paneDragCmd = &cobra.Command{
	Use:   "drag [workspace] [pane]",
	Short: "Move the boundary after child --index to --pointer, snapped to --step",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("index")
		pointer, _ := cmd.Flags().GetFloat64("pointer")
		step, _ := cmd.Flags().GetFloat64("step")
		return editLayout(primary.EditLayoutRequest{
			WorkspaceRef: args[0],
			Op:           primary.OpDrag,
			PaneID:       optionalPane(args, 1),
			Index:        index,
			Value:        pointer,
			Step:         step,
		})
	},
}

var paneEqualizeCmd = &cobra.Command{
	Use:   "equalize [workspace] [pane]",
	Short: "Give every child of a split the same share",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editLayout(primary.EditLayoutRequest{
			WorkspaceRef: args[0],
			Op:           primary.OpEqualize,
			PaneID:       optionalPane(args, 1),
		})
	},
}

var paneEditCmd = &cobra.Command{
	Use:   "edit [workspace] [pane]",
	Short: "Change a pane's profile, working directory, startup command or title",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := primary.UpdatePaneRequest{WorkspaceRef: args[0], PaneID: args[1]}
		flags := cmd.Flags()

		for name, dst := range map[string]**string{
			"profile": &req.ProfileID,
			"cwd":     &req.Cwd,
			"command": &req.StartupCommand,
			"title":   &req.Title,
		} {
			if flags.Changed(name) {
				v, _ := flags.GetString(name)
				*dst = &v
			}
		}
		if req.ProfileID == nil && req.Cwd == nil && req.StartupCommand == nil && req.Title == nil {
			return fmt.Errorf("nothing to change: pass at least one of --profile, --cwd, --command, --title")
		}

		pane, err := wire.WorkspaceService().UpdatePane(NewContext(), req)
		if err != nil {
			return fmt.Errorf("failed to update pane: %w", err)
		}
		fmt.Printf("✓ Pane %s updated\n", pane.ID)
		return nil
	},
}

// PaneCmd returns the pane command
func PaneCmd() *cobra.Command {
	// Add flags
	paneSplitCmd.Flags().StringP("orientation", "o", "", "Axis of the new split: horizontal (side by side, default) or vertical")
	paneInsertCmd.Flags().StringP("direction", "d", "right", "Side of the pane: left, right, top or bottom")
	paneResizeCmd.Flags().IntP("index", "i", 0, "Index of the ratio to set")
	paneResizeCmd.Flags().Float64P("ratio", "r", 0.5, "New ratio, clamped to [0.1, 0.9]")
	paneDragCmd.Flags().IntP("index", "i", 0, "Boundary after this child index")
	paneDragCmd.Flags().Float64P("pointer", "p", 0.5, "Boundary position as a fraction of the split")
	paneDragCmd.Flags().Float64("step", 0, "Snap step (default from config)")
	paneEditCmd.Flags().String("profile", "", "Profile id")
	paneEditCmd.Flags().String("cwd", "", "Working directory, empty to clear")
	paneEditCmd.Flags().String("command", "", "Startup command, empty to clear")
	paneEditCmd.Flags().String("title", "", "Custom title, empty to clear")

	// Add subcommands
	paneCmd.AddCommand(paneSplitCmd)
	paneCmd.AddCommand(paneRemoveCmd)
	paneCmd.AddCommand(paneInsertCmd)
	paneCmd.AddCommand(paneOrientationCmd)
	paneCmd.AddCommand(paneResizeCmd)
	paneCmd.AddCommand(paneDragCmd)
	paneCmd.AddCommand(paneEqualizeCmd)
	paneCmd.AddCommand(paneEditCmd)

	return paneCmd
}
