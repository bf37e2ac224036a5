package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/tabbyspaces/internal/adapters/cli"
	"github.com/example/tabbyspaces/internal/ctxutil"
	"github.com/example/tabbyspaces/internal/ports/primary"
	"github.com/example/tabbyspaces/internal/tui"
	"github.com/example/tabbyspaces/internal/wire"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Browse, edit and launch workspaces interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		attach, _ := cmd.Flags().GetBool("attach")
		return runPicker("", attach)
	},
}

var editCmd = &cobra.Command{
	Use:   "edit [workspace]",
	Short: "Open the interactive layout editor on a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPicker(args[0], false)
	},
}

// runPicker runs the TUI and performs the launch it asks for once the
// terminal has been restored.
func runPicker(editRef string, attach bool) error {
	DetectAndStoreActor(ctxutil.ActorPicker)
	ctx, stop := signal.NotifyContext(NewContext(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wire.WatchProfiles(ctx)

	result, err := tui.Run(ctx, tui.Options{
		Workspaces: wire.WorkspaceService(),
		Profiles:   wire.ProfileService(),
		ResizeStep: wire.Config().ResizeStep,
		Logger:     wire.Logger().With("component", "tui"),
		EditRef:    editRef,
	})
	if err != nil {
		return err
	}
	if result.Action != tui.ActionLaunch {
		return nil
	}

	launcher, err := wire.LaunchService()
	if err != nil {
		return err
	}
	resp, err := launcher.LaunchWorkspace(ctx, primary.LaunchRequest{WorkspaceRef: result.WorkspaceID})
	if err != nil {
		return fmt.Errorf("failed to launch workspace: %w", err)
	}
	cliadapter.PrintLaunch(os.Stdout, resp)
	if attach {
		return attachSession(resp.SessionName)
	}
	return nil
}

// PickCmd returns the pick command
func PickCmd() *cobra.Command {
	pickCmd.Flags().BoolP("attach", "a", false, "Attach to the session after launching")
	return pickCmd
}

// EditCmd returns the edit command
func EditCmd() *cobra.Command {
	return editCmd
}
