package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/tabbyspaces/internal/adapters/cli"
	"github.com/example/tabbyspaces/internal/ports/primary"
	"github.com/example/tabbyspaces/internal/wire"
)

var launchCmd = &cobra.Command{
	Use:   "launch [workspace]",
	Short: "Open a workspace as a tmux session",
	Long: `Build a detached tmux session with one pane per workspace pane, then
type each pane's startup command.

With --startup, launch every workspace flagged to launch on startup instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		startup, _ := cmd.Flags().GetBool("startup")
		if startup == (len(args) == 1) {
			return fmt.Errorf("pass either a workspace or --startup")
		}

		launcher, err := wire.LaunchService()
		if err != nil {
			return err
		}
		ctx := NewContext()

		if startup {
			launched, err := launcher.LaunchStartupWorkspaces(ctx)
			if err != nil {
				return fmt.Errorf("failed to launch startup workspaces: %w", err)
			}
			if len(launched) == 0 {
				fmt.Println("No workspaces are flagged to launch on startup.")
			}
			for _, resp := range launched {
				cliadapter.PrintLaunch(os.Stdout, resp)
			}
			return nil
		}

		session, _ := cmd.Flags().GetString("session")
		replace, _ := cmd.Flags().GetBool("replace")
		resp, err := launcher.LaunchWorkspace(ctx, primary.LaunchRequest{
			WorkspaceRef: args[0],
			SessionName:  session,
			Replace:      replace,
		})
		if err != nil {
			return fmt.Errorf("failed to launch workspace: %w", err)
		}
		cliadapter.PrintLaunch(os.Stdout, resp)

		if attach, _ := cmd.Flags().GetBool("attach"); attach {
			return attachSession(resp.SessionName)
		}
		return nil
	},
}

// attachSession hands the terminal to tmux until the client detaches.
func attachSession(session string) error {
	verb := "attach-session"
	if os.Getenv("TMUX") != "" {
		verb = "switch-client"
	}
	c := exec.Command("tmux", verb, "-t", session)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to attach to %s: %w", session, err)
	}
	return nil
}

// LaunchCmd returns the launch command
func LaunchCmd() *cobra.Command {
	// Add flags
	launchCmd.Flags().StringP("session", "s", "", "tmux session name (default: prefix plus workspace name)")
	launchCmd.Flags().Bool("replace", false, "Kill an existing session with the same name first")
	launchCmd.Flags().Bool("startup", false, "Launch every workspace flagged to launch on startup")
	launchCmd.Flags().BoolP("attach", "a", false, "Attach to the session after launching")

	return launchCmd
}
