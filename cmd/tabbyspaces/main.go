package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/tabbyspaces/internal/cli"
	"github.com/example/tabbyspaces/internal/ctxutil"
	"github.com/example/tabbyspaces/internal/version"
	"github.com/example/tabbyspaces/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "tabbyspaces",
		Short:   "TabbySpaces - split-layout workspaces for Tabby",
		Version: version.String(),
		Long: `TabbySpaces edits workspaces: named trees of split terminal panes.
Each workspace is written into the Tabby config as a split-layout profile
and can also be opened as a tmux session.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			v, _ := cmd.Flags().GetBool("verbose")
			wire.SetVerbose(v)
			cli.DetectAndStoreActor(ctxutil.ActorCLI)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			wire.Shutdown()
		},
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging to stderr")

	// Add subcommands
	rootCmd.AddCommand(cli.WorkspaceCmd())
	rootCmd.AddCommand(cli.PaneCmd())
	rootCmd.AddCommand(cli.ProfileCmd())
	rootCmd.AddCommand(cli.LaunchCmd())
	rootCmd.AddCommand(cli.PickCmd())
	rootCmd.AddCommand(cli.EditCmd())
	rootCmd.AddCommand(cli.ExportCmd())
	rootCmd.AddCommand(cli.ImportCmd())

	// Integrations
	rootCmd.AddCommand(cli.MCPCmd())

	// Maintenance
	rootCmd.AddCommand(cli.ConfigCmd())
	rootCmd.AddCommand(cli.HistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
