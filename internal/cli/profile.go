package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/tabbyspaces/internal/wire"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect Tabby profiles and regenerate split layouts",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles a pane can use",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ProfileAdapter().List(NewContext())
	},
}

var profileSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rewrite every workspace profile in the Tabby config",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ProfileAdapter().Sync(NewContext())
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [workspace]",
	Short: "Print the split-layout profile generated for a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prof, err := wire.ProfileService().GetWorkspaceProfile(NewContext(), args[0])
		if err != nil {
			return fmt.Errorf("failed to build profile: %w", err)
		}
		out, err := yaml.Marshal(prof)
		if err != nil {
			return fmt.Errorf("failed to encode profile: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

// ProfileCmd returns the profile command
func ProfileCmd() *cobra.Command {
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileSyncCmd)
	profileCmd.AddCommand(profileShowCmd)
	return profileCmd
}
