package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/tabbyspaces/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long:  fmt.Sprintf("Settings live in %s under the config directory.", config.FileName),
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(config.ConfigDir())
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Printf("# %s\n%s", config.ConfigDir(), out)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.EnsureConfigDir()
		if err != nil {
			return err
		}
		cfg, err := config.LoadConfig(dir)
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return fmt.Errorf("%w (keys: %s)", err, strings.Join(config.Keys(), ", "))
		}
		if err := config.SaveConfig(dir, cfg); err != nil {
			return err
		}
		fmt.Printf("✓ %s = %s\n", args[0], args[1])
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, k := range config.Keys() {
			fmt.Fprintf(w, "%s\t%s\n", k, configKeyHelp[k])
		}
		w.Flush()
	},
}

var configKeyHelp = map[string]string{
	"database_path":       "sqlite file holding workspaces and history",
	"default_orientation": "root orientation for new workspaces",
	"log_level":           "debug, info, warn or error",
	"resize_step":         "ratio step for keyboard resizing and drag snapping",
	"sync_on_save":        "regenerate Tabby profiles after every edit",
	"tabby_config_path":   "Tabby config.yaml to read and write",
	"tmux_session_prefix": "prefix for launched session names",
}

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	return configCmd
}
