package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/tabbyspaces/internal/adapters/filesystem"
	"github.com/example/tabbyspaces/internal/ports/primary"
	"github.com/example/tabbyspaces/internal/wire"
)

var exportCmd = &cobra.Command{
	Use:   "export [workspace...]",
	Short: "Write workspaces to a YAML or JSON document",
	Long:  "Export the named workspaces, or all of them, to stdout or a file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		if format == "" && output != "" {
			format = string(filesystem.FormatFromPath(output))
		}

		data, err := wire.WorkspaceService().ExportWorkspaces(NewContext(), primary.ExportRequest{
			Refs:   args,
			Format: format,
		})
		if err != nil {
			return fmt.Errorf("failed to export workspaces: %w", err)
		}

		if output == "" || output == "-" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := filesystem.WriteFile(output, data); err != nil {
			return err
		}
		fmt.Printf("✓ Exported to %s\n", output)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Add workspaces from an exported document",
	Long: `Import workspaces from a YAML or JSON export ("-" reads stdin).

Imported workspaces get fresh ids unless --replace is set, in which case
a workspace whose id already exists is overwritten in place.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		replace, _ := cmd.Flags().GetBool("replace")
		if format == "" && args[0] != "-" {
			format = string(filesystem.FormatFromPath(args[0]))
		}

		data, err := filesystem.ReadFile(args[0])
		if err != nil {
			return err
		}
		resp, err := wire.WorkspaceService().ImportWorkspaces(NewContext(), primary.ImportRequest{
			Data:    data,
			Format:  format,
			Replace: replace,
		})
		if err != nil {
			return fmt.Errorf("failed to import workspaces: %w", err)
		}

		for _, ws := range resp.Imported {
			fmt.Printf("✓ Imported %s: %s\n", ws.ID, ws.Name)
		}
		if resp.Replaced > 0 {
			fmt.Printf("  (%d replaced existing workspaces)\n", resp.Replaced)
		}
		return nil
	},
}

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	exportCmd.Flags().StringP("format", "f", "", "yaml or json (default: from --output extension, else yaml)")
	exportCmd.Flags().StringP("output", "o", "", "File to write (default: stdout)")
	return exportCmd
}

// ImportCmd returns the import command
func ImportCmd() *cobra.Command {
	importCmd.Flags().StringP("format", "f", "", "yaml or json (default: from file extension)")
	importCmd.Flags().Bool("replace", false, "Overwrite workspaces with matching ids")
	return importCmd
}
