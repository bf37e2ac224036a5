package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/tabbyspaces/internal/ctxutil"
	"github.com/example/tabbyspaces/internal/wire"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve workspace tools over stdio",
	Long: `Run an MCP server on stdin/stdout exposing workspace listing, editing,
profile sync and launching as tools. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		DetectAndStoreActor(ctxutil.ActorMCP)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		wire.WatchProfiles(ctx)

		if err := wire.MCPServer().Run(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("mcp server failed: %w", err)
		}
		return nil
	},
}

// MCPCmd returns the mcp command
func MCPCmd() *cobra.Command {
	mcpCmd.AddCommand(mcpServeCmd)
	return mcpCmd
}
