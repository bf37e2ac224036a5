package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/tabbyspaces/internal/ports/primary"
	"github.com/example/tabbyspaces/internal/wire"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View the workspace change history",
	Long:  "View and prune the record of workspace creates, edits and deletes",
}

var historyListCmd = &cobra.Command{
	Use:   "list [workspace-id]",
	Short: "Show recent changes, optionally for one workspace",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		action, _ := cmd.Flags().GetString("action")
		if limit <= 0 {
			limit = 50
		}

		filters := primary.LogFilters{Action: action, Limit: limit}
		if len(args) > 0 {
			filters.EntityID = args[0]
		}

		entries, err := wire.LogService().ListLogs(NewContext(), filters)
		if err != nil {
			return fmt.Errorf("failed to fetch history: %w", err)
		}
		printHistory(entries)
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old history entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			days = 30
		}

		count, err := wire.LogService().PruneLogs(NewContext(), days)
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
		if count == 0 {
			fmt.Printf("No history entries older than %d days found.\n", days)
		} else {
			fmt.Printf("Pruned %d history entries older than %d days.\n", count, days)
		}
		return nil
	},
}

func printHistory(entries []*primary.LogEntry) {
	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return
	}
	// Oldest first, so the newest change is nearest the prompt.
	for i := len(entries) - 1; i >= 0; i-- {
		fmt.Println(formatHistoryEntry(entries[i]))
	}
}

func formatHistoryEntry(entry *primary.LogEntry) string {
	actor := entry.ActorID
	if actor == "" {
		actor = "-"
	}
	line := fmt.Sprintf("%s | %-14s | %s %-6s | %s/%s",
		formatTimestamp(entry.Timestamp),
		actor,
		actionIcon(entry.Action),
		entry.Action,
		entry.EntityType,
		entry.EntityID,
	)
	if entry.Action == "update" && entry.FieldName != "" {
		line += fmt.Sprintf(" | %s: %s -> %s", entry.FieldName, entry.OldValue, entry.NewValue)
	}
	return line
}

func actionIcon(action string) string {
	switch action {
	case "create":
		return color.New(color.FgGreen).Sprint("+")
	case "update":
		return color.New(color.FgYellow).Sprint("~")
	case "delete":
		return color.New(color.FgRed).Sprint("-")
	default:
		return "?"
	}
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// HistoryCmd returns the history command with all subcommands attached.
func HistoryCmd() *cobra.Command {
	// history list
	historyListCmd.Flags().IntP("limit", "n", 50, "Number of entries to show")
	historyListCmd.Flags().String("action", "", "Filter by action: create, update or delete")

	// history prune
	historyPruneCmd.Flags().Int("days", 30, "Delete entries older than N days")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyPruneCmd)

	return historyCmd
}
