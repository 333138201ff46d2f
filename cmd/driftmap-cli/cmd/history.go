package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"driftmap/internal/application/commands"
)

var restoreID int64

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or restore saved plan revisions",
	Long: `List the saved plan revisions, newest first, or restore one.

Only the sqlite store keeps history.

Examples:
  driftmap-cli --store sqlite history
  driftmap-cli --store sqlite history --restore 3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if cmd.Flags().Changed("restore") {
			restoreCmd := commands.NewRestoreRevisionCommand(GetRuntime().Store, restoreID, GetRuntime().Logger)
			plan, err := restoreCmd.Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Restored revision %d (%d nodes)\n", restoreID, len(plan.JSONStructure.Nodes))
			return nil
		}

		revisions, err := commands.NewHistoryCommand(GetRuntime().Store).Execute(ctx)
		if err != nil {
			return err
		}
		if len(revisions) == 0 {
			fmt.Println("No saved revisions")
			return nil
		}
		for _, r := range revisions {
			fmt.Printf("%4d  %s  %d nodes, %d edges\n", r.ID, r.SavedAt.Local().Format(time.DateTime), r.NodeCount, r.EdgeCount)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int64Var(&restoreID, "restore", 0, "revision id to save as the current plan")
	rootCmd.AddCommand(historyCmd)
}
