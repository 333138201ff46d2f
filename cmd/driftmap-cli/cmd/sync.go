package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"driftmap/internal/application/commands"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replace the saved plan with the workspace on disk",
	Long: `Scan the workspace and save it as the new plan, accepting all drift.

Example:
  driftmap-cli sync`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		syncCmd := commands.NewSyncPlanCommand(GetRuntime().Store, GetRuntime().Scanner, GetRuntime().Logger)
		result, err := syncCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %d nodes and %d edges to %s\n", result.Nodes, result.Edges, result.Location)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
