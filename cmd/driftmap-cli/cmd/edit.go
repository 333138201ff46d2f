package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"driftmap/internal/adapters/editor"
	"driftmap/internal/application/commands"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the plan document in $EDITOR",
	Long: `Open the JSON plan document in your editor, then check drift again.

Only the file store keeps the plan as an editable document.

Example:
  driftmap-cli edit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := GetRuntime()
		if r.PlanPath == "" {
			return fmt.Errorf("the %s store cannot be edited directly", r.Config.Store)
		}
		if err := editor.NewOpener().OpenFile(r.PlanPath); err != nil {
			return err
		}

		result, err := commands.NewCheckDriftCommand(r.Store, r.Scanner, r.Logger).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Report.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
