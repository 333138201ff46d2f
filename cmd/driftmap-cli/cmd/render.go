package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"driftmap/internal/application/commands"
)

var renderWrite bool

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Regenerate the Mermaid diagram of the saved plan",
	Long: `Regenerate Mermaid text from the saved plan's structure and print it.

The stored diagram is informational; the structure is authoritative. With
--write a stale stored diagram is replaced.

Examples:
  driftmap-cli render
  driftmap-cli render --write`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		renderCmd := commands.NewRenderPlanCommand(GetRuntime().Store, renderWrite, GetRuntime().Logger)
		result, err := renderCmd.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Print(result.Mermaid)
		switch {
		case result.Written:
			fmt.Fprintln(os.Stderr, "stored diagram updated")
		case result.Stale:
			fmt.Fprintln(os.Stderr, "stored diagram is stale; run with --write to update it")
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().BoolVar(&renderWrite, "write", false, "replace a stale stored diagram")
	rootCmd.AddCommand(renderCmd)
}
