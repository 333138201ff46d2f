package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"driftmap/internal/application/commands"
)

var scanFormat string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Print the workspace tree without touching the plan",
	Long: `Scan the workspace and print it as an outline, Mermaid or JSON.

Examples:
  driftmap-cli scan
  driftmap-cli scan --format mermaid
  driftmap-cli scan --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		result, err := commands.NewScanCommand(GetRuntime().Scanner).Execute(ctx)
		if err != nil {
			return err
		}

		switch scanFormat {
		case "tree":
			fmt.Print(result.Tree)
		case "mermaid":
			fmt.Print(result.Mermaid)
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result.Structure)
		default:
			return fmt.Errorf("unknown format %q (use tree, mermaid or json)", scanFormat)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "tree", "output format: tree, mermaid or json")
	rootCmd.AddCommand(scanCmd)
}
