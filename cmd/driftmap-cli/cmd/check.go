package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"driftmap/internal/application/commands"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare the saved plan with the workspace",
	Long: `Compare the saved plan with the workspace and print the drift report.

Without drift only the summary is printed. Otherwise each view (missing,
untracked) is printed with its Mermaid diagram. The exit status is 2 when
drift was found.

Examples:
  driftmap-cli check
  driftmap-cli check --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		checkCmd := commands.NewCheckDriftCommand(GetRuntime().Store, GetRuntime().Scanner, GetRuntime().Logger)
		result, err := checkCmd.Execute(ctx)
		if err != nil {
			return err
		}

		if checkJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result.Report); err != nil {
				return err
			}
		} else {
			printCheck(result)
		}

		if len(result.Report.Views) > 0 {
			GetRuntime().Close()
			os.Exit(2)
		}
		return nil
	},
}

func printCheck(result *commands.CheckDriftResult) {
	if !result.PlanFound {
		fmt.Println("No saved plan; everything on disk is untracked. Run `driftmap-cli sync` to adopt it.")
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	fmt.Println(result.Report.Message)

	for _, v := range result.Report.Views {
		fmt.Printf("\n## %s\n\n", v.Title)
		fmt.Print(v.Payload.MermaidSyntax)
	}
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(checkCmd)
}
