package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"driftmap/internal/application"
	"driftmap/internal/application/commands"
	"driftmap/internal/ports"
)

var generateSave bool

var generateCmd = &cobra.Command{
	Use:   "generate <description>",
	Short: "Ask the claude CLI to design a plan",
	Long: `Describe a project layout in plain words and get a plan back.

The generator may look at the workspace first. Its diagram is checked
against the tree rules and re-rendered locally; --save stores it as the
new plan.

Examples:
  driftmap-cli generate "a Go service with cmd, internal and docs"
  driftmap-cli generate --save "add a migrations folder"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if GetRuntime().Generator == nil {
			return application.ErrUnavailable
		}

		genCmd := commands.NewGeneratePlanCommand(
			GetRuntime().Generator,
			GetRuntime().Scanner,
			GetRuntime().Store,
			strings.Join(args, " "),
			generateSave,
			GetRuntime().Logger,
		)
		result, err := genCmd.Execute(ctx)
		if err != nil {
			return err
		}

		if result.Message != "" {
			fmt.Println(result.Message)
		}
		if result.Type == ports.ResponseDiagram {
			fmt.Println()
			fmt.Print(result.Plan.MermaidSyntax)
			if result.Saved {
				fmt.Printf("\nSaved to %s\n", GetRuntime().Store.Location())
			}
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&generateSave, "save", false, "save the generated diagram as the plan")
	rootCmd.AddCommand(generateCmd)
}
