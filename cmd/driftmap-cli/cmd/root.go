package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"driftmap/internal/bootstrap"
	"driftmap/internal/config"
)

var (
	workspace  string
	configPath string
	storeKind  string
	logLevel   string
	rt         *bootstrap.Runtime
)

var rootCmd = &cobra.Command{
	Use:   "driftmap-cli",
	Short: "Detect drift between a project plan and the files on disk",
	Long: `driftmap-cli compares a saved project plan (a tree of folders and
files with its Mermaid diagram) against the workspace on disk.

Planned items that are gone are reported as missing, items on disk that
the plan does not list are reported as untracked, and each kind of drift
comes with its own regenerated Mermaid diagram.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		rt, err = bootstrap.Open(bootstrap.Options{
			Workspace:  workspace,
			ConfigPath: configPath,
			Store:      storeKind,
			LogLevel:   logLevel,
		})
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if rt == nil {
			return nil
		}
		return rt.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", config.WorkspacePath(), "workspace directory to check")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <workspace>/.driftmap/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "plan store: file or sqlite")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}

// GetRuntime returns the initialized runtime
func GetRuntime() *bootstrap.Runtime {
	return rt
}
