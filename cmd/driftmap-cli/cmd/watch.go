package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"driftmap/internal/adapters/filesystem"
	"driftmap/internal/adapters/watcher"
	"driftmap/internal/application/commands"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-check drift whenever the workspace changes",
	Long: `Watch the workspace and run a fresh drift check after each burst of
changes. Stop with Ctrl+C.

Example:
  driftmap-cli watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r := GetRuntime()
		runCheck := func(ctx context.Context) {
			result, err := commands.NewCheckDriftCommand(r.Store, r.Scanner, r.Logger).Execute(ctx)
			if err != nil {
				r.Logger.Error("drift check failed", "error", err)
				return
			}
			fmt.Printf("[%s] %s\n", time.Now().Format(time.TimeOnly), result.Report.Message)
		}

		ignored, err := r.Scanner.IgnoreMatcher()
		if err != nil {
			return err
		}

		runCheck(ctx)

		w := watcher.New(r.Config.Workspace,
			watcher.WithDebounce(r.Config.WatchDebounce),
			watcher.WithSkipDirs(filesystem.AlwaysIgnored...),
			watcher.WithIgnore(ignored),
			watcher.WithLogger(r.Logger),
		)
		return w.Run(ctx, func(ctx context.Context, paths []string) {
			r.Logger.Debug("workspace changed", "paths", len(paths))
			runCheck(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
