package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"driftmap/internal/adapters/editor"
	"driftmap/internal/adapters/tui"
	"driftmap/internal/bootstrap"
	"driftmap/internal/config"
)

func main() {
	workspaceFlag := flag.String("workspace", config.WorkspacePath(), "workspace directory to check")
	configFlag := flag.String("config", "", "config file (default <workspace>/.driftmap/config.yaml)")
	storeFlag := flag.String("store", "", "plan store: file or sqlite")
	flag.Parse()

	// The alt screen owns the terminal; text logs would corrupt it, so only
	// the configured log file receives records
	rt, err := bootstrap.Open(bootstrap.Options{
		Workspace:  *workspaceFlag,
		ConfigPath: *configFlag,
		Store:      *storeFlag,
		LogOut:     io.Discard,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	app := tui.NewApp(tui.Deps{
		Store:     rt.Store,
		Scanner:   rt.Scanner,
		Generator: rt.Generator,
		Editor:    editor.NewOpener(),
		PlanPath:  rt.PlanPath,
		Logger:    rt.Logger,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		rt.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
