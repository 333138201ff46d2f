package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"driftmap/internal/adapters/tui/views"
	"driftmap/internal/logging"
	"driftmap/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewDrift ViewState = iota
	ViewGenerate
	ViewHelp
)

// Deps holds what the TUI needs from the outside
type Deps struct {
	Store     ports.PlanStore
	Scanner   ports.TreeScanner
	Generator ports.DiagramGenerator // optional
	Editor    ports.EditorOpener     // optional
	PlanPath  string                 // empty when the plan is not a plain file
	Logger    *slog.Logger
}

// App is the main TUI application model
type App struct {
	editor ports.EditorOpener

	state    ViewState
	drift    *views.DriftModel
	generate *views.GenerateModel
	help     *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(deps Deps) *App {
	logger := logging.OrDiscard(deps.Logger)

	var opts []views.DriftOption
	if deps.Editor != nil && deps.PlanPath != "" {
		opts = append(opts, views.WithEditablePlan(deps.PlanPath))
	}

	a := &App{
		editor: deps.Editor,
		state:  ViewDrift,
		drift:  views.NewDriftModel(deps.Store, deps.Scanner, logger, opts...),
		help:   views.NewHelpModel(),
	}
	if deps.Generator != nil {
		a.generate = views.NewGenerateModel(deps.Generator, deps.Scanner, deps.Store, logger)
	}
	return a
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.drift.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.drift.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		if a.generate != nil {
			a.generate.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	// View switching messages
	case views.SwitchToGenerateMsg:
		if a.generate == nil {
			a.drift.SetMessage("No diagram generator configured", true)
			return a, nil
		}
		a.state = ViewGenerate
		return a, a.generate.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToDriftMsg:
		a.state = ViewDrift
		return a, nil

	case views.PlanChangedMsg:
		a.state = ViewDrift
		_, cmd := a.drift.Update(msg)
		return a, cmd

	case views.OpenEditorMsg:
		a.state = ViewDrift
		return a, a.openEditor(msg.Path)

	case editorFinishedMsg:
		a.state = ViewDrift
		if msg.err != nil {
			a.drift.SetMessage("Editor failed: "+msg.err.Error(), true)
			return a, nil
		}
		return a, a.drift.Recheck()
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewDrift:
		_, cmd = a.drift.Update(msg)
	case ViewGenerate:
		_, cmd = a.generate.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewGenerate:
		return a.generate.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.drift.View()
	}
}
