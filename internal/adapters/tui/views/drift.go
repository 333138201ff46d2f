package views

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"driftmap/internal/adapters/tui/styles"
	"driftmap/internal/application/commands"
	"driftmap/internal/domain"
	"driftmap/internal/ports"
)

// DriftKeyMap defines key bindings for the drift view
type DriftKeyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Copy     key.Binding
	Recheck  key.Binding
	Sync     key.Binding
	Edit     key.Binding
	Generate key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var DriftKeys = DriftKeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy mermaid"),
	),
	Recheck: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "recheck"),
	),
	Sync: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sync plan"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit plan"),
	),
	Generate: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "generate"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// DriftModel shows the drift report of the workspace, one view at a time
type DriftModel struct {
	ViewState
	store    ports.PlanStore
	scanner  ports.TreeScanner
	logger   *slog.Logger
	planPath string
	copyFn   func(string) error

	result   *commands.CheckDriftResult
	current  int
	loading  bool
	confirm  ConfirmationModel
	viewport viewport.Model
}

// DriftOption configures the DriftModel
type DriftOption func(*DriftModel)

// WithClipboard replaces the system clipboard writer
func WithClipboard(fn func(string) error) DriftOption {
	return func(m *DriftModel) {
		m.copyFn = fn
	}
}

// WithEditablePlan enables the edit key for the plan document at path
func WithEditablePlan(path string) DriftOption {
	return func(m *DriftModel) {
		m.planPath = path
	}
}

// NewDriftModel creates a new drift view model
func NewDriftModel(store ports.PlanStore, scanner ports.TreeScanner, logger *slog.Logger, opts ...DriftOption) *DriftModel {
	m := &DriftModel{
		store:    store,
		scanner:  scanner,
		logger:   logger,
		copyFn:   clipboard.WriteAll,
		confirm:  NewConfirmationModel("Replace the saved plan with the workspace on disk?"),
		viewport: viewport.New(80, 20),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type checkDoneMsg struct {
	result *commands.CheckDriftResult
}

type syncDoneMsg struct {
	result *commands.SyncPlanResult
}

type syncConfirmedMsg struct{}

type syncCanceledMsg struct{}

type errMsg struct {
	err error
}

// Init runs the first check
func (m *DriftModel) Init() tea.Cmd {
	return m.Recheck()
}

// Recheck starts a new drift check with a fresh session
func (m *DriftModel) Recheck() tea.Cmd {
	m.loading = true
	return m.check
}

func (m *DriftModel) check() tea.Msg {
	result, err := commands.NewCheckDriftCommand(m.store, m.scanner, m.logger).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return checkDoneMsg{result}
}

func (m *DriftModel) sync() tea.Msg {
	result, err := commands.NewSyncPlanCommand(m.store, m.scanner, m.logger).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return syncDoneMsg{result}
}

// Update handles messages for the drift view
func (m *DriftModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case checkDoneMsg:
		m.loading = false
		m.result = msg.result
		if m.current >= m.viewCount() {
			m.current = 0
		}
		m.SetMessage(msg.result.Report.Message, false)
		m.refreshContent()
		return m, nil

	case syncDoneMsg:
		m.SetMessage(fmt.Sprintf("Plan synced: %d nodes saved to %s", msg.result.Nodes, msg.result.Location), false)
		return m, m.Recheck()

	case PlanChangedMsg:
		if msg.Message != "" {
			m.SetMessage(msg.Message, false)
		}
		return m, m.Recheck()

	case syncConfirmedMsg:
		m.loading = true
		return m, m.sync

	case syncCanceledMsg:
		m.SetMessage("Sync canceled", false)
		return m, nil

	case errMsg:
		m.loading = false
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		if handled, cmd := m.confirm.HandleKeyMsg(msg,
			func() tea.Msg { return syncConfirmedMsg{} },
			func() tea.Msg { return syncCanceledMsg{} },
		); handled {
			return m, cmd
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *DriftModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DriftKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, DriftKeys.Next):
		if n := m.viewCount(); n > 1 {
			m.current = (m.current + 1) % n
			m.refreshContent()
		}
		return m, nil

	case key.Matches(msg, DriftKeys.Prev):
		if n := m.viewCount(); n > 1 {
			m.current = (m.current + n - 1) % n
			m.refreshContent()
		}
		return m, nil

	case key.Matches(msg, DriftKeys.Copy):
		mermaid := m.CurrentMermaid()
		if mermaid == "" {
			m.SetMessage("Nothing to copy", true)
			return m, nil
		}
		if err := m.copyFn(mermaid); err != nil {
			m.SetMessage(fmt.Sprintf("Copy failed: %v", err), true)
			return m, nil
		}
		m.SetMessage("Mermaid copied to clipboard", false)
		return m, nil

	case key.Matches(msg, DriftKeys.Recheck):
		return m, m.Recheck()

	case key.Matches(msg, DriftKeys.Sync):
		m.confirm.Ask()
		return m, nil

	case key.Matches(msg, DriftKeys.Edit):
		if m.planPath == "" {
			m.SetMessage("The plan store cannot be edited directly", true)
			return m, nil
		}
		path := m.planPath
		return m, func() tea.Msg { return OpenEditorMsg{Path: path} }

	case key.Matches(msg, DriftKeys.Generate):
		return m, func() tea.Msg { return SwitchToGenerateMsg{} }

	case key.Matches(msg, DriftKeys.Help):
		return m, func() tea.Msg { return SwitchToHelpMsg{} }
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// SetSize updates the view and viewport dimensions
func (m *DriftModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.viewport.Width = max(width-4, 20)
	// Title, tabs, message, help and padding
	m.viewport.Height = max(height-12, 5)
}

// viewCount is the number of selectable views; a report without drift
// still shows the plan itself
func (m *DriftModel) viewCount() int {
	if m.result == nil {
		return 0
	}
	if n := len(m.result.Report.Views); n > 0 {
		return n
	}
	return 1
}

// CurrentMermaid returns the Mermaid text of the selected view
func (m *DriftModel) CurrentMermaid() string {
	if m.result == nil {
		return ""
	}
	views := m.result.Report.Views
	if len(views) == 0 {
		if m.result.Plan == nil {
			return ""
		}
		return domain.RenderPlan(m.result.Plan.JSONStructure)
	}
	return views[m.current].Payload.MermaidSyntax
}

func (m *DriftModel) tabTitles() []string {
	if len(m.result.Report.Views) == 0 {
		return []string{"Plan"}
	}
	titles := make([]string, len(m.result.Report.Views))
	for i, v := range m.result.Report.Views {
		titles[i] = fmt.Sprintf("%s (%d)", v.Title, countStatus(v.Payload.JSONStructure.Nodes, v.Focus))
	}
	return titles
}

func countStatus(nodes []domain.ClassifiedNode, status domain.Status) int {
	n := 0
	for _, node := range nodes {
		if node.Status == status {
			n++
		}
	}
	return n
}

func (m *DriftModel) refreshContent() {
	var b strings.Builder
	views := m.result.Report.Views
	if len(views) > 0 {
		for _, n := range views[m.current].Payload.JSONStructure.Nodes {
			if n.Status != domain.StatusMatched {
				b.WriteString(RenderNode(n))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}
	if mermaid := m.CurrentMermaid(); mermaid != "" {
		b.WriteString(styles.Diagram.Render(strings.TrimRight(mermaid, "\n")))
	} else {
		b.WriteString(styles.MutedText.Render("No saved plan and nothing on disk."))
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
}

// View renders the drift view
func (m *DriftModel) View() string {
	v := NewViewBuilder().Title("driftmap").Subtitle(m.scanner.Root())

	if m.result == nil {
		if m.loading {
			return v.Muted("Checking drift...").String()
		}
		return v.Message(m.Message, m.MessageErr).Help(DriftKeys.Recheck, DriftKeys.Quit).String()
	}

	v.Line(RenderTabs(m.tabTitles(), m.current)).BlankLine()
	v.Raw(m.viewport.View()).BlankLine().BlankLine()

	for _, w := range m.result.Warnings {
		v.Line(styles.WarningMsg.Render("warning: " + w))
	}
	if m.loading {
		v.Muted("Working...")
	}
	v.Message(m.Message, m.MessageErr)

	if prompt := m.confirm.View(); prompt != "" {
		return v.Line(prompt).String()
	}

	edit := DriftKeys.Edit
	edit.SetEnabled(m.planPath != "")
	return v.Help(DriftKeys.Next, DriftKeys.Copy, DriftKeys.Recheck, DriftKeys.Sync, edit, DriftKeys.Generate, DriftKeys.Help, DriftKeys.Quit).String()
}
