package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"driftmap/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, switchToDrift
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("driftmap help"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Plan vs. workspace drift"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Views"))
	b.WriteString("\n")
	b.WriteString(helpLine("tab / shift+tab", "Next / previous drift view"))
	b.WriteString(helpLine("j / k / pgup / pgdn", "Scroll"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Actions"))
	b.WriteString("\n")
	b.WriteString(helpLine("c", "Copy the view's Mermaid to the clipboard"))
	b.WriteString(helpLine("r", "Check again"))
	b.WriteString(helpLine("s", "Replace the plan with the workspace"))
	b.WriteString(helpLine("e", "Edit the plan document"))
	b.WriteString(helpLine("g", "Generate a plan from a description"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Legend"))
	b.WriteString("\n")
	b.WriteString("  " + styles.NodeMatched.Render("matched") + styles.HelpDesc.Render("    planned and on disk") + "\n")
	b.WriteString("  " + styles.NodeMissing.Render("missing") + styles.HelpDesc.Render("    planned, not on disk") + "\n")
	b.WriteString("  " + styles.NodeUntracked.Render("untracked") + styles.HelpDesc.Render("  on disk, not planned") + "\n")
	b.WriteString("\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 22)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
