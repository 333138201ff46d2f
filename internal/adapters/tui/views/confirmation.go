package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"driftmap/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation prompts
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmationModel is an inline yes/no prompt for destructive actions
type ConfirmationModel struct {
	Question string
	Active   bool
	Keys     ConfirmKeyMap
}

// NewConfirmationModel creates a new confirmation model with default keys
func NewConfirmationModel(question string) ConfirmationModel {
	return ConfirmationModel{
		Question: question,
		Keys:     DefaultConfirmKeys,
	}
}

// Ask shows the prompt
func (m *ConfirmationModel) Ask() {
	m.Active = true
}

// HandleKeyMsg processes key messages while the prompt is shown.
// Returns (handled, cmd) where handled is true if the key was processed.
// Any key other than confirm cancels.
func (m *ConfirmationModel) HandleKeyMsg(msg tea.KeyMsg, onConfirm, onCancel func() tea.Msg) (bool, tea.Cmd) {
	if !m.Active {
		return false, nil
	}
	m.Active = false
	if key.Matches(msg, m.Keys.Confirm) {
		return true, func() tea.Msg { return onConfirm() }
	}
	return true, func() tea.Msg { return onCancel() }
}

// View renders the prompt, or nothing when inactive
func (m *ConfirmationModel) View() string {
	if !m.Active {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.WarningMsg.Render(m.Question))
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
