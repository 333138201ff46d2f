package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")

	// Drift status colors, matching the Mermaid classDefs
	MatchedColor   = Secondary
	MissingColor   = Error
	UntrackedColor = Warning

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Node styles by drift status
	NodeMatched = lipgloss.NewStyle().
			Foreground(MatchedColor)

	NodeMissing = lipgloss.NewStyle().
			Foreground(MissingColor).
			Bold(true)

	NodeUntracked = lipgloss.NewStyle().
			Foreground(UntrackedColor).
			Italic(true)

	// View tabs
	TabActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true).
			Padding(0, 1)

	TabInactive = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1)

	// Mermaid source block
	Diagram = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(Muted).
		PaddingLeft(1)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	WarningMsg = lipgloss.NewStyle().
			Foreground(Warning)

	Spinner = lipgloss.NewStyle().
		Foreground(Primary)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// StatusStyle returns the node style for a drift status name
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "missing":
		return NodeMissing
	case "untracked":
		return NodeUntracked
	default:
		return NodeMatched
	}
}
