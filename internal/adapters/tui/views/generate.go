package views

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"driftmap/internal/adapters/tui/styles"
	"driftmap/internal/application/commands"
	"driftmap/internal/domain"
	"driftmap/internal/ports"
)

// GenerateState represents the current phase of the generate view
type GenerateState int

const (
	GenerateInput GenerateState = iota
	GenerateLoading
	GenerateResult
	GenerateError
)

// GenerateKeyMap defines key bindings for the generate view
type GenerateKeyMap struct {
	Submit key.Binding
	Save   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

var GenerateKeys = GenerateKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "ask"),
	),
	Save: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "save as plan"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// GenerateModel asks the diagram generator for a plan
type GenerateModel struct {
	ViewState
	generator ports.DiagramGenerator
	scanner   ports.TreeScanner
	store     ports.PlanStore
	logger    *slog.Logger

	state   GenerateState
	input   textinput.Model
	spinner spinner.Model
	result  *commands.GeneratePlanResult
	err     error
}

// NewGenerateModel creates a new generate view model
func NewGenerateModel(generator ports.DiagramGenerator, scanner ports.TreeScanner, store ports.PlanStore, logger *slog.Logger) *GenerateModel {
	input := textinput.New()
	input.Placeholder = "Describe the project layout..."
	input.Prompt = "> "
	input.CharLimit = 2000

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &GenerateModel{
		generator: generator,
		scanner:   scanner,
		store:     store,
		logger:    logger,
		input:     input,
		spinner:   s,
	}
}

type generateDoneMsg struct {
	result *commands.GeneratePlanResult
}

type generateErrMsg struct {
	err error
}

// Init focuses the prompt
func (m *GenerateModel) Init() tea.Cmd {
	m.state = GenerateInput
	m.input.Focus()
	return textinput.Blink
}

// Update handles messages for the generate view
func (m *GenerateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.state == GenerateLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case generateDoneMsg:
		m.result = msg.result
		m.state = GenerateResult
		return m, nil

	case generateErrMsg:
		m.err = msg.err
		m.state = GenerateError
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, GenerateKeys.Quit) {
			return m, tea.Quit
		}
		switch m.state {
		case GenerateInput:
			return m.updateInput(msg)
		case GenerateResult:
			return m.updateResult(msg)
		case GenerateError:
			m.state = GenerateInput
			return m, nil
		case GenerateLoading:
			if key.Matches(msg, GenerateKeys.Cancel) {
				return m, switchToDrift
			}
		}
	}
	return m, nil
}

func switchToDrift() tea.Msg {
	return SwitchToDriftMsg{}
}

func (m *GenerateModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, GenerateKeys.Cancel):
		return m, switchToDrift
	case key.Matches(msg, GenerateKeys.Submit):
		prompt := strings.TrimSpace(m.input.Value())
		if prompt == "" {
			return m, nil
		}
		m.state = GenerateLoading
		return m, tea.Batch(m.spinner.Tick, m.generate(prompt))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *GenerateModel) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, GenerateKeys.Save) && m.result.Plan != nil:
		plan := m.result.Plan
		return m, func() tea.Msg {
			if err := m.store.Save(context.Background(), plan); err != nil {
				return generateErrMsg{err}
			}
			return PlanChangedMsg{Message: "Generated plan saved"}
		}
	case key.Matches(msg, GenerateKeys.Cancel):
		return m, switchToDrift
	}
	// Any other key refines the prompt
	m.state = GenerateInput
	return m, nil
}

func (m *GenerateModel) generate(prompt string) tea.Cmd {
	return func() tea.Msg {
		cmd := commands.NewGeneratePlanCommand(m.generator, m.scanner, m.store, prompt, false, m.logger)
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return generateErrMsg{err}
		}
		return generateDoneMsg{result}
	}
}

// View renders the generate view
func (m *GenerateModel) View() string {
	v := NewViewBuilder().Title("Generate plan")

	switch m.state {
	case GenerateLoading:
		v.Line(m.spinner.View() + " Asking the generator...")
		v.BlankLine().Help(GenerateKeys.Cancel)

	case GenerateResult:
		v.Line(m.result.Message).BlankLine()
		if m.result.Plan != nil {
			if m.result.Scanned {
				v.Muted("(the generator looked at the workspace)")
			}
			v.Raw(styles.Diagram.Render(strings.TrimRight(domain.FormatTree(m.result.Plan.JSONStructure), "\n")))
			v.BlankLine().BlankLine().Help(GenerateKeys.Save, GenerateKeys.Cancel)
		} else {
			v.Muted("Press any key to answer").Help(GenerateKeys.Cancel)
		}

	case GenerateError:
		v.Message(m.err.Error(), true).Muted("Press any key to try again")

	default:
		v.Line(styles.InputLabel.Render("What should the project look like?"))
		v.Line(styles.InputFocused.Render(m.input.View())).BlankLine()
		v.Help(GenerateKeys.Submit, GenerateKeys.Cancel)
	}

	return v.String()
}
