package ports

import "os/exec"

// EditorOpener opens the plan document for manual editing
type EditorOpener interface {
	// Command builds the editor process for path without starting it,
	// so the TUI can hand the terminal over with tea.ExecProcess
	Command(path string) (*exec.Cmd, error)

	// OpenFile runs the editor on path and waits for it to exit
	OpenFile(path string) error
}
