package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"driftmap/internal/ports"
)

// fallbackEditors are tried in order when neither $VISUAL nor $EDITOR is set
var fallbackEditors = []string{"nvim", "vim", "vi", "nano"}

// ErrNoEditor is returned when no editor could be determined
var ErrNoEditor = errors.New("no editor found: set $VISUAL or $EDITOR")

// Opener implements ports.EditorOpener
type Opener struct {
	getenv   func(string) string
	lookPath func(string) (string, error)
}

// Ensure Opener implements EditorOpener
var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{getenv: os.Getenv, lookPath: exec.LookPath}
}

// OpenFile opens a file in the user's preferred editor and waits for it
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for editing path, wired to the terminal.
// Editor variables may carry arguments, e.g. EDITOR="code --wait".
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	argv := o.editorArgv()
	if len(argv) == 0 {
		return nil, ErrNoEditor
	}
	if path == "" {
		return nil, fmt.Errorf("no file to edit")
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// editorArgv returns the editor command split into program and arguments
func (o *Opener) editorArgv() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(o.getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	for _, name := range fallbackEditors {
		if path, err := o.lookPath(name); err == nil {
			return []string{path}
		}
	}
	return nil
}
