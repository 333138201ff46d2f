package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"driftmap/internal/adapters/filesystem"
	"driftmap/internal/adapters/tui/views"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	root := t.TempDir()
	return NewApp(Deps{
		Store:   filesystem.NewPlanStore(filepath.Join(root, ".driftmap", "plan.json")),
		Scanner: filesystem.NewScanner(root),
	})
}

func TestApp_ViewSwitching(t *testing.T) {
	a := newTestApp(t)

	a.Update(views.SwitchToHelpMsg{})
	if a.state != ViewHelp {
		t.Fatalf("expected help view, got %v", a.state)
	}
	if !strings.Contains(a.View(), "driftmap help") {
		t.Error("expected the help screen")
	}

	a.Update(views.SwitchToDriftMsg{})
	if a.state != ViewDrift {
		t.Errorf("expected drift view, got %v", a.state)
	}
}

func TestApp_GenerateWithoutGenerator(t *testing.T) {
	a := newTestApp(t)

	a.Update(views.SwitchToGenerateMsg{})
	if a.state != ViewDrift {
		t.Errorf("expected to stay on the drift view, got %v", a.state)
	}
	if !a.drift.MessageErr || !strings.Contains(a.drift.Message, "generator") {
		t.Errorf("expected a generator error, got %q", a.drift.Message)
	}
}

func TestApp_EditorFailure(t *testing.T) {
	a := newTestApp(t)
	a.state = ViewHelp

	_, cmd := a.Update(editorFinishedMsg{err: errors.New("exit status 1")})
	if cmd != nil {
		t.Error("a failed edit should not recheck")
	}
	if a.state != ViewDrift || !strings.Contains(a.drift.Message, "exit status 1") {
		t.Errorf("expected the editor error on the drift view, got %q", a.drift.Message)
	}
}
