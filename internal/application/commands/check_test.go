package commands

import (
	"context"
	"errors"
	"testing"

	"driftmap/internal/application"
	"driftmap/internal/domain"
)

func TestCheckDriftCommand_Execute(t *testing.T) {
	planned := tree("folder:/src", "file:/src/main.go", "file:/README.md")

	tests := []struct {
		name      string
		plan      *domain.Plan
		actual    domain.Structure
		wantState domain.DriftState
		wantViews int
		wantFound bool
	}{
		{
			name:      "in sync",
			plan:      domain.NewPlan(planned),
			actual:    planned,
			wantState: domain.StateAllMatched,
			wantViews: 0,
			wantFound: true,
		},
		{
			name:      "missing file",
			plan:      domain.NewPlan(planned),
			actual:    tree("folder:/src", "file:/src/main.go"),
			wantState: domain.StateMissing,
			wantViews: 1,
			wantFound: true,
		},
		{
			name:      "untracked file",
			plan:      domain.NewPlan(planned),
			actual:    tree("folder:/src", "file:/src/main.go", "file:/README.md", "file:/go.mod"),
			wantState: domain.StateUntracked,
			wantViews: 1,
			wantFound: true,
		},
		{
			name:      "mixed",
			plan:      domain.NewPlan(planned),
			actual:    tree("folder:/src", "file:/src/main.go", "file:/go.mod"),
			wantState: domain.StateMixed,
			wantViews: 2,
			wantFound: true,
		},
		{
			name:      "no plan yet",
			plan:      nil,
			actual:    tree("file:/main.go"),
			wantState: domain.StateUntracked,
			wantViews: 1,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewCheckDriftCommand(&fakeStore{plan: tt.plan}, &fakeScanner{structure: tt.actual}, nil)
			result, err := cmd.Execute(context.Background())
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if result.Report.State != tt.wantState {
				t.Errorf("state = %v, want %v", result.Report.State, tt.wantState)
			}
			if len(result.Report.Views) != tt.wantViews {
				t.Errorf("views = %d, want %d", len(result.Report.Views), tt.wantViews)
			}
			if result.PlanFound != tt.wantFound {
				t.Errorf("PlanFound = %v, want %v", result.PlanFound, tt.wantFound)
			}
			if result.Session == nil || result.Session.ID == "" {
				t.Error("expected a session with an id")
			}
			if result.Report.Message == "" {
				t.Error("expected a message")
			}
		})
	}
}

func TestCheckDriftCommand_FreshSessionPerCheck(t *testing.T) {
	planned := tree("file:/a.go", "file:/b.go")
	store := &fakeStore{plan: domain.NewPlan(planned)}
	scanner := &fakeScanner{structure: tree("file:/a.go")}
	cmd := NewCheckDriftCommand(store, scanner, nil)

	first, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	second, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if first.Session.ID == second.Session.ID {
		t.Error("expected a new session for every check")
	}
	// The missing notice appears on every check, not only the first
	if !contains(second.Report.Message, "/b.go") {
		t.Errorf("second check should explain missing items, got %q", second.Report.Message)
	}
}

func TestCheckDriftCommand_Errors(t *testing.T) {
	loadErr := errors.New("disk on fire")
	scanErr := errors.New("permission denied")

	t.Run("load failure", func(t *testing.T) {
		cmd := NewCheckDriftCommand(&fakeStore{loadErr: loadErr}, &fakeScanner{}, nil)
		_, err := cmd.Execute(context.Background())
		var storeErr *application.StoreError
		if !errors.As(err, &storeErr) || !errors.Is(err, loadErr) {
			t.Errorf("expected wrapped StoreError, got %v", err)
		}
	})

	t.Run("scan failure", func(t *testing.T) {
		cmd := NewCheckDriftCommand(&fakeStore{}, &fakeScanner{err: scanErr}, nil)
		if _, err := cmd.Execute(context.Background()); !errors.Is(err, scanErr) {
			t.Errorf("expected scan error, got %v", err)
		}
	})
}

func TestCheckDriftCommand_DuplicateWarnings(t *testing.T) {
	planned := tree("file:/a.go")
	planned.Nodes = append(planned.Nodes, domain.Node{ID: "dup", Label: "A.go", Kind: domain.KindFile, Path: "/A.go", ParentID: "root"})

	cmd := NewCheckDriftCommand(&fakeStore{plan: domain.NewPlan(planned)}, &fakeScanner{structure: tree("file:/a.go")}, nil)
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(result.Warnings) != 1 || !contains(result.Warnings[0], "/a.go") {
		t.Errorf("expected one warning for /a.go, got %v", result.Warnings)
	}
	if result.Report.State != domain.StateAllMatched {
		t.Errorf("duplicates collapse to one key, got state %v", result.Report.State)
	}
}
