package commands

import (
	"context"
	"errors"
	"testing"

	"driftmap/internal/application"
	"driftmap/internal/domain"
)

func TestSyncPlanCommand_Execute(t *testing.T) {
	actual := tree("folder:/src", "file:/src/main.go")
	store := &fakeStore{plan: domain.NewPlan(tree("file:/old.go"))}

	result, err := NewSyncPlanCommand(store, &fakeScanner{structure: actual}, nil).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Nodes != 3 || result.Edges != 2 {
		t.Errorf("got %d nodes %d edges, want 3/2", result.Nodes, result.Edges)
	}
	if result.Location != "memory" {
		t.Errorf("Location = %q", result.Location)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(store.saved))
	}
	if store.saved[0].MermaidSyntax != domain.RenderPlan(actual) {
		t.Error("saved plan should carry regenerated Mermaid")
	}

	// A check right after a sync finds no drift
	check, err := NewCheckDriftCommand(store, &fakeScanner{structure: actual}, nil).Execute(context.Background())
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if check.Report.State != domain.StateAllMatched {
		t.Errorf("state after sync = %v, want all matched", check.Report.State)
	}
}

func TestSyncPlanCommand_Errors(t *testing.T) {
	scanErr := errors.New("scan failed")
	if _, err := NewSyncPlanCommand(&fakeStore{}, &fakeScanner{err: scanErr}, nil).Execute(context.Background()); !errors.Is(err, scanErr) {
		t.Errorf("expected scan error, got %v", err)
	}

	saveErr := errors.New("read-only")
	store := &fakeStore{saveErr: saveErr}
	_, err := NewSyncPlanCommand(store, &fakeScanner{structure: tree()}, nil).Execute(context.Background())
	var storeErr *application.StoreError
	if !errors.As(err, &storeErr) || storeErr.Op != "save" {
		t.Errorf("expected save StoreError, got %v", err)
	}
}
