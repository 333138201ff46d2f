package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"driftmap/internal/application"
	"driftmap/internal/domain"
	"driftmap/internal/ports"
)

func TestHistoryCommand_Execute(t *testing.T) {
	store := &historyStore{revisions: []ports.PlanRevision{
		{ID: 2, SavedAt: time.Unix(200, 0), NodeCount: 3, EdgeCount: 2},
		{ID: 1, SavedAt: time.Unix(100, 0), NodeCount: 1},
	}}

	revs, err := NewHistoryCommand(store).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(revs) != 2 || revs[0].ID != 2 {
		t.Errorf("unexpected revisions %+v", revs)
	}

	if _, err := NewHistoryCommand(&fakeStore{}).Execute(context.Background()); !errors.Is(err, application.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported for a store without history, got %v", err)
	}
}

func TestRestoreRevisionCommand_Execute(t *testing.T) {
	old := tree("file:/legacy.go")
	store := &historyStore{byID: map[int64]*domain.Plan{
		1: {MermaidSyntax: "stale", JSONStructure: old},
	}}

	plan, err := NewRestoreRevisionCommand(store, 1, nil).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if plan.MermaidSyntax != domain.RenderPlan(old) {
		t.Error("restored plan should carry regenerated Mermaid")
	}
	if len(store.saved) != 1 {
		t.Errorf("expected one save, got %d", len(store.saved))
	}
}

func TestRestoreRevisionCommand_Errors(t *testing.T) {
	store := &historyStore{byID: map[int64]*domain.Plan{}}

	tests := []struct {
		name    string
		store   ports.PlanStore
		id      int64
		wantErr error
	}{
		{name: "unknown revision", store: store, id: 7, wantErr: application.ErrNotFound},
		{name: "no history", store: &fakeStore{}, id: 1, wantErr: application.ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRestoreRevisionCommand(tt.store, tt.id, nil).Execute(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	var verr *application.ValidationError
	if _, err := NewRestoreRevisionCommand(store, 0, nil).Execute(context.Background()); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}
