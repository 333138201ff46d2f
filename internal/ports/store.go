package ports

import (
	"context"
	"time"

	"driftmap/internal/domain"
)

// PlanStore persists the single plan document of a workspace
type PlanStore interface {
	// Load returns the saved plan, or nil with no error when none exists yet
	Load(ctx context.Context) (*domain.Plan, error)

	// Save replaces the saved plan wholesale
	Save(ctx context.Context, plan *domain.Plan) error

	// Location describes where the plan lives (file path or database)
	Location() string
}

// PlanRevision describes one saved version of a plan
type PlanRevision struct {
	ID        int64
	SavedAt   time.Time
	NodeCount int
	EdgeCount int
}

// PlanHistory is implemented by stores that keep every saved revision
type PlanHistory interface {
	// ListRevisions returns revisions newest first
	ListRevisions(ctx context.Context) ([]PlanRevision, error)

	// LoadRevision returns one revision, or nil if the id is unknown
	LoadRevision(ctx context.Context, id int64) (*domain.Plan, error)
}
