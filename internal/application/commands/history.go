package commands

import (
	"context"
	"fmt"
	"log/slog"

	"driftmap/internal/application"
	"driftmap/internal/domain"
	"driftmap/internal/logging"
	"driftmap/internal/ports"
)

// historyOf returns the store's revision history, if it keeps one
func historyOf(store ports.PlanStore) (ports.PlanHistory, error) {
	h, ok := store.(ports.PlanHistory)
	if !ok {
		return nil, fmt.Errorf("%s keeps no history: %w", store.Location(), application.ErrUnsupported)
	}
	return h, nil
}

// HistoryCommand lists saved plan revisions
type HistoryCommand struct {
	store ports.PlanStore
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(store ports.PlanStore) *HistoryCommand {
	return &HistoryCommand{store: store}
}

// Execute returns revisions newest first. Returns ErrUnsupported for stores
// without history.
func (c *HistoryCommand) Execute(ctx context.Context) ([]ports.PlanRevision, error) {
	h, err := historyOf(c.store)
	if err != nil {
		return nil, err
	}
	return h.ListRevisions(ctx)
}

// RestoreRevisionCommand saves an old revision as the newest plan
type RestoreRevisionCommand struct {
	store      ports.PlanStore
	logger     *slog.Logger
	RevisionID int64
}

// NewRestoreRevisionCommand creates a new RestoreRevisionCommand
func NewRestoreRevisionCommand(store ports.PlanStore, revisionID int64, logger *slog.Logger) *RestoreRevisionCommand {
	return &RestoreRevisionCommand{
		store:      store,
		logger:     logging.OrDiscard(logger),
		RevisionID: revisionID,
	}
}

// Validate checks the revision id
func (c *RestoreRevisionCommand) Validate() error {
	if c.RevisionID <= 0 {
		return &application.ValidationError{
			Field:   "revisionID",
			Message: "revision ID must be positive",
		}
	}
	return nil
}

// Execute loads the revision and saves it again with its Mermaid regenerated
func (c *RestoreRevisionCommand) Execute(ctx context.Context) (*domain.Plan, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	h, err := historyOf(c.store)
	if err != nil {
		return nil, err
	}

	old, err := h.LoadRevision(ctx, c.RevisionID)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, fmt.Errorf("revision %d: %w", c.RevisionID, application.ErrNotFound)
	}

	plan := domain.NewPlan(old.JSONStructure)
	if err := c.store.Save(ctx, plan); err != nil {
		return nil, &application.StoreError{Op: "save", Location: c.store.Location(), Err: err}
	}
	c.logger.Info("revision restored", "revision", c.RevisionID)
	return plan, nil
}
