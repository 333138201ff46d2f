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

// SyncPlanResult contains the result of replacing the plan with the workspace
type SyncPlanResult struct {
	Plan     *domain.Plan
	Nodes    int
	Edges    int
	Location string
}

// SyncPlanCommand makes the saved plan match the workspace on disk
type SyncPlanCommand struct {
	store   ports.PlanStore
	scanner ports.TreeScanner
	logger  *slog.Logger
}

// NewSyncPlanCommand creates a new SyncPlanCommand
func NewSyncPlanCommand(store ports.PlanStore, scanner ports.TreeScanner, logger *slog.Logger) *SyncPlanCommand {
	return &SyncPlanCommand{
		store:   store,
		scanner: scanner,
		logger:  logging.OrDiscard(logger),
	}
}

// Execute scans the workspace and saves it as the new plan
func (c *SyncPlanCommand) Execute(ctx context.Context) (*SyncPlanResult, error) {
	actual, err := c.scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan workspace: %w", err)
	}

	plan := domain.NewPlan(actual)
	if err := c.store.Save(ctx, plan); err != nil {
		return nil, &application.StoreError{Op: "save", Location: c.store.Location(), Err: err}
	}

	c.logger.Info("plan synced",
		"location", c.store.Location(),
		"nodes", len(actual.Nodes),
		"edges", len(actual.Edges),
	)
	return &SyncPlanResult{
		Plan:     plan,
		Nodes:    len(actual.Nodes),
		Edges:    len(actual.Edges),
		Location: c.store.Location(),
	}, nil
}
