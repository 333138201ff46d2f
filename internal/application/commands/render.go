package commands

import (
	"context"
	"log/slog"

	"driftmap/internal/application"
	"driftmap/internal/domain"
	"driftmap/internal/logging"
	"driftmap/internal/ports"
)

// RenderPlanResult contains the regenerated Mermaid text of the saved plan
type RenderPlanResult struct {
	Mermaid string

	// Stale is true when the stored Mermaid differed from the regenerated text
	Stale   bool
	Written bool
}

// RenderPlanCommand regenerates Mermaid from the saved plan's structure
type RenderPlanCommand struct {
	store  ports.PlanStore
	logger *slog.Logger
	Write  bool
}

// NewRenderPlanCommand creates a new RenderPlanCommand. With write set, a
// stale stored diagram is replaced.
func NewRenderPlanCommand(store ports.PlanStore, write bool, logger *slog.Logger) *RenderPlanCommand {
	return &RenderPlanCommand{
		store:  store,
		logger: logging.OrDiscard(logger),
		Write:  write,
	}
}

// Execute loads the plan and renders it. Returns ErrNoPlan when nothing was saved.
func (c *RenderPlanCommand) Execute(ctx context.Context) (*RenderPlanResult, error) {
	plan, err := c.store.Load(ctx)
	if err != nil {
		return nil, &application.StoreError{Op: "load", Location: c.store.Location(), Err: err}
	}
	if plan == nil {
		return nil, application.ErrNoPlan
	}

	mermaid := domain.RenderPlan(plan.JSONStructure)
	result := &RenderPlanResult{
		Mermaid: mermaid,
		Stale:   mermaid != plan.MermaidSyntax,
	}

	if c.Write && result.Stale {
		if err := c.store.Save(ctx, domain.NewPlan(plan.JSONStructure)); err != nil {
			return nil, &application.StoreError{Op: "save", Location: c.store.Location(), Err: err}
		}
		result.Written = true
		c.logger.Info("stored diagram refreshed", "location", c.store.Location())
	}
	return result, nil
}
