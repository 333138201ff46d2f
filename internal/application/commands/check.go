package commands

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"driftmap/internal/application"
	"driftmap/internal/domain"
	"driftmap/internal/logging"
	"driftmap/internal/ports"
)

// CheckDriftResult contains the outcome of one drift check
type CheckDriftResult struct {
	Report    domain.DriftReport
	Drift     domain.DriftResult
	Session   *domain.CheckSession
	PlanFound bool

	// Plan is the saved plan the check ran against, nil if none exists
	Plan *domain.Plan

	// Warnings lists paths that occur more than once in the plan or on disk
	Warnings []string
}

// CheckDriftCommand compares the saved plan with the workspace on disk
type CheckDriftCommand struct {
	store   ports.PlanStore
	scanner ports.TreeScanner
	logger  *slog.Logger
}

// NewCheckDriftCommand creates a new CheckDriftCommand
func NewCheckDriftCommand(store ports.PlanStore, scanner ports.TreeScanner, logger *slog.Logger) *CheckDriftCommand {
	return &CheckDriftCommand{
		store:   store,
		scanner: scanner,
		logger:  logging.OrDiscard(logger),
	}
}

// Execute loads the plan and scans the workspace concurrently, then
// classifies and assembles the report with a fresh session. A missing plan
// is treated as an empty one; load and scan failures are returned.
func (c *CheckDriftCommand) Execute(ctx context.Context) (*CheckDriftResult, error) {
	var (
		plan   *domain.Plan
		actual domain.Structure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.store.Load(gctx)
		if err != nil {
			return &application.StoreError{Op: "load", Location: c.store.Location(), Err: err}
		}
		plan = p
		return nil
	})
	g.Go(func() error {
		s, err := c.scanner.Scan(gctx)
		if err != nil {
			return fmt.Errorf("failed to scan workspace: %w", err)
		}
		actual = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var planned domain.Structure
	if plan != nil {
		planned = plan.JSONStructure
	}

	drift := domain.CalculateDrift(planned.Nodes, actual.Nodes)
	session := domain.NewCheckSession()
	report := domain.AssembleDrift(drift, planned.Edges, session)

	result := &CheckDriftResult{
		Report:    report,
		Drift:     drift,
		Session:   session,
		PlanFound: plan != nil,
		Plan:      plan,
	}
	for _, p := range domain.DuplicatePaths(planned.Nodes) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("plan lists %s more than once; the last entry wins", p))
	}
	for _, p := range domain.DuplicatePaths(actual.Nodes) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("workspace has %s more than once; the last entry wins", p))
	}
	for _, w := range result.Warnings {
		c.logger.Warn("duplicate path", "detail", w)
	}

	c.logger.Info("drift checked",
		"session", session.ID,
		"state", report.State.String(),
		"matched", len(drift.Matched),
		"missing", len(drift.Missing),
		"untracked", len(drift.Untracked),
	)
	return result, nil
}
