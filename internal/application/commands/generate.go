package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"driftmap/internal/application"
	"driftmap/internal/domain"
	"driftmap/internal/logging"
	"driftmap/internal/ports"
)

// GeneratePlanResult contains the generator's answer
type GeneratePlanResult struct {
	Type    ports.ResponseType
	Message string

	// Plan is set for DIAGRAM answers; its Mermaid is regenerated locally
	Plan    *domain.Plan
	Scanned bool
	Saved   bool
}

// GeneratePlanCommand asks the diagram generator for a plan
type GeneratePlanCommand struct {
	generator ports.DiagramGenerator
	scanner   ports.TreeScanner
	store     ports.PlanStore
	logger    *slog.Logger
	Prompt    string
	Save      bool
}

// NewGeneratePlanCommand creates a new GeneratePlanCommand
func NewGeneratePlanCommand(generator ports.DiagramGenerator, scanner ports.TreeScanner, store ports.PlanStore, prompt string, save bool, logger *slog.Logger) *GeneratePlanCommand {
	return &GeneratePlanCommand{
		generator: generator,
		scanner:   scanner,
		store:     store,
		logger:    logging.OrDiscard(logger),
		Prompt:    prompt,
		Save:      save,
	}
}

// Validate checks the prompt
func (c *GeneratePlanCommand) Validate() error {
	if err := application.ValidateRequired("prompt", c.Prompt); err != nil {
		return err
	}
	return application.ValidateMaxLength("prompt", c.Prompt, application.MaxPromptLength)
}

// Execute asks the generator. A TRIGGER_SCAN answer causes one scan and one
// follow-up request carrying the workspace outline. A DIAGRAM answer must
// satisfy the tree contract before it becomes a plan.
func (c *GeneratePlanCommand) Execute(ctx context.Context) (*GeneratePlanResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !c.generator.IsAvailable() {
		return nil, application.ErrUnavailable
	}

	req := ports.GenerateRequest{Prompt: c.Prompt}
	if c.store != nil {
		current, err := c.store.Load(ctx)
		if err != nil {
			return nil, &application.StoreError{Op: "load", Location: c.store.Location(), Err: err}
		}
		if current != nil {
			req.CurrentPlan = domain.FormatTree(current.JSONStructure)
		}
	}

	resp, err := c.generator.Generate(ctx, req)
	if err != nil {
		return nil, &application.GenerationError{Stage: "request", Err: err}
	}

	result := &GeneratePlanResult{}
	if resp.Type == ports.ResponseTriggerScan {
		c.logger.Debug("generator requested a scan", "reason", resp.Message)

		actual, err := c.scanner.Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		result.Scanned = true
		req.WorkspaceTree = domain.FormatTree(actual)

		resp, err = c.generator.Generate(ctx, req)
		if err != nil {
			return nil, &application.GenerationError{Stage: "request", Err: err}
		}
		if resp.Type == ports.ResponseTriggerScan {
			return nil, &application.GenerationError{
				Stage: "response",
				Err:   errors.New("generator asked for another scan after receiving the workspace"),
			}
		}
	}

	result.Type = resp.Type
	result.Message = resp.Message

	switch resp.Type {
	case ports.ResponseText:
		return result, nil
	case ports.ResponseDiagram:
		if resp.Structure == nil {
			return nil, &application.GenerationError{Stage: "response", Err: errors.New("diagram without structure")}
		}
		if err := domain.ValidateTree(*resp.Structure); err != nil {
			return nil, &application.GenerationError{Stage: "validate", Err: err}
		}
		result.Plan = domain.NewPlan(*resp.Structure)
	default:
		return nil, &application.GenerationError{
			Stage: "response",
			Err:   fmt.Errorf("unexpected response type %q", resp.Type),
		}
	}

	if c.Save {
		if c.store == nil {
			return nil, fmt.Errorf("cannot save: %w", application.ErrUnsupported)
		}
		if err := c.store.Save(ctx, result.Plan); err != nil {
			return nil, &application.StoreError{Op: "save", Location: c.store.Location(), Err: err}
		}
		result.Saved = true
	}

	c.logger.Info("plan generated",
		"nodes", len(result.Plan.JSONStructure.Nodes),
		"scanned", result.Scanned,
		"saved", result.Saved,
	)
	return result, nil
}
