package ports

import (
	"context"

	"driftmap/internal/domain"
)

// ResponseType discriminates generator responses
type ResponseType string

const (
	ResponseText        ResponseType = "TEXT"
	ResponseDiagram     ResponseType = "DIAGRAM"
	ResponseTriggerScan ResponseType = "TRIGGER_SCAN"
)

// GenerateRequest is a natural-language request for a project diagram
type GenerateRequest struct {
	Prompt string

	// WorkspaceTree is an outline of the current workspace, set when the
	// generator asked for a scan
	WorkspaceTree string

	// CurrentPlan is the saved plan outline, if any
	CurrentPlan string
}

// GenerateResponse is what the generator returned
type GenerateResponse struct {
	Type    ResponseType
	Message string

	// Structure is set only for DIAGRAM responses
	Structure *domain.Structure
}

// DiagramGenerator turns prompts into plan structures
type DiagramGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable returns true if the backend (e.g., Claude CLI) is available
	IsAvailable() bool
}
