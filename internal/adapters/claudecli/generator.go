package claudecli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"driftmap/internal/domain"
	"driftmap/internal/ports"
)

// Generator implements ports.DiagramGenerator using Claude Code CLI
type Generator struct {
	model string
	run   runner
}

// Ensure Generator implements DiagramGenerator
var _ ports.DiagramGenerator = (*Generator)(nil)

// runner executes the CLI and returns its stdout
type runner func(ctx context.Context, args ...string) ([]byte, error)

// Option configures the Generator
type Option func(*Generator)

// WithModel sets the Claude model to use
func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// NewGenerator creates a new Claude CLI diagram generator
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		model: "haiku", // Default to haiku for speed
		run:   runClaude,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func runClaude(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "claude", args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("claude CLI error: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("claude CLI error: %w", err)
	}
	return output, nil
}

// claudeResponse represents the JSON output from claude CLI
type claudeResponse struct {
	Type         string  `json:"type"`
	Subtype      string  `json:"subtype"`
	DurationMS   int     `json:"duration_ms"`
	IsError      bool    `json:"is_error"`
	NumTurns     int     `json:"num_turns"`
	Result       string  `json:"result"`
	SessionID    string  `json:"session_id"`
	TotalCostUSD float64 `json:"total_cost_usd"`
}

// contractJSON is the reply format the prompt asks for
type contractJSON struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Data    *struct {
		MermaidSyntax string            `json:"mermaidSyntax"`
		JSONStructure *domain.Structure `json:"jsonStructure"`
	} `json:"data"`
}

// Generate asks Claude for a project structure
func (g *Generator) Generate(ctx context.Context, req ports.GenerateRequest) (*ports.GenerateResponse, error) {
	args := []string{
		"-p", buildPrompt(req),
		"--output-format", "json",
		"--model", g.model,
	}

	output, err := g.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	var response claudeResponse
	if err := json.Unmarshal(output, &response); err != nil {
		return nil, fmt.Errorf("failed to parse claude response: %w", err)
	}
	if response.IsError {
		return nil, fmt.Errorf("claude returned an error: %s", response.Result)
	}

	return parseResponse(response.Result)
}

// IsAvailable checks if the claude CLI is installed and accessible
func (g *Generator) IsAvailable() bool {
	_, err := exec.LookPath("claude")
	return err == nil
}

func buildPrompt(req ports.GenerateRequest) string {
	var extra strings.Builder
	if req.CurrentPlan != "" {
		extra.WriteString("\nCurrently saved plan:\n")
		extra.WriteString(req.CurrentPlan)
		extra.WriteString("\n")
	}
	if req.WorkspaceTree != "" {
		extra.WriteString("\nCurrent workspace on disk:\n")
		extra.WriteString(req.WorkspaceTree)
		extra.WriteString("\n")
	} else {
		extra.WriteString("\nThe workspace has not been scanned. If you need to see it, answer with type TRIGGER_SCAN.\n")
	}

	return fmt.Sprintf(`You are planning the folder and file layout of a software project.

User's request: "%s"
%s
Answer with ONLY a JSON object (no markdown, no code blocks) of one of these forms:

{"type": "TEXT", "message": "a plain answer or a clarifying question"}
{"type": "TRIGGER_SCAN", "message": "why you need to see the workspace"}
{"type": "DIAGRAM", "message": "short summary", "data": {"jsonStructure": {
  "nodes": [
    {"id": "root", "label": "my-app", "type": "folder", "path": "/", "parentId": null},
    {"id": "src", "label": "src", "type": "folder", "path": "/src", "parentId": "root"},
    {"id": "src_main_go", "label": "main.go", "type": "file", "path": "/src/main.go", "parentId": "src"}
  ],
  "edges": [
    {"source": "root", "target": "src"},
    {"source": "src", "target": "src_main_go"}
  ]
}}}

Rules for DIAGRAM:
- exactly one root node with id "root" and parentId null
- every other node has exactly one incoming edge, from its parentId
- there are exactly (number of nodes - 1) edges
- ids are unique and contain only letters, digits and underscores
- paths start with "/" and use forward slashes`, req.Prompt, extra.String())
}

var codeBlockRe = regexp.MustCompile("```(?:json)?\\s*\\n?([\\s\\S]*?)\\n?```")

// parseResponse extracts the contract object from Claude's response text
func parseResponse(result string) (*ports.GenerateResponse, error) {
	result = strings.TrimSpace(result)

	// Try to extract JSON from markdown code blocks if present
	if matches := codeBlockRe.FindStringSubmatch(result); len(matches) > 1 {
		result = strings.TrimSpace(matches[1])
	}

	// Find JSON object in the text (handles surrounding text)
	start := strings.Index(result, "{")
	end := strings.LastIndex(result, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no valid JSON object found in response")
	}
	jsonStr := result[start : end+1]

	var raw contractJSON
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w (json: %s)", err, jsonStr)
	}

	resp := &ports.GenerateResponse{
		Type:    ports.ResponseType(strings.ToUpper(strings.TrimSpace(raw.Type))),
		Message: raw.Message,
	}

	switch resp.Type {
	case ports.ResponseText, ports.ResponseTriggerScan:
		return resp, nil
	case ports.ResponseDiagram:
		if raw.Data == nil || raw.Data.JSONStructure == nil {
			return nil, fmt.Errorf("DIAGRAM response has no data.jsonStructure")
		}
		resp.Structure = raw.Data.JSONStructure
		return resp, nil
	default:
		return nil, fmt.Errorf("unknown response type %q", raw.Type)
	}
}
