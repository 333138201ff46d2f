package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"driftmap/internal/application/commands"
	"driftmap/internal/domain"
	"driftmap/internal/ports"
)

// Deps are the collaborators the tools run against
type Deps struct {
	Store     ports.PlanStore
	Scanner   ports.TreeScanner
	Generator ports.DiagramGenerator
	Logger    *slog.Logger
}

// RegisterTools adds all drift tools to the MCP server.
func RegisterTools(s *server.MCPServer, deps Deps) {
	s.AddTool(checkDriftTool(), checkDriftHandler(deps))
	s.AddTool(scanTool(), scanHandler(deps))
	s.AddTool(renderTool(), renderHandler(deps))
	s.AddTool(syncTool(), syncHandler(deps))
	s.AddTool(historyTool(), historyHandler(deps))
	if deps.Generator != nil {
		s.AddTool(generateTool(), generateHandler(deps))
	}
}

// --- check_drift ---

func checkDriftTool() mcp.Tool {
	return mcp.NewTool("check_drift",
		mcp.WithDescription("Compare the saved plan with the workspace on disk. Reports missing and untracked items with Mermaid diagrams highlighting them."),
		mcp.WithString("format",
			mcp.Description("Output format: text (message and diagrams) or json (full report)"),
			mcp.Enum("text", "json"),
		),
	)
}

func checkDriftHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewCheckDriftCommand(deps.Store, deps.Scanner, deps.Logger).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if req.GetString("format", "text") == "json" {
			return jsonResult(result.Report)
		}

		var b strings.Builder
		b.WriteString(result.Report.Message)
		b.WriteString("\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "warning: %s\n", w)
		}
		for _, v := range result.Report.Views {
			fmt.Fprintf(&b, "\n## %s\n\n```mermaid\n%s```\n", v.Title, v.Payload.MermaidSyntax)
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

// --- scan_workspace ---

func scanTool() mcp.Tool {
	return mcp.NewTool("scan_workspace",
		mcp.WithDescription("Scan the workspace (honoring ignore rules) and return its tree as an outline and a Mermaid diagram. Does not change the plan."),
	)
}

func scanHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewScanCommand(deps.Scanner).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s\n```mermaid\n%s```\n", result.Tree, result.Mermaid)), nil
	}
}

// --- render_plan ---

func renderTool() mcp.Tool {
	return mcp.NewTool("render_plan",
		mcp.WithDescription("Regenerate the Mermaid diagram of the saved plan from its structure."),
		mcp.WithBoolean("write",
			mcp.Description("Store the regenerated diagram if the saved one is out of date"),
		),
	)
}

func renderHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		write := req.GetBool("write", false)

		result, err := commands.NewRenderPlanCommand(deps.Store, write, deps.Logger).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		note := "saved diagram is up to date"
		switch {
		case result.Written:
			note = "saved diagram was out of date and has been replaced"
		case result.Stale:
			note = "saved diagram is out of date"
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s\n\n```mermaid\n%s```\n", note, result.Mermaid)), nil
	}
}

// --- sync_plan ---

func syncTool() mcp.Tool {
	return mcp.NewTool("sync_plan",
		mcp.WithDescription("Replace the saved plan with the current workspace structure. Destructive: planned items that do not exist are dropped."),
	)
}

func syncHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewSyncPlanCommand(deps.Store, deps.Scanner, deps.Logger).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Saved plan with %d nodes and %d edges to %s", result.Nodes, result.Edges, result.Location)), nil
	}
}

// --- plan_history ---

func historyTool() mcp.Tool {
	return mcp.NewTool("plan_history",
		mcp.WithDescription("List saved plan revisions, newest first, or restore one as the current plan. Only the sqlite store keeps history."),
		mcp.WithNumber("restore",
			mcp.Description("Revision id to restore"),
		),
	)
}

func historyHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if id := req.GetInt("restore", 0); id != 0 {
			plan, err := commands.NewRestoreRevisionCommand(deps.Store, int64(id), deps.Logger).Execute(ctx)
			if err != nil {
				return toolError(err)
			}
			return mcp.NewToolResultText(fmt.Sprintf("Restored revision %d with %d nodes", id, len(plan.JSONStructure.Nodes))), nil
		}

		revisions, err := commands.NewHistoryCommand(deps.Store).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(revisions) == 0 {
			return mcp.NewToolResultText("No saved revisions"), nil
		}
		var b strings.Builder
		for _, r := range revisions {
			fmt.Fprintf(&b, "%d\t%s\t%d nodes, %d edges\n", r.ID, r.SavedAt.UTC().Format(time.RFC3339), r.NodeCount, r.EdgeCount)
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

// --- generate_plan ---

func generateTool() mcp.Tool {
	return mcp.NewTool("generate_plan",
		mcp.WithDescription("Ask the diagram generator for a project structure from a description. The answer may be a question instead of a diagram."),
		mcp.WithString("prompt",
			mcp.Description("What the project should look like"),
			mcp.Required(),
		),
		mcp.WithBoolean("save",
			mcp.Description("Save a generated diagram as the new plan"),
		),
	)
}

func generateHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		prompt := req.GetString("prompt", "")
		save := req.GetBool("save", false)

		cmd := commands.NewGeneratePlanCommand(deps.Generator, deps.Scanner, deps.Store, prompt, save, deps.Logger)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if result.Plan == nil {
			return mcp.NewToolResultText(result.Message), nil
		}

		status := "not saved"
		if result.Saved {
			status = "saved"
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s (%s)\n\n%s\n```mermaid\n%s```\n",
			result.Message, status, domain.FormatTree(result.Plan.JSONStructure), result.Plan.MermaidSyntax)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(fmt.Errorf("failed to encode result: %w", err))
	}
	return mcp.NewToolResultText(string(data)), nil
}
