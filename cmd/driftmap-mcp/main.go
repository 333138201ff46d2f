package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "driftmap/internal/adapters/mcp"
	"driftmap/internal/bootstrap"
	"driftmap/internal/config"
)

func main() {
	workspaceFlag := flag.String("workspace", config.WorkspacePath(), "workspace directory to check")
	configFlag := flag.String("config", "", "config file (default <workspace>/.driftmap/config.yaml)")
	storeFlag := flag.String("store", "", "plan store: file or sqlite")
	flag.Parse()

	// stdout carries the protocol; logs go to stderr
	rt, err := bootstrap.Open(bootstrap.Options{
		Workspace:  *workspaceFlag,
		ConfigPath: *configFlag,
		Store:      *storeFlag,
	})
	if err != nil {
		log.Fatalf("driftmap-mcp: %v", err)
	}
	defer rt.Close()

	mcpServer := server.NewMCPServer(
		"driftmap-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterTools(mcpServer, mcpadapter.Deps{
		Store:     rt.Store,
		Scanner:   rt.Scanner,
		Generator: rt.Generator,
		Logger:    rt.Logger,
	})

	rt.Logger.Info("serving MCP on stdio", "workspace", rt.Config.Workspace)
	if err := server.ServeStdio(mcpServer); err != nil {
		rt.Logger.Error("server stopped", "error", err)
		rt.Close()
		log.Fatalf("driftmap-mcp: %v", err)
	}
}
