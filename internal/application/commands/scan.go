package commands

import (
	"context"
	"fmt"

	"driftmap/internal/domain"
	"driftmap/internal/ports"
)

// ScanResult is the workspace as a structure, diagram and outline
type ScanResult struct {
	Structure domain.Structure
	Mermaid   string
	Tree      string
}

// ScanCommand scans the workspace without touching the plan
type ScanCommand struct {
	scanner ports.TreeScanner
}

// NewScanCommand creates a new ScanCommand
func NewScanCommand(scanner ports.TreeScanner) *ScanCommand {
	return &ScanCommand{scanner: scanner}
}

// Execute runs the scan
func (c *ScanCommand) Execute(ctx context.Context) (*ScanResult, error) {
	s, err := c.scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan workspace: %w", err)
	}
	return &ScanResult{
		Structure: s,
		Mermaid:   domain.RenderPlan(s),
		Tree:      domain.FormatTree(s),
	}, nil
}
