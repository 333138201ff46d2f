package ports

import (
	"context"

	"driftmap/internal/domain"
)

// TreeScanner produces the actual node set of a workspace
type TreeScanner interface {
	// Scan walks the workspace, honoring ignore rules. Paths use the same
	// forward-slash virtual convention as plan nodes.
	Scan(ctx context.Context) (domain.Structure, error)

	// Root returns the directory being scanned
	Root() string
}
