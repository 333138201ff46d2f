package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"driftmap/internal/config"
	"driftmap/internal/domain"
	"driftmap/internal/ports"
)

// PlanStore implements ports.PlanStore as a single JSON document on disk
type PlanStore struct {
	path string
}

// Ensure PlanStore implements PlanStore
var _ ports.PlanStore = (*PlanStore)(nil)

// NewPlanStore creates a store for the document at path
func NewPlanStore(path string) *PlanStore {
	return &PlanStore{path: config.ExpandHome(path)}
}

// Location returns the document path
func (s *PlanStore) Location() string {
	return s.path
}

// Load reads the plan document. A missing document is not an error:
// it returns nil, nil.
func (s *PlanStore) Load(ctx context.Context) (*domain.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	var plan domain.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan %s: %w", s.path, err)
	}
	return &plan, nil
}

// Save writes the plan via a temp file and rename, so readers never see a
// partial document
func (s *PlanStore) Save(ctx context.Context, plan *domain.Plan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if plan == nil {
		return fmt.Errorf("cannot save a nil plan")
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create plan directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".plan-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write plan: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write plan: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace plan: %w", err)
	}
	return nil
}
