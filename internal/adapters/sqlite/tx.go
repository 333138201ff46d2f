package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"driftmap/internal/domain"
)

// revisionTx writes one plan revision atomically
type revisionTx struct {
	tx *sql.Tx
}

func (s *Store) begin(ctx context.Context) (*revisionTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &revisionTx{tx: tx}, nil
}

// InsertRevision creates the revision row and returns its id
func (t *revisionTx) InsertRevision(workspaceHash string, savedAt time.Time, mermaid string) (int64, error) {
	res, err := t.tx.Exec(`
		INSERT INTO revisions (workspace_hash, saved_at, mermaid)
		VALUES (?, ?, ?)
	`, workspaceHash, savedAt.UnixNano(), mermaid)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertNode stores a node at its position in the plan
func (t *revisionTx) InsertNode(revID int64, position int, n domain.Node) error {
	kind := ""
	if n.Kind != domain.KindUnknown {
		kind = n.Kind.String()
	}
	_, err := t.tx.Exec(`
		INSERT INTO nodes (revision_id, position, id, label, kind, path, parent_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, revID, position, n.ID, n.Label, kind, n.Path, n.ParentID)
	return err
}

// InsertEdge stores an edge at its position in the plan
func (t *revisionTx) InsertEdge(revID int64, position int, e domain.Edge) error {
	_, err := t.tx.Exec(`
		INSERT INTO edges (revision_id, position, source, target)
		VALUES (?, ?, ?, ?)
	`, revID, position, e.Source, e.Target)
	return err
}

// Commit commits the transaction
func (t *revisionTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *revisionTx) Rollback() error {
	return t.tx.Rollback()
}
