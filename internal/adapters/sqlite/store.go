package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"driftmap/internal/config"
	"driftmap/internal/domain"
	"driftmap/internal/ports"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

// Store implements ports.PlanStore and ports.PlanHistory using SQLite.
// Every Save appends a revision; Load returns the newest one.
type Store struct {
	db        *sql.DB
	workspace string
	dbPath    string
}

// Ensure Store implements PlanStore and PlanHistory
var (
	_ ports.PlanStore   = (*Store)(nil)
	_ ports.PlanHistory = (*Store)(nil)
)

// Open opens (creating if needed) the revision database for workspace.
// An empty dbPath selects a per-workspace file under the XDG data directory.
func Open(workspace, dbPath string) (*Store, error) {
	abs, err := filepath.Abs(config.ExpandHome(workspace))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}
	if dbPath == "" {
		dbPath = databasePath(abs)
	}
	dbPath = config.ExpandHome(dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL so the watcher and an interactive session can share the file
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, workspace: abs, dbPath: dbPath}
	if err := s.setup(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}
	return s, nil
}

func (s *Store) setup() error {
	_, err := s.db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS revisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			workspace_hash TEXT NOT NULL,
			saved_at INTEGER NOT NULL,
			mermaid TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS nodes (
			revision_id INTEGER NOT NULL REFERENCES revisions(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			id TEXT NOT NULL,
			label TEXT NOT NULL,
			kind TEXT NOT NULL,
			path TEXT NOT NULL,
			parent_id TEXT NOT NULL,
			PRIMARY KEY (revision_id, position)
		);
		CREATE TABLE IF NOT EXISTS edges (
			revision_id INTEGER NOT NULL REFERENCES revisions(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			PRIMARY KEY (revision_id, position)
		);
		CREATE INDEX IF NOT EXISTS idx_revisions_workspace ON revisions(workspace_hash, id);
	`)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		return fmt.Errorf("failed to update metadata: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Location returns the database file path
func (s *Store) Location() string {
	return s.dbPath
}

// Load returns the newest revision for the workspace, or nil if none was saved
func (s *Store) Load(ctx context.Context) (*domain.Plan, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM revisions
		WHERE workspace_hash = ?
		ORDER BY id DESC LIMIT 1
	`, hashWorkspace(s.workspace)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest revision: %w", err)
	}
	return s.LoadRevision(ctx, id)
}

// Save appends plan as a new revision in a single transaction
func (s *Store) Save(ctx context.Context, plan *domain.Plan) error {
	if plan == nil {
		return fmt.Errorf("cannot save a nil plan")
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	revID, err := tx.InsertRevision(hashWorkspace(s.workspace), time.Now(), plan.MermaidSyntax)
	if err != nil {
		return fmt.Errorf("failed to insert revision: %w", err)
	}
	for i, n := range plan.JSONStructure.Nodes {
		if err := tx.InsertNode(revID, i, n); err != nil {
			return fmt.Errorf("failed to insert node %s: %w", n.ID, err)
		}
	}
	for i, e := range plan.JSONStructure.Edges {
		if err := tx.InsertEdge(revID, i, e); err != nil {
			return fmt.Errorf("failed to insert edge %s->%s: %w", e.Source, e.Target, err)
		}
	}
	return tx.Commit()
}

// ListRevisions returns the workspace's revisions, newest first
func (s *Store) ListRevisions(ctx context.Context) ([]ports.PlanRevision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.saved_at,
			(SELECT COUNT(*) FROM nodes n WHERE n.revision_id = r.id),
			(SELECT COUNT(*) FROM edges e WHERE e.revision_id = r.id)
		FROM revisions r
		WHERE r.workspace_hash = ?
		ORDER BY r.id DESC
	`, hashWorkspace(s.workspace))
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	defer rows.Close()

	var revs []ports.PlanRevision
	for rows.Next() {
		var rev ports.PlanRevision
		var savedAt int64
		if err := rows.Scan(&rev.ID, &savedAt, &rev.NodeCount, &rev.EdgeCount); err != nil {
			return nil, err
		}
		rev.SavedAt = time.Unix(0, savedAt)
		revs = append(revs, rev)
	}
	return revs, rows.Err()
}

// LoadRevision returns one revision of this workspace, or nil if unknown
func (s *Store) LoadRevision(ctx context.Context, id int64) (*domain.Plan, error) {
	plan := &domain.Plan{}
	err := s.db.QueryRowContext(ctx, `
		SELECT mermaid FROM revisions WHERE id = ? AND workspace_hash = ?
	`, id, hashWorkspace(s.workspace)).Scan(&plan.MermaidSyntax)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load revision %d: %w", id, err)
	}

	nodes, err := s.loadNodes(ctx, id)
	if err != nil {
		return nil, err
	}
	edges, err := s.loadEdges(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.JSONStructure = domain.Structure{Nodes: nodes, Edges: edges}
	return plan, nil
}

func (s *Store) loadNodes(ctx context.Context, revID int64) ([]domain.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, kind, path, parent_id
		FROM nodes WHERE revision_id = ? ORDER BY position
	`, revID)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}
	defer rows.Close()

	nodes := []domain.Node{}
	for rows.Next() {
		var n domain.Node
		var kind string
		if err := rows.Scan(&n.ID, &n.Label, &kind, &n.Path, &n.ParentID); err != nil {
			return nil, err
		}
		n.Kind = domain.ParseNodeKind(kind)
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func (s *Store) loadEdges(ctx context.Context, revID int64) ([]domain.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, target FROM edges WHERE revision_id = ? ORDER BY position
	`, revID)
	if err != nil {
		return nil, fmt.Errorf("failed to load edges: %w", err)
	}
	defer rows.Close()

	edges := []domain.Edge{}
	for rows.Next() {
		var e domain.Edge
		if err := rows.Scan(&e.Source, &e.Target); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// databasePath returns the per-workspace database under the XDG data directory
func databasePath(workspace string) string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "driftmap", hashWorkspace(workspace)+".db")
}

// hashWorkspace returns a short hash of the workspace path
func hashWorkspace(workspace string) string {
	h := sha256.Sum256([]byte(workspace))
	return hex.EncodeToString(h[:8])
}

