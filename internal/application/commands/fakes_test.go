package commands

import (
	"context"
	"strings"

	"driftmap/internal/domain"
	"driftmap/internal/ports"
)

type fakeStore struct {
	plan    *domain.Plan
	loadErr error
	saveErr error
	saved   []*domain.Plan
}

func (s *fakeStore) Load(ctx context.Context) (*domain.Plan, error) {
	return s.plan, s.loadErr
}

func (s *fakeStore) Save(ctx context.Context, plan *domain.Plan) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, plan)
	s.plan = plan
	return nil
}

func (s *fakeStore) Location() string { return "memory" }

type historyStore struct {
	fakeStore
	revisions []ports.PlanRevision
	byID      map[int64]*domain.Plan
}

func (s *historyStore) ListRevisions(ctx context.Context) ([]ports.PlanRevision, error) {
	return s.revisions, nil
}

func (s *historyStore) LoadRevision(ctx context.Context, id int64) (*domain.Plan, error) {
	return s.byID[id], nil
}

type fakeScanner struct {
	structure domain.Structure
	err       error
	calls     int
}

func (s *fakeScanner) Scan(ctx context.Context) (domain.Structure, error) {
	s.calls++
	return s.structure, s.err
}

func (s *fakeScanner) Root() string { return "/work" }

type fakeGenerator struct {
	unavailable bool
	responses   []*ports.GenerateResponse
	err         error
	requests    []ports.GenerateRequest
}

func (g *fakeGenerator) Generate(ctx context.Context, req ports.GenerateRequest) (*ports.GenerateResponse, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	resp := g.responses[0]
	if len(g.responses) > 1 {
		g.responses = g.responses[1:]
	}
	return resp, nil
}

func (g *fakeGenerator) IsAvailable() bool { return !g.unavailable }

// tree builds a structure from "kind:path" entries, parents first. The root is
// always present.
func tree(entries ...string) domain.Structure {
	s := domain.Structure{
		Nodes: []domain.Node{{ID: "root", Label: "app", Kind: domain.KindFolder, Path: "/"}},
	}
	ids := map[string]string{"/": "root"}
	for _, entry := range entries {
		kind, path, _ := strings.Cut(entry, ":")
		parent := path[:strings.LastIndex(path, "/")]
		if parent == "" {
			parent = "/"
		}
		id := strings.NewReplacer("/", "_", ".", "_").Replace(strings.TrimPrefix(path, "/"))
		ids[path] = id
		s.Nodes = append(s.Nodes, domain.Node{
			ID:       id,
			Label:    path[strings.LastIndex(path, "/")+1:],
			Kind:     domain.ParseNodeKind(kind),
			Path:     path,
			ParentID: ids[parent],
		})
		s.Edges = append(s.Edges, domain.Edge{Source: ids[parent], Target: id})
	}
	return s
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
