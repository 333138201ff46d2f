package filesystem

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"driftmap/internal/domain"
)

func samplePlan() *domain.Plan {
	return domain.NewPlan(domain.Structure{
		Nodes: []domain.Node{
			{ID: "root", Label: "app", Kind: domain.KindFolder, Path: "/"},
			{ID: "main_go", Label: "main.go", Kind: domain.KindFile, Path: "/main.go", ParentID: "root"},
		},
		Edges: []domain.Edge{{Source: "root", Target: "main_go"}},
	})
}

func TestPlanStore_LoadMissing(t *testing.T) {
	store := NewPlanStore(filepath.Join(t.TempDir(), ".driftmap", "plan.json"))

	plan, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("expected no error for a missing plan, got %v", err)
	}
	if plan != nil {
		t.Errorf("expected nil plan, got %+v", plan)
	}
}

func TestPlanStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".driftmap", "plan.json")
	store := NewPlanStore(path)
	ctx := context.Background()

	want := samplePlan()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.MermaidSyntax != want.MermaidSyntax {
		t.Errorf("mermaid text changed on round trip:\n%s\nvs\n%s", got.MermaidSyntax, want.MermaidSyntax)
	}
	if len(got.JSONStructure.Nodes) != 2 || got.JSONStructure.Nodes[1] != want.JSONStructure.Nodes[1] {
		t.Errorf("nodes changed on round trip: %+v", got.JSONStructure.Nodes)
	}

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("failed to list plan dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only plan.json, found %d entries", len(entries))
	}
}

func TestPlanStore_DocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := NewPlanStore(path).Save(context.Background(), samplePlan()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read plan: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("plan is not a JSON object: %v", err)
	}
	for _, key := range []string{"mermaidSyntax", "jsonStructure"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("expected top-level key %q", key)
		}
	}
	for _, want := range []string{`"type": "folder"`, `"parentId": "root"`, `"source": "root"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected %s in document", want)
		}
	}
}

func TestPlanStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := NewPlanStore(path).Load(context.Background()); err == nil {
		t.Error("expected a parse error for a corrupt plan")
	}
}

func TestPlanStore_LoadGeneratorDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	doc := `{
  "mermaidSyntax": "graph TD\n",
  "jsonStructure": {
    "nodes": [
      {"id": "root", "label": "app", "type": "folder", "path": "/", "parentId": null},
      {"id": "readme", "label": "README.md", "type": "file", "path": "/README.md", "parentId": "root"}
    ],
    "edges": [{"source": "root", "target": "readme"}]
  }
}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	plan, err := NewPlanStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := domain.ValidateTree(plan.JSONStructure); err != nil {
		t.Errorf("expected a valid tree, got %v", err)
	}
	if plan.JSONStructure.Nodes[1].Kind != domain.KindFile {
		t.Errorf("expected file kind, got %v", plan.JSONStructure.Nodes[1].Kind)
	}
}

func TestPlanStore_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store := NewPlanStore("~/proj/.driftmap/plan.json")
	if want := filepath.Join(home, "proj", ".driftmap", "plan.json"); store.Location() != want {
		t.Errorf("location = %q, want %q", store.Location(), want)
	}
	if got := NewScanner("~/proj").Root(); got != filepath.Join(home, "proj") {
		t.Errorf("scanner root = %q, want %q", got, filepath.Join(home, "proj"))
	}
}
