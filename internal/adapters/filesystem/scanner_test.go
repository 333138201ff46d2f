package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"driftmap/internal/domain"
)

func setupTestWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
	return root
}

func nodePaths(s domain.Structure) []string {
	out := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		out[i] = n.Path
	}
	return out
}

func TestScanner_Scan(t *testing.T) {
	root := setupTestWorkspace(t, map[string]string{
		"src/main.go":             "package main",
		"src/util/helper.go":      "package util",
		"README.md":               "# readme",
		".git/config":             "[core]",
		"node_modules/x/index.js": "",
		"dist/out.js":             "",
		"debug.log":               "",
		".driftignore":            "dist/\n*.log\n",
	})

	scanner := NewScanner(root, WithIgnoreFile(filepath.Join(root, ".driftignore")))
	got, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	wantPaths := []string{
		"/",
		"/src",
		"/src/util",
		"/src/util/helper.go",
		"/src/main.go",
		"/.driftignore",
		"/README.md",
	}
	gotPaths := nodePaths(got)
	if len(gotPaths) != len(wantPaths) {
		t.Fatalf("paths = %v, want %v", gotPaths, wantPaths)
	}
	for i := range wantPaths {
		if gotPaths[i] != wantPaths[i] {
			t.Errorf("path %d = %q, want %q", i, gotPaths[i], wantPaths[i])
		}
	}

	rootNode := got.Nodes[0]
	if rootNode.ID != domain.RootID || !rootNode.IsRoot() || rootNode.Kind != domain.KindFolder {
		t.Errorf("unexpected root node %+v", rootNode)
	}
	if rootNode.Label != filepath.Base(root) {
		t.Errorf("root label = %q, want %q", rootNode.Label, filepath.Base(root))
	}

	if err := domain.ValidateTree(got); err != nil {
		t.Errorf("scanned tree should satisfy the plan contract: %v", err)
	}
}

func TestScanner_IDsAreSafeAndUnique(t *testing.T) {
	root := setupTestWorkspace(t, map[string]string{
		"a-b.go":   "",
		"a_b.go":   "",
		"end":      "",
		"root":     "",
		"x (1).ts": "",
	})

	got, err := NewScanner(root).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	seen := make(map[string]bool)
	for _, n := range got.Nodes {
		if seen[n.ID] {
			t.Errorf("duplicate id %q", n.ID)
		}
		seen[n.ID] = true
		if unsafeIDChars.MatchString(n.ID) {
			t.Errorf("id %q contains unsafe characters", n.ID)
		}
	}
	for _, want := range []string{"root", "root_2", "end_", "a_b_go", "a_b_go_2", "x_1_ts"} {
		if !seen[want] {
			t.Errorf("expected id %q among %v", want, seen)
		}
	}
}

func TestScanner_ExtraPatterns(t *testing.T) {
	root := setupTestWorkspace(t, map[string]string{
		"keep.go":          "",
		"build/output.bin": "",
		"tmp.swp":          "",
	})

	got, err := NewScanner(root, WithIgnorePatterns("build/", "*.swp")).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	paths := nodePaths(got)
	if len(paths) != 2 || paths[1] != "/keep.go" {
		t.Errorf("expected only root and keep.go, got %v", paths)
	}
}

func TestScanner_Errors(t *testing.T) {
	root := setupTestWorkspace(t, map[string]string{"file.txt": ""})

	if _, err := NewScanner(filepath.Join(root, "missing")).Scan(context.Background()); err == nil {
		t.Error("expected error for missing workspace")
	}
	if _, err := NewScanner(filepath.Join(root, "file.txt")).Scan(context.Background()); err == nil {
		t.Error("expected error when workspace is a file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewScanner(root).Scan(ctx); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestScanner_EmptyWorkspace(t *testing.T) {
	got, err := NewScanner(t.TempDir()).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(got.Nodes) != 1 || len(got.Edges) != 0 {
		t.Errorf("expected only the root node, got %d nodes and %d edges", len(got.Nodes), len(got.Edges))
	}
}

func TestScanner_IgnoreMatcher(t *testing.T) {
	root := setupTestWorkspace(t, map[string]string{
		".driftignore": "dist/\n*.log\n",
	})
	scanner := NewScanner(root,
		WithIgnoreFile(filepath.Join(root, ".driftignore")),
		WithIgnorePatterns("tmp/"),
	)

	ignored, err := scanner.IgnoreMatcher()
	if err != nil {
		t.Fatalf("IgnoreMatcher failed: %v", err)
	}

	tests := []struct {
		rel   string
		isDir bool
		want  bool
	}{
		{"dist", true, true},
		{"tmp", true, true},
		{"debug.log", false, true},
		{"src/trace.log", false, true},
		{".git", true, true},
		{"node_modules", true, true},
		{"src", true, false},
		{"main.go", false, false},
	}
	for _, tt := range tests {
		if got := ignored(tt.rel, tt.isDir); got != tt.want {
			t.Errorf("ignored(%q, %v) = %v, want %v", tt.rel, tt.isDir, got, tt.want)
		}
	}
}
