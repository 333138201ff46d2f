package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, workspace, content string) {
	t.Helper()
	dir := filepath.Join(workspace, StateDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create state dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	workspace := t.TempDir()

	cfg, err := Load(workspace, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Store != DefaultStore {
		t.Errorf("expected store %q, got %q", DefaultStore, cfg.Store)
	}
	if cfg.IgnoreFile != DefaultIgnoreFile {
		t.Errorf("expected ignore file %q, got %q", DefaultIgnoreFile, cfg.IgnoreFile)
	}
	if cfg.WatchDebounce != DefaultDebounce {
		t.Errorf("expected debounce %v, got %v", DefaultDebounce, cfg.WatchDebounce)
	}
	if cfg.PlanPath() != filepath.Join(workspace, ".driftmap", "plan.json") {
		t.Errorf("unexpected plan path %s", cfg.PlanPath())
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	workspace := t.TempDir()
	writeConfig(t, workspace, `
store: sqlite
model: sonnet
ignore:
  - "*.log"
  - dist/
watch_debounce: 1s
log_level: debug
`)
	t.Setenv("DRIFTMAP_MODEL", "opus")

	cfg, err := Load(workspace, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Store != "sqlite" {
		t.Errorf("expected store from file, got %q", cfg.Store)
	}
	if cfg.Model != "opus" {
		t.Errorf("expected env to override model, got %q", cfg.Model)
	}
	if len(cfg.Ignore) != 2 || cfg.Ignore[1] != "dist/" {
		t.Errorf("unexpected ignore patterns %v", cfg.Ignore)
	}
	if cfg.WatchDebounce != time.Second {
		t.Errorf("expected 1s debounce, got %v", cfg.WatchDebounce)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug log level, got %q", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "unknown store", content: "store: postgres\n", wantErr: "Store"},
		{name: "unknown log level", content: "log_level: loud\n", wantErr: "LogLevel"},
		{name: "malformed yaml", content: "store: [\n", wantErr: "failed to parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workspace := t.TempDir()
			writeConfig(t, workspace, tt.content)

			_, err := Load(workspace, "")
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	workspace := t.TempDir()
	if _, err := Load(workspace, filepath.Join(workspace, "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestWorkspacePath(t *testing.T) {
	t.Setenv("DRIFTMAP_WORKSPACE", "")
	if got := WorkspacePath(); got != DefaultWorkspace {
		t.Errorf("expected default workspace, got %q", got)
	}
	t.Setenv("DRIFTMAP_WORKSPACE", "/tmp/project")
	if got := WorkspacePath(); got != "/tmp/project" {
		t.Errorf("expected env workspace, got %q", got)
	}
}

func TestIgnoreFilePath(t *testing.T) {
	cfg := Default("/work")
	if got := cfg.IgnoreFilePath(); got != filepath.Join("/work", ".driftignore") {
		t.Errorf("unexpected relative ignore path %s", got)
	}
	cfg.IgnoreFile = "/etc/driftignore"
	if got := cfg.IgnoreFilePath(); got != "/etc/driftignore" {
		t.Errorf("unexpected absolute ignore path %s", got)
	}
}
