package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveStorePathFlagWins(t *testing.T) {
	oldStorePath := storePath
	defer func() { storePath = oldStorePath }()

	storePath = filepath.Join("custom", "workflows.json")
	got, err := resolveStorePath()
	if err != nil {
		t.Fatalf("resolveStorePath() error: %v", err)
	}
	if got != storePath {
		t.Errorf("resolveStorePath() = %q, want %q", got, storePath)
	}
}

func TestResolveStorePathFindsProjectDir(t *testing.T) {
	oldStorePath := storePath
	defer func() { storePath = oldStorePath }()
	storePath = ""

	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".wend"), 0755); err != nil {
		t.Fatalf("creating .wend: %v", err)
	}
	subDir := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("creating subdirectory: %v", err)
	}
	t.Chdir(subDir)

	got, err := resolveStorePath()
	if err != nil {
		t.Fatalf("resolveStorePath() error: %v", err)
	}

	if filepath.Base(got) != "workflows.json" {
		t.Errorf("resolveStorePath() = %q, want a workflows.json path", got)
	}

	// Resolve symlinks before comparing (macOS /var -> /private/var)
	gotDir, err := filepath.EvalSymlinks(filepath.Dir(got))
	if err != nil {
		t.Fatalf("resolving got dir: %v", err)
	}
	wantDir, err := filepath.EvalSymlinks(filepath.Join(tmpDir, ".wend"))
	if err != nil {
		t.Fatalf("resolving want dir: %v", err)
	}
	if gotDir != wantDir {
		t.Errorf("resolveStorePath() dir = %q, want %q", gotDir, wantDir)
	}
}
