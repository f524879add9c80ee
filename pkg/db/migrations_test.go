package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMigrationFiles(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"002_second.sql":  "CREATE TABLE second (id INT);",
		"001_first.sql":   "CREATE TABLE first (id INT);",
		"readme.txt":      "not a migration",
		"003_third.sql":   "CREATE TABLE third (id INT);",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	got, err := LoadMigrationFiles(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d migrations, want 3 (.sql only)", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if !strings.Contains(got[i], want) {
			t.Errorf("migration %d = %q, want the %s table", i, got[i], want)
		}
	}
}

func TestLoadMigrationFiles_MissingDir(t *testing.T) {
	if _, err := LoadMigrationFiles(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestLoadMigrationFiles_RepoMigrations(t *testing.T) {
	got, err := LoadMigrationFiles(filepath.Join("..", "..", "migrations"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected at least one migration")
	}
	if !strings.Contains(got[0], "handler_endpoints") {
		t.Error("first migration should create handler_endpoints")
	}
}
