package microsite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildMarkdownOnlySite(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "pages", "docs"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(
		filepath.Join(root, "pages", "index.md"),
		[]byte("---\ntitle: Home\n---\n\n# Welcome\n"),
		0644,
	); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(
		filepath.Join(root, "pages", "docs", "guide.md"),
		[]byte("# Guide\n"),
		0644,
	); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{Root: root}
	if err := Build(context.Background(), cfg); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	index, err := os.ReadFile(filepath.Join(root, "dist", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(index), "<title>Home</title>") {
		t.Errorf("missing title:\n%s", index)
	}
	if !strings.Contains(string(index), "<h1>Welcome</h1>") {
		t.Errorf("missing body:\n%s", index)
	}

	if _, err := os.Stat(filepath.Join(root, "dist", "docs", "guide.html")); err != nil {
		t.Errorf("nested page missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, ".microsite")); !os.IsNotExist(err) {
		t.Error("work directory must be cleaned up")
	}
}

func TestCleanRemovesOutput(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"dist", ".microsite/staging"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}

	cfg := &Config{Root: root}
	if err := Clean(cfg); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	for _, dir := range []string{"dist", ".microsite"} {
		if _, err := os.Stat(filepath.Join(root, dir)); !os.IsNotExist(err) {
			t.Errorf("%s must be removed", dir)
		}
	}
}
