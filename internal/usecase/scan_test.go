package usecase

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mxmul/microsite/internal/core"
)

func TestDiscoverPages(t *testing.T) {
	cfg := testConfig(t)
	pages := cfg.PagesPath()

	writeSource(t, filepath.Join(pages, "index.tsx"), "")
	writeSource(t, filepath.Join(pages, "about.jsx"), "")
	writeSource(t, filepath.Join(pages, "notes.md"), "")
	writeSource(t, filepath.Join(pages, "blog", "post.tsx"), "")
	writeSource(t, filepath.Join(pages, "_layout.tsx"), "")
	writeSource(t, filepath.Join(pages, "blog", "_partial.tsx"), "")
	writeSource(t, filepath.Join(pages, ".hidden.tsx"), "")
	writeSource(t, filepath.Join(pages, "styles.css"), "")
	writeSource(t, filepath.Join(pages, ".git", "config.ts"), "")

	svc := newService(cfg, &fakeBundler{}, &fakeFactory{renderer: &fakeRenderer{}})
	found, err := svc.discoverPages()
	if err != nil {
		t.Fatalf("discoverPages failed: %v", err)
	}

	want := []struct {
		logical string
		kind    core.PageKind
	}{
		{"about", core.KindComponent},
		{"blog/post", core.KindComponent},
		{"index", core.KindComponent},
		{"notes", core.KindMarkdown},
	}
	if len(found) != len(want) {
		t.Fatalf("got %d pages, want %d: %+v", len(found), len(want), found)
	}
	for i, w := range want {
		if found[i].LogicalName != w.logical {
			t.Errorf("page %d: logical name %q, want %q", i, found[i].LogicalName, w.logical)
		}
		if found[i].Kind != w.kind {
			t.Errorf("page %d: kind %v, want %v", i, found[i].Kind, w.kind)
		}
	}
}

func TestDiscoverPagesMissingRoot(t *testing.T) {
	cfg := testConfig(t)
	if err := os.RemoveAll(cfg.PagesPath()); err != nil {
		t.Fatal(err)
	}

	svc := newService(cfg, &fakeBundler{}, &fakeFactory{renderer: &fakeRenderer{}})
	_, err := svc.discoverPages()
	if err == nil {
		t.Fatal("expected an error for a missing pages directory")
	}
	var fsErr *core.FilesystemError
	if !errors.As(err, &fsErr) {
		t.Fatalf("expected FilesystemError, got %T: %v", err, err)
	}
	if fsErr.Op != "scan" {
		t.Errorf("op = %q, want scan", fsErr.Op)
	}
}
