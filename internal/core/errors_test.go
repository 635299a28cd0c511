package core

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestErrorTaxonomy(t *testing.T) {
	fsErr := NewFilesystemError("remove", "dist", os.ErrPermission)
	wrapped := fmt.Errorf("prepare workspace: %w", fsErr)

	var target *FilesystemError
	if !errors.As(wrapped, &target) {
		t.Fatal("FilesystemError must survive wrapping")
	}
	if target.Path != "dist" {
		t.Errorf("got path %q", target.Path)
	}
	if !errors.Is(wrapped, os.ErrPermission) {
		t.Error("cause must be reachable through Unwrap")
	}
}

func TestCompilationErrorMessage(t *testing.T) {
	err := &CompilationError{
		Entry:    "pages/broken.tsx",
		Messages: []string{"Unexpected token", "second diagnostic"},
	}
	want := "compile pages/broken.tsx: Unexpected token"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestRenderErrorMessage(t *testing.T) {
	err := &RenderError{Page: "index", Err: errors.New("boom")}
	if err.Error() != "render index: boom" {
		t.Errorf("got %q", err.Error())
	}
	var target *RenderError
	if !errors.As(fmt.Errorf("build: %w", err), &target) {
		t.Error("RenderError must survive wrapping")
	}
}
