package core

import "fmt"

type PageKind int

const (
	KindComponent PageKind = iota
	KindMarkdown
)

// PageDescriptor is created during discovery and immutable afterwards.
// ScriptPath and StylePath point into the staging area and are filled in by
// the bundler; StylePath stays empty when the page imports no stylesheet.
type PageDescriptor struct {
	SourcePath  string
	LogicalName string
	Kind        PageKind
	ScriptPath  string
	StylePath   string
}

// RenderedPage is produced by the render stage and consumed only by the
// output writer.
type RenderedPage struct {
	OutputName string
	HTML       string
}

// RenderOptions is the contract between the build and a page's renderPage
// export: stylesheet contents in order (global first, page-specific second),
// whether root-level script bundles exist, and pretty-printing.
type RenderOptions struct {
	Styles    []string
	HasScript bool
	Pretty    bool
}

// GlobalAssets describes the staged output of the global entry compilation.
// HasScript is false for a style-only entry; the writer then skips the
// root-level script copies.
type GlobalAssets struct {
	ScriptPath       string
	LegacyScriptPath string
	StylePath        string
	HasScript        bool
}

// CheckDuplicateNames rejects page sets where two sources collapse to the
// same logical name (a.tsx next to a.ts, or a markdown twin). Uniqueness is
// what lets the page builds and writes run concurrently without locks.
func CheckDuplicateNames(pages []PageDescriptor) error {
	seen := make(map[string]string, len(pages))
	for _, p := range pages {
		if prev, ok := seen[p.LogicalName]; ok {
			return fmt.Errorf("duplicate logical name %q: %s and %s", p.LogicalName, prev, p.SourcePath)
		}
		seen[p.LogicalName] = p.SourcePath
	}
	return nil
}
