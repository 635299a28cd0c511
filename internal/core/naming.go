package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	GlobalScript       = "global.js"
	GlobalLegacyScript = "global.legacy.js"
	GlobalStylesheet   = "global.css"

	OutputScript       = "index.js"
	OutputLegacyScript = "index.legacy.js"

	WorkDir    = ".microsite"
	StagingDir = "staging"
)

var pageExtensions = map[string]bool{
	".tsx": true,
	".jsx": true,
	".ts":  true,
	".js":  true,
}

func IsPageSource(name string) bool {
	return pageExtensions[filepath.Ext(name)]
}

func IsMarkdownSource(name string) bool {
	return filepath.Ext(name) == ".md"
}

// LogicalName is the pages-root-relative path with the extension stripped,
// always slash-separated. It keys every staged and written artifact of a
// page, so two sources that collapse to the same logical name collide.
func LogicalName(pagesRoot, sourcePath string) (string, error) {
	rel, err := filepath.Rel(pagesRoot, sourcePath)
	if err != nil {
		return "", fmt.Errorf("source %s is not under pages root %s: %w", sourcePath, pagesRoot, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("source %s is not under pages root %s", sourcePath, pagesRoot)
	}
	return strings.TrimSuffix(rel, filepath.Ext(rel)), nil
}

func StagedScriptPath(stagingPages, logicalName string) string {
	return filepath.Join(stagingPages, filepath.FromSlash(logicalName)+".js")
}

func StagedStylePath(stagingPages, logicalName string) string {
	return filepath.Join(stagingPages, filepath.FromSlash(logicalName)+".css")
}

func OutputHTMLPath(distDir, logicalName string) string {
	return filepath.Join(distDir, filepath.FromSlash(logicalName)+".html")
}

// StagedEntryPath mirrors the logical name's directory structure under the
// entries dir, the same mapping StagedScriptPath uses. Logical names are
// unique, so concurrent page builds never share an entry file.
func StagedEntryPath(entriesDir, logicalName string) string {
	return filepath.Join(entriesDir, filepath.FromSlash(logicalName)+".entry.tsx")
}
