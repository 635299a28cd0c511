package bundler

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/mxmul/microsite/internal/core"
)

var (
	//go:embed server_entry.tsx.tmpl
	serverEntrySource string
	serverEntryTmpl   = template.Must(template.New("server-entry").Parse(serverEntrySource))

	//go:embed default_shell.tsx
	defaultShellSource string
)

const defaultShellName = "_shell.tsx"

// writeServerEntry generates the per-page server entry in the staging
// entries directory. The entry imports the document shell and the page
// component and exports the renderPage function-table slot the sidecar
// runtime calls.
func (b *ESBuild) writeServerEntry(entriesDir string, page core.PageDescriptor) (string, error) {
	entryPath := core.StagedEntryPath(entriesDir, page.LogicalName)
	if err := os.MkdirAll(filepath.Dir(entryPath), 0755); err != nil {
		return "", err
	}

	shellPath := b.shellPath
	if shellPath == "" {
		var err error
		shellPath, err = b.ensureDefaultShell(entriesDir)
		if err != nil {
			return "", err
		}
	}

	shellImport, err := importPath(entryPath, shellPath)
	if err != nil {
		return "", err
	}
	componentImport, err := importPath(entryPath, page.SourcePath)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := serverEntryTmpl.Execute(&buf, map[string]string{
		"ShellImport":     shellImport,
		"ComponentImport": componentImport,
	}); err != nil {
		return "", err
	}

	if err := os.WriteFile(entryPath, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	return entryPath, nil
}

// ensureDefaultShell materializes the built-in shell once per staging area.
// Page builds run concurrently and all resolve the same file, so the
// stat-then-write is serialized.
func (b *ESBuild) ensureDefaultShell(entriesDir string) (string, error) {
	b.shellMu.Lock()
	defer b.shellMu.Unlock()

	shellPath := filepath.Join(entriesDir, defaultShellName)
	if _, err := os.Stat(shellPath); err == nil {
		return shellPath, nil
	}
	if err := os.MkdirAll(entriesDir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(shellPath, []byte(defaultShellSource), 0644); err != nil {
		return "", err
	}
	return shellPath, nil
}

// importPath builds the relative import specifier from a generated entry to
// another source file, extension stripped.
func importPath(entryPath, targetPath string) (string, error) {
	from := filepath.Dir(entryPath)

	absFrom, err := filepath.Abs(from)
	if err != nil {
		return "", err
	}
	absTarget, err := filepath.Abs(targetPath)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(absFrom, absTarget)
	if err != nil {
		return "", err
	}

	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, ".") {
		return rel, nil
	}
	return "./" + rel, nil
}
