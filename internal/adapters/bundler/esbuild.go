package bundler

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/mxmul/microsite/internal/core"
)

// ESBuild compiles the global entry and the per-page server entries through
// the in-process esbuild API. All outputs land in the staging area; nothing
// is written to dist by this adapter.
type ESBuild struct {
	root      string
	shellPath string
	shellMu   sync.Mutex
}

// New creates a bundler rooted at the site directory. root anchors bare
// module resolution (node_modules); shellPath is the site's document shell
// component, or "" to fall back to the built-in shell.
func New(root, shellPath string) *ESBuild {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &ESBuild{root: root, shellPath: shellPath}
}

// BuildGlobal compiles the shared entry twice: a modern ESM bundle and a
// legacy IIFE bundle, identical configuration apart from target syntax and
// module format. The extracted stylesheet is shared; the legacy build's
// duplicate extraction is discarded.
func (b *ESBuild) BuildGlobal(entry, stagingDir string) (core.GlobalAssets, error) {
	if _, err := os.Stat(entry); err != nil {
		// No global entry is a legal site layout: no script, no global CSS.
		return core.GlobalAssets{}, nil
	}

	scriptPath := filepath.Join(stagingDir, core.GlobalScript)
	legacyPath := filepath.Join(stagingDir, core.GlobalLegacyScript)
	stylePath := filepath.Join(stagingDir, core.GlobalStylesheet)

	modern := b.baseOptions()
	modern.EntryPoints = []string{entry}
	modern.Outfile = scriptPath
	modern.Format = api.FormatESModule
	modern.Target = api.ES2020

	if result := api.Build(modern); len(result.Errors) > 0 {
		return core.GlobalAssets{}, compileError(entry, result)
	}

	legacy := b.baseOptions()
	legacy.EntryPoints = []string{entry}
	legacy.Outfile = legacyPath
	legacy.Format = api.FormatIIFE
	legacy.Target = api.ES2015

	if result := api.Build(legacy); len(result.Errors) > 0 {
		return core.GlobalAssets{}, compileError(entry, result)
	}

	// The legacy invocation extracts the same stylesheet under its own name.
	_ = os.Remove(filepath.Join(stagingDir, "global.legacy.css"))

	assets := core.GlobalAssets{
		ScriptPath:       scriptPath,
		LegacyScriptPath: legacyPath,
		HasScript:        hasScriptContent(scriptPath),
	}
	if _, err := os.Stat(stylePath); err == nil {
		assets.StylePath = stylePath
	}
	return assets, nil
}

// BuildPage compiles one page. The generated server entry wraps the page
// component in the document shell and exports a renderPage function, so the
// staged artifact is a self-contained module the sidecar can import and
// call without further resolution.
func (b *ESBuild) BuildPage(page core.PageDescriptor, stagingDir string) (core.PageDescriptor, error) {
	entriesDir := filepath.Join(stagingDir, "entries")
	entryPath, err := b.writeServerEntry(entriesDir, page)
	if err != nil {
		return page, &core.CompilationError{Entry: page.SourcePath, Err: err}
	}

	pagesDir := filepath.Join(stagingDir, "pages")
	scriptPath := core.StagedScriptPath(pagesDir, page.LogicalName)

	opts := b.baseOptions()
	opts.EntryPoints = []string{entryPath}
	opts.Outfile = scriptPath
	opts.Format = api.FormatESModule
	opts.Platform = api.PlatformNode
	opts.Target = api.ES2020

	if result := api.Build(opts); len(result.Errors) > 0 {
		return page, compileError(page.SourcePath, result)
	}

	page.ScriptPath = scriptPath
	if stylePath := core.StagedStylePath(pagesDir, page.LogicalName); fileExists(stylePath) {
		page.StylePath = stylePath
	}
	return page, nil
}

func (b *ESBuild) baseOptions() api.BuildOptions {
	return api.BuildOptions{
		AbsWorkingDir:   b.root,
		Bundle:          true,
		Write:           true,
		Platform:        api.PlatformBrowser,
		JSX:             api.JSXAutomatic,
		JSXImportSource: "preact",
		// *.module.css gets esbuild's CSS-modules treatment: class names are
		// hashed per source file, which scopes page styles without touching
		// the unscoped global stylesheet.
		Loader: map[string]api.Loader{
			".module.css": api.LoaderLocalCSS,
			".css":        api.LoaderCSS,
		},
		LogLevel: api.LogLevelSilent,
	}
}

func compileError(entry string, result api.BuildResult) *core.CompilationError {
	messages := api.FormatMessages(result.Errors, api.FormatMessagesOptions{
		Kind: api.ErrorMessage,
	})
	for i, msg := range messages {
		messages[i] = strings.TrimSpace(msg)
	}
	return &core.CompilationError{Entry: entry, Messages: messages}
}

// hasScriptContent reports whether the bundled script carries anything
// beyond whitespace and comments. A style-only entry compiles to an empty
// module and must not produce root-level script files.
func hasScriptContent(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		return true
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
