package usecase

import (
	"github.com/mxmul/microsite/internal/adapters/fs"
	"github.com/mxmul/microsite/internal/core"
)

type Bundler interface {
	BuildGlobal(entry, stagingDir string) (core.GlobalAssets, error)
	BuildPage(page core.PageDescriptor, stagingDir string) (core.PageDescriptor, error)
}

type Renderer interface {
	Render(modulePath string, opts core.RenderOptions) (string, error)
	Stop() error
}

// RendererFactory defers starting the sidecar runtime until the build knows
// it has component pages to render.
type RendererFactory interface {
	Start(dir string) (Renderer, error)
}

type CLIOutput interface {
	PrintHeader(msg string)
	PrintStep(emoji, msg string, args ...any)
	PrintSuccess(msg string, args ...any)
	PrintWarning(msg string, args ...any)
	PrintError(msg string, args ...any)
	PrintFile(path string)
	PrintDone(msg string)
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
}

type FileSystem = fs.FileSystem
