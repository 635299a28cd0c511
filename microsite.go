// Package microsite builds static sites from a pages directory: component
// pages are bundled and server-rendered to HTML, markdown pages are
// converted directly, and shared assets are copied alongside.
package microsite

import (
	"context"

	"github.com/mxmul/microsite/internal/adapters/bundler"
	"github.com/mxmul/microsite/internal/adapters/cli"
	"github.com/mxmul/microsite/internal/adapters/fs"
	"github.com/mxmul/microsite/internal/adapters/process"
	"github.com/mxmul/microsite/internal/config"
	"github.com/mxmul/microsite/internal/usecase"
)

// Config describes a site. The zero value plus Root builds a site laid out
// with the conventional directories (pages/, public/, dist/, global.ts).
type Config = config.Config

// LoadConfig reads a microsite.yaml. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// Build runs the full pipeline for the site rooted at cfg.Root and writes
// the result to the dist directory. The previous dist content is replaced.
func Build(ctx context.Context, cfg *Config) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	return buildService(cfg).BuildSite(ctx)
}

// Watch builds once, then rebuilds whenever a source file changes, until
// ctx is cancelled. When serveAddr is non-empty the dist directory is also
// served over HTTP.
func Watch(ctx context.Context, cfg *Config, serveAddr string) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	svc := usecase.NewWatchService(cfg, buildService(cfg), cli.NewOutput())
	return svc.Watch(ctx, serveAddr)
}

// Clean removes the dist directory and the work directory.
func Clean(cfg *Config) error {
	cfg.Normalize()
	svc := usecase.NewCleanService(cfg, fs.NewOSFileSystem(), cli.NewOutput())
	return svc.Clean()
}

func buildService(cfg *Config) *usecase.BuildService {
	return usecase.NewBuildService(
		cfg,
		bundler.New(cfg.Root, cfg.ShellPath()),
		rendererFactory{},
		fs.NewOSFileSystem(),
		cli.NewOutput(),
	)
}

type rendererFactory struct{}

func (rendererFactory) Start(dir string) (usecase.Renderer, error) {
	return process.NewRenderer(dir)
}
