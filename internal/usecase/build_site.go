package usecase

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mxmul/microsite/internal/adapters/cli"
	"github.com/mxmul/microsite/internal/config"
	"github.com/mxmul/microsite/internal/core"
	"github.com/mxmul/microsite/internal/markdown"
)

// BuildService drives the five-stage pipeline: prepare workspace, compile
// global assets and pages (concurrently), render, write. Stages two and
// three write to disjoint staging subpaths; stage four runs only after both
// have finished; nothing reaches dist before every page has rendered.
type BuildService struct {
	cfg      *config.Config
	bundler  Bundler
	renderer RendererFactory
	fs       FileSystem
	cli      CLIOutput
}

func NewBuildService(cfg *config.Config, bundler Bundler, renderer RendererFactory, fs FileSystem, cliOut CLIOutput) *BuildService {
	return &BuildService{
		cfg:      cfg,
		bundler:  bundler,
		renderer: renderer,
		fs:       fs,
		cli:      cliOut,
	}
}

func (s *BuildService) BuildSite(ctx context.Context) error {
	s.cli.PrintHeader("microsite build")
	report := cli.NewBuildReport(s.cli, s.cfg.DistPath())

	stepPrep := report.StartStep("Preparing workspace")
	if err := s.prepareWorkspace(); err != nil {
		report.EndStep(stepPrep, false)
		report.Render()
		return err
	}
	report.EndStep(stepPrep, true)

	pages, err := s.discoverPages()
	if err != nil {
		return err
	}
	report.SetPageCount(len(pages))
	slog.Debug("discovered pages", "count", len(pages))

	if err := ctx.Err(); err != nil {
		return err
	}

	stepCompile := report.StartStep("Compiling assets")
	global, pages, err := s.compile(ctx, pages)
	if err != nil {
		report.EndStep(stepCompile, false)
		report.Render()
		return err
	}
	report.EndStep(stepCompile, true)
	if !global.HasScript && global.StylePath == "" {
		report.AddWarning("global", "no global entry; skipping root script and stylesheet")
	}

	stepRender := report.StartStep("Rendering pages")
	rendered, err := s.render(ctx, pages, global)
	if err != nil {
		report.EndStep(stepRender, false)
		report.Render()
		return err
	}
	report.EndStep(stepRender, true)

	stepWrite := report.StartStep("Writing output")
	if err := s.write(ctx, rendered, global); err != nil {
		report.EndStep(stepWrite, false)
		report.Render()
		return err
	}
	report.EndStep(stepWrite, true)

	s.cleanupStaging()
	report.Render()
	return nil
}

// prepareWorkspace clears and recreates dist and staging, then copies the
// public tree verbatim. Destructive: prior dist content is lost.
func (s *BuildService) prepareWorkspace() error {
	dist := s.cfg.DistPath()
	staging := s.cfg.StagingPath()

	if err := s.fs.RemoveAll(dist); err != nil {
		return core.NewFilesystemError("remove", dist, err)
	}
	if err := s.fs.MkdirAll(dist, 0755); err != nil {
		return core.NewFilesystemError("mkdir", dist, err)
	}
	if err := s.fs.RemoveAll(staging); err != nil {
		return core.NewFilesystemError("remove", staging, err)
	}
	for _, dir := range []string{staging, filepath.Join(staging, "pages"), filepath.Join(staging, "entries")} {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return core.NewFilesystemError("mkdir", dir, err)
		}
	}

	public := s.cfg.PublicPath()
	if s.fs.FileExists(public) {
		if err := s.fs.CopyTree(public, dist); err != nil {
			return core.NewFilesystemError("copy", public, err)
		}
	}
	return nil
}

// compile runs the global build and all page builds concurrently. Page
// builds share a bounded pool; any compilation failure aborts the group.
func (s *BuildService) compile(ctx context.Context, pages []core.PageDescriptor) (core.GlobalAssets, []core.PageDescriptor, error) {
	staging := s.cfg.StagingPath()

	var global core.GlobalAssets
	compiled := make([]core.PageDescriptor, len(pages))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		global, err = s.bundler.BuildGlobal(s.cfg.GlobalPath(), staging)
		return err
	})

	g.Go(func() error {
		pool, ctx := errgroup.WithContext(ctx)
		pool.SetLimit(s.cfg.Jobs)
		for i, page := range pages {
			if page.Kind != core.KindComponent {
				compiled[i] = page
				continue
			}
			pool.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				out, err := s.bundler.BuildPage(page, staging)
				if err != nil {
					return err
				}
				compiled[i] = out
				return nil
			})
		}
		return pool.Wait()
	})

	if err := g.Wait(); err != nil {
		return core.GlobalAssets{}, nil, err
	}
	return global, compiled, nil
}

// render produces every page's HTML before anything is written: a single
// render failure aborts the run with dist untouched by this stage.
func (s *BuildService) render(ctx context.Context, pages []core.PageDescriptor, global core.GlobalAssets) ([]core.RenderedPage, error) {
	globalCSS, err := s.readOptional(global.StylePath)
	if err != nil {
		return nil, err
	}

	var renderer Renderer
	defer func() {
		if renderer != nil {
			_ = renderer.Stop()
		}
	}()

	rendered := make([]core.RenderedPage, 0, len(pages))
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var html string
		switch page.Kind {
		case core.KindMarkdown:
			html, err = s.renderMarkdownPage(page, globalCSS, global.HasScript)
		default:
			if renderer == nil {
				renderer, err = s.renderer.Start(s.cfg.StagingPath())
				if err != nil {
					return nil, fmt.Errorf("start renderer: %w", err)
				}
			}
			html, err = s.renderComponentPage(renderer, page, globalCSS, global.HasScript)
		}
		if err != nil {
			s.cli.PrintError("Failed to render %s: %v", page.LogicalName, err)
			return nil, &core.RenderError{Page: page.LogicalName, Err: err}
		}

		rendered = append(rendered, core.RenderedPage{
			OutputName: page.LogicalName,
			HTML:       html,
		})
		s.cli.PrintFile(page.LogicalName + ".html")
	}
	return rendered, nil
}

func (s *BuildService) renderComponentPage(renderer Renderer, page core.PageDescriptor, globalCSS string, hasScript bool) (string, error) {
	pageCSS, err := s.readOptional(page.StylePath)
	if err != nil {
		return "", err
	}

	styles := make([]string, 0, 2)
	if strings.TrimSpace(globalCSS) != "" {
		styles = append(styles, globalCSS)
	}
	if strings.TrimSpace(pageCSS) != "" {
		styles = append(styles, pageCSS)
	}

	html, err := renderer.Render(page.ScriptPath, core.RenderOptions{
		Styles:    styles,
		HasScript: hasScript,
		Pretty:    s.cfg.PrettyOutput(),
	})
	if err != nil {
		return "", err
	}
	return ensureDoctype(html), nil
}

func (s *BuildService) renderMarkdownPage(page core.PageDescriptor, globalCSS string, hasScript bool) (string, error) {
	source, err := s.fs.ReadFile(page.SourcePath)
	if err != nil {
		return "", core.NewFilesystemError("read", page.SourcePath, err)
	}

	fm, body, err := markdown.Render(source)
	if err != nil {
		return "", err
	}

	title := fm.Title
	if title == "" {
		title = s.cfg.BaseTitle
	}

	var styles []string
	if strings.TrimSpace(globalCSS) != "" {
		styles = append(styles, globalCSS)
	}

	return core.RenderDocumentShell(core.ShellData{
		Title:     title,
		Body:      template.HTML(body),
		Styles:    styles,
		HasScript: hasScript,
	})
}

// write copies the root script bundles (when the global entry has script
// content), writes every rendered page through the bounded pool, and drops
// the manifest.
func (s *BuildService) write(ctx context.Context, rendered []core.RenderedPage, global core.GlobalAssets) error {
	dist := s.cfg.DistPath()

	if global.HasScript {
		if err := s.fs.CopyFile(global.ScriptPath, filepath.Join(dist, core.OutputScript)); err != nil {
			return core.NewFilesystemError("copy", global.ScriptPath, err)
		}
		if err := s.fs.CopyFile(global.LegacyScriptPath, filepath.Join(dist, core.OutputLegacyScript)); err != nil {
			return core.NewFilesystemError("copy", global.LegacyScriptPath, err)
		}
	}

	manifest := core.NewManifest()
	if global.HasScript {
		manifest.GlobalScript = core.OutputScript
		manifest.LegacyScript = core.OutputLegacyScript
	}

	pool, ctx := errgroup.WithContext(ctx)
	pool.SetLimit(s.cfg.Jobs)
	for _, page := range rendered {
		manifest.AddPage(page.OutputName)
		pool.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outPath := core.OutputHTMLPath(dist, page.OutputName)
			if err := s.fs.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
				return core.NewFilesystemError("mkdir", filepath.Dir(outPath), err)
			}
			if err := s.fs.WriteFile(outPath, []byte(page.HTML), 0644); err != nil {
				return core.NewFilesystemError("write", outPath, err)
			}
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		return err
	}

	data, err := manifest.Encode()
	if err != nil {
		return err
	}
	if err := s.fs.WriteFile(filepath.Join(dist, "manifest.json"), data, 0644); err != nil {
		return core.NewFilesystemError("write", filepath.Join(dist, "manifest.json"), err)
	}
	return nil
}

// cleanupStaging removes the staging tree, then the parent work directory
// if nothing else lives there. Failures only warn: the build output is
// already complete.
func (s *BuildService) cleanupStaging() {
	staging := s.cfg.StagingPath()
	if err := s.fs.RemoveAll(staging); err != nil {
		s.cli.PrintWarning("Failed to remove staging dir %s: %v", staging, err)
		return
	}

	work := s.cfg.WorkPath()
	entries, err := s.fs.ReadDir(work)
	if err == nil && len(entries) == 0 {
		if err := s.fs.Remove(work); err != nil {
			s.cli.PrintWarning("Failed to remove work dir %s: %v", work, err)
		}
	}
}

func (s *BuildService) readOptional(path string) (string, error) {
	if path == "" || !s.fs.FileExists(path) {
		return "", nil
	}
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return "", core.NewFilesystemError("read", path, err)
	}
	return string(data), nil
}

func ensureDoctype(html string) string {
	trimmed := strings.TrimLeft(html, " \t\r\n")
	if strings.HasPrefix(strings.ToLower(trimmed), "<!doctype") {
		return html
	}
	return "<!DOCTYPE html>\n" + html
}
