package usecase

import (
	iofs "io/fs"
	"sort"
	"strings"

	"github.com/mxmul/microsite/internal/core"
)

// discoverPages walks the pages root and classifies every source file.
// Results are sorted by logical name so downstream stages see a stable
// order regardless of filesystem iteration.
func (s *BuildService) discoverPages() ([]core.PageDescriptor, error) {
	pagesRoot := s.cfg.PagesPath()

	var pages []core.PageDescriptor
	err := s.fs.WalkDir(pagesRoot, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != pagesRoot {
				return iofs.SkipDir
			}
			return nil
		}

		// Leading underscore marks shared partials, not pages.
		if strings.HasPrefix(d.Name(), "_") || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		var kind core.PageKind
		switch {
		case core.IsPageSource(d.Name()):
			kind = core.KindComponent
		case core.IsMarkdownSource(d.Name()):
			kind = core.KindMarkdown
		default:
			return nil
		}

		logical, err := core.LogicalName(pagesRoot, path)
		if err != nil {
			return err
		}

		pages = append(pages, core.PageDescriptor{
			SourcePath:  path,
			LogicalName: logical,
			Kind:        kind,
		})
		return nil
	})
	if err != nil {
		return nil, core.NewFilesystemError("scan", pagesRoot, err)
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].LogicalName < pages[j].LogicalName
	})

	if err := core.CheckDuplicateNames(pages); err != nil {
		return nil, err
	}
	return pages, nil
}
