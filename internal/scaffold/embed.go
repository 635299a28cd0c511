package scaffold

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

//go:embed all:starter
var starterFS embed.FS

// Starter returns the embedded starter-site tree.
func Starter() (fs.FS, error) {
	return fs.Sub(starterFS, "starter")
}

type TemplateData struct {
	Name string
}

// ProcessFilename strips the .tmpl suffix and reports whether the file's
// content should be substituted.
func ProcessFilename(filename string) (string, bool) {
	if before, ok := strings.CutSuffix(filename, ".tmpl"); ok {
		return before, true
	}
	return filename, false
}

func ProcessContent(content []byte, isTemplate bool, data TemplateData) []byte {
	if !isTemplate {
		return content
	}
	result := strings.ReplaceAll(string(content), "{{.Name}}", data.Name)
	return []byte(result)
}

// DeriveSiteName names the site after its directory.
func DeriveSiteName(projectDir string) string {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		abs = projectDir
	}
	base := filepath.Base(abs)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "microsite"
	}
	return base
}
