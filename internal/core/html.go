package core

import (
	"bytes"
	"html/template"
	"strings"
)

// ShellData feeds the Go-side document shell used for markdown pages.
// Component pages render through their own compiled shell in the sidecar
// runtime; both shells receive the same stylesheet ordering (global first,
// page-specific second) and the same script-presence flag.
type ShellData struct {
	Title     string
	Body      template.HTML
	Styles    []string
	HasScript bool
}

var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>{{.Title}}</title>
{{- range .Styles}}
    <style>{{.}}</style>
{{- end}}
{{- if .HasScript}}
    <script type="module" src="/index.js"></script>
    <script nomodule defer src="/index.legacy.js"></script>
{{- end}}
  </head>
  <body>
{{.Body}}
  </body>
</html>
`))

// RenderDocumentShell assembles a full HTML document around a pre-rendered
// body fragment. Stylesheets are inlined verbatim.
func RenderDocumentShell(data ShellData) (string, error) {
	var buf bytes.Buffer
	if err := shellTemplate.Execute(&buf, struct {
		Title     string
		Body      template.HTML
		Styles    []template.CSS
		HasScript bool
	}{
		Title:     data.Title,
		Body:      data.Body,
		Styles:    cssValues(data.Styles),
		HasScript: data.HasScript,
	}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func cssValues(styles []string) []template.CSS {
	out := make([]template.CSS, 0, len(styles))
	for _, s := range styles {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, template.CSS(s))
	}
	return out
}
