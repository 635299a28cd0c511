// Package markdown renders markdown pages to HTML body fragments. Markdown
// pages skip the bundler and the sidecar runtime entirely; the build wraps
// the fragment in the Go-side document shell.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// FrontMatter holds the recognized keys of a page's YAML header.
type FrontMatter struct {
	Title string `yaml:"title"`
}

const delimiter = "---"

// Render splits an optional front matter header off the source and converts
// the remainder to HTML.
func Render(source []byte) (FrontMatter, string, error) {
	fm, body, err := splitFrontMatter(source)
	if err != nil {
		return FrontMatter{}, "", err
	}

	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return FrontMatter{}, "", fmt.Errorf("convert markdown: %w", err)
	}
	return fm, buf.String(), nil
}

func splitFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter

	text := string(source)
	if !strings.HasPrefix(text, delimiter+"\n") && !strings.HasPrefix(text, delimiter+"\r\n") {
		return fm, source, nil
	}

	rest := text[len(delimiter):]
	rest = strings.TrimPrefix(rest, "\r\n")
	rest = strings.TrimPrefix(rest, "\n")

	idx := strings.Index(rest, "\n"+delimiter)
	if idx < 0 {
		return fm, nil, fmt.Errorf("unterminated front matter")
	}

	header := rest[:idx]
	body := rest[idx+len("\n"+delimiter):]
	body = strings.TrimPrefix(body, "\r\n")
	body = strings.TrimPrefix(body, "\n")

	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return fm, nil, fmt.Errorf("parse front matter: %w", err)
	}
	return fm, []byte(body), nil
}
