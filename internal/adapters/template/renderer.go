// Package template renders notification email bodies from named
// markdown templates. Templates live in-process; variables use
// {{name}} placeholders substituted before markdown conversion.
package template

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// ErrTemplateNotFound is returned when no template with the requested name exists.
var ErrTemplateNotFound = errors.New("template not found")

// Renderer turns a template name and variables into a ready-to-send email body.
type Renderer interface {
	// Render returns the rendered body and whether it is HTML.
	Render(name string, vars map[string]string) (string, bool, error)
}

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// MarkdownRenderer renders registered markdown templates to HTML via goldmark.
type MarkdownRenderer struct {
	templates map[string]string
}

// NewMarkdownRenderer creates a renderer preloaded with the built-in
// notification templates.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{templates: builtinTemplates}
}

// Register adds or replaces a named markdown template.
func (r *MarkdownRenderer) Register(name, body string) {
	r.templates[name] = body
}

// Render substitutes vars into the named template and converts the
// result to HTML.
// PRE: name refers to a registered template
// POST: Returns HTML output; no side effects on failure
func (r *MarkdownRenderer) Render(name string, vars map[string]string) (string, bool, error) {
	src, ok := r.templates[name]
	if !ok {
		return "", false, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	src = strings.NewReplacer(pairs...).Replace(src)

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return "", false, fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), true, nil
}
