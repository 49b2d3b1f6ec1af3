// Package markdown renders model answers, which are usually Markdown, as HTML.
package markdown

import (
	"bytes"
	stdhtml "html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown to HTML. Raw HTML in the source is omitted.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a renderer with GitHub-flavoured tables, strikethrough
// and autolinks, and hard line breaks.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// ToHTML renders src. On conversion failure it falls back to the escaped
// source so the answer is never lost.
func (r *Renderer) ToHTML(src string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "<p>" + stdhtml.EscapeString(src) + "</p>"
	}
	return strings.TrimSpace(buf.String())
}
