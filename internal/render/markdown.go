package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gparser "github.com/yuin/goldmark/parser"
)

// Renderer converts Markdown bodies to sanitized HTML. Raw HTML in the
// source is never passed through: goldmark omits it and the bluemonday
// policy strips anything the renderer itself did not emit. Post bodies
// arrive via pull requests from arbitrary contributors, so the output
// must be embeddable without further sanitization.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer creates a renderer with GFM extensions (tables,
// strikethrough, task lists) enabled.
func NewRenderer() *Renderer {
	policy := bluemonday.UGCPolicy()
	// heading anchors and task list checkboxes survive sanitization
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.AllowAttrs("type", "checked", "disabled").OnElements("input")

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(gparser.WithAutoHeadingID()),
		),
		policy: policy,
	}
}

// Render converts a Markdown body to sanitized HTML.
func (r *Renderer) Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}
