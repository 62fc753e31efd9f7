package render

import (
	"strings"
	"testing"
)

func TestRender_Basic(t *testing.T) {
	r := NewRenderer()

	html, err := r.Render("# Heading\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("unexpected html: %q", html)
	}
}

func TestRender_GFMExtensions(t *testing.T) {
	r := NewRenderer()

	html, err := r.Render("| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~\n\n- [x] done\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(html, "<table>") {
		t.Errorf("expected table in output: %q", html)
	}
	if !strings.Contains(html, "<del>gone</del>") {
		t.Errorf("expected strikethrough in output: %q", html)
	}
	if !strings.Contains(html, "checkbox") {
		t.Errorf("expected task list checkbox in output: %q", html)
	}
}

func TestRender_StripsRawHTML(t *testing.T) {
	r := NewRenderer()

	html, err := r.Render("hello <script>alert(1)</script> world\n\n<img src=x onerror=alert(1)>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(html, "<script>") || strings.Contains(html, "onerror") {
		t.Errorf("raw html leaked into output: %q", html)
	}
}
