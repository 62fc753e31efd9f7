package render

import (
	"strings"
	"testing"
)

func TestExcerpt_HeadingOnlyParagraph(t *testing.T) {
	body := "## Title\n\nThis is **bold** text."
	got := Excerpt(body, 160)
	if got != "Title" {
		t.Errorf("Excerpt = %q, want Title", got)
	}
}

func TestExcerpt_StripsMarkup(t *testing.T) {
	body := "This is **bold**, *italic*, `code` and a [link](https://example.com) here."
	got := Excerpt(body, 160)
	want := "This is bold, italic, code and a link here."
	if got != want {
		t.Errorf("Excerpt = %q, want %q", got, want)
	}
}

func TestExcerpt_SkipsFencedCode(t *testing.T) {
	body := "```go\nfmt.Println(\"hi\")\n```\n\nReal first paragraph."
	got := Excerpt(body, 160)
	if got != "Real first paragraph." {
		t.Errorf("Excerpt = %q", got)
	}
}

func TestExcerpt_Truncates(t *testing.T) {
	body := strings.Repeat("word ", 100)
	got := Excerpt(body, 20)
	if len([]rune(got)) != 23 || !strings.HasSuffix(got, "...") {
		t.Errorf("Excerpt = %q, want 20 runes plus ellipsis", got)
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{200, 1},
		{250, 2},
		{0, 1},
		{1, 1},
		{401, 3},
	}

	for _, tt := range tests {
		body := strings.TrimSpace(strings.Repeat("word ", tt.words))
		if got := ReadingTime(body, 200); got != tt.want {
			t.Errorf("ReadingTime(%d words) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestTableOfContents(t *testing.T) {
	body := `# Document Title

## First Section

Some text.

### Sub Point

## What's New?

#### Too Deep

` + "```\n## not a heading\n```\n"

	toc := TableOfContents(body)

	if len(toc) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(toc), toc)
	}
	if toc[0].Level != 2 || toc[0].Anchor != "first-section" {
		t.Errorf("unexpected first entry: %+v", toc[0])
	}
	if toc[1].Level != 3 || toc[1].Anchor != "sub-point" {
		t.Errorf("unexpected second entry: %+v", toc[1])
	}
	if toc[2].Text != "What's New?" || toc[2].Anchor != "whats-new" {
		t.Errorf("unexpected third entry: %+v", toc[2])
	}
}

func TestAnchorID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"What's New?", "whats-new"},
		{"  spaced   out  ", "spaced-out"},
		{"snake_case_name", "snake-case-name"},
		{"--- Dashes ---", "dashes"},
	}

	for _, tt := range tests {
		if got := AnchorID(tt.in); got != tt.want {
			t.Errorf("AnchorID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
