package render

import (
	"regexp"
	"strings"
)

const (
	// DefaultReadingSpeed is the assumed reading speed in words per minute.
	DefaultReadingSpeed = 200

	// DefaultExcerptLength is the maximum derived excerpt length in runes.
	DefaultExcerptLength = 160
)

var (
	codeBlockRegex  = regexp.MustCompile("(?s)```.*?```")
	headingRegex    = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	boldRegex       = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)
	italicRegex     = regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`)
	linkRegex       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	inlineCodeRegex = regexp.MustCompile("`([^`]+)`")
	anchorDropRegex = regexp.MustCompile(`[^a-z0-9 _-]`)
	anchorSepRegex  = regexp.MustCompile(`[\s_]+`)
)

// Excerpt derives a short plain-text excerpt from a Markdown body: the
// first paragraph with markup stripped, truncated to maxLen runes with an
// ellipsis. Used when frontmatter supplies no explicit excerpt.
func Excerpt(body string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultExcerptLength
	}

	cleaned := codeBlockRegex.ReplaceAllString(body, "")
	para := firstParagraph(cleaned)

	para = headingRegex.ReplaceAllString(para, "")
	para = boldRegex.ReplaceAllString(para, "$1$2")
	para = italicRegex.ReplaceAllString(para, "$1$2")
	para = linkRegex.ReplaceAllString(para, "$1")
	para = inlineCodeRegex.ReplaceAllString(para, "$1")
	para = strings.Join(strings.Fields(para), " ")

	runes := []rune(para)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return para
}

// firstParagraph returns the text up to the first blank line, skipping
// leading blank lines.
func firstParagraph(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(lines) == 0 {
				continue
			}
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// ReadingTime estimates reading time in whole minutes at wpm words per
// minute, rounding up, with a floor of one minute.
func ReadingTime(body string, wpm int) int {
	if wpm <= 0 {
		wpm = DefaultReadingSpeed
	}

	words := len(strings.Fields(body))
	if words == 0 {
		return 1
	}

	minutes := (words + wpm - 1) / wpm
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// TOCEntry is one heading in a post's table of contents.
type TOCEntry struct {
	Level  int    `json:"level"`
	Text   string `json:"text"`
	Anchor string `json:"anchor"`
}

// TableOfContents collects level-2 and level-3 headings. Level 1 is the
// document title and deeper levels are too granular for navigation.
func TableOfContents(body string) []TOCEntry {
	var toc []TOCEntry

	inCode := false
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			continue
		}

		var level int
		var text string
		switch {
		case strings.HasPrefix(line, "### "):
			level, text = 3, strings.TrimPrefix(line, "### ")
		case strings.HasPrefix(line, "## "):
			level, text = 2, strings.TrimPrefix(line, "## ")
		default:
			continue
		}

		text = strings.TrimSpace(text)
		toc = append(toc, TOCEntry{Level: level, Text: text, Anchor: AnchorID(text)})
	}

	return toc
}

// AnchorID converts heading text to a URL anchor: lowercased, stripped of
// characters outside [a-z0-9 _-], whitespace/underscore runs collapsed to
// single hyphens, leading/trailing hyphens trimmed.
func AnchorID(text string) string {
	s := strings.ToLower(text)
	s = anchorDropRegex.ReplaceAllString(s, "")
	s = anchorSepRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
