package parser

import (
	"strings"
	"testing"
)

func TestParsePost_Valid(t *testing.T) {
	content := `---
title: Hello World
author: john-doe
publishedAt: "2024-01-15"
tags:
  - go
  - testing
status: published
excerpt: A short intro.
---
This is the body content.
`

	meta, body, err := ParsePost(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meta.Title != "Hello World" {
		t.Errorf("expected title 'Hello World', got %q", meta.Title)
	}
	if meta.Author != "john-doe" {
		t.Errorf("expected author 'john-doe', got %q", meta.Author)
	}
	if len(meta.Tags) != 2 || meta.Tags[0] != "go" || meta.Tags[1] != "testing" {
		t.Errorf("expected tags [go testing], got %v", meta.Tags)
	}
	if meta.Status != "published" {
		t.Errorf("expected status published, got %q", meta.Status)
	}

	pub := meta.PublishedTime()
	if pub.Year() != 2024 || pub.Month() != 1 || pub.Day() != 15 {
		t.Errorf("expected publish date 2024-01-15, got %v", pub)
	}

	expected := "This is the body content.\n"
	if body != expected {
		t.Errorf("expected body %q, got %q", expected, body)
	}
}

func TestParsePost_Defaults(t *testing.T) {
	content := `---
title: Draft
author: jane
publishedAt: "2024-02-01"
---
Body
`

	meta, _, err := ParsePost(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meta.Status != "draft" {
		t.Errorf("expected default status draft, got %q", meta.Status)
	}
	if meta.Tags == nil || len(meta.Tags) != 0 {
		t.Errorf("expected empty tag list, got %v", meta.Tags)
	}
}

func TestParsePost_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no frontmatter", "Just a body without metadata."},
		{"missing title", "---\nauthor: a\npublishedAt: \"2024-01-01\"\n---\nbody"},
		{"missing author", "---\ntitle: T\npublishedAt: \"2024-01-01\"\n---\nbody"},
		{"missing date", "---\ntitle: T\nauthor: a\n---\nbody"},
		{"bad date format", "---\ntitle: T\nauthor: a\npublishedAt: \"15/01/2024\"\n---\nbody"},
		{"bad status", "---\ntitle: T\nauthor: a\npublishedAt: \"2024-01-01\"\nstatus: live\n---\nbody"},
		{"long meta description", "---\ntitle: T\nauthor: a\npublishedAt: \"2024-01-01\"\nmetaDescription: \"" + strings.Repeat("x", 161) + "\"\n---\nbody"},
		{"malformed yaml", "---\ntitle: [unclosed\n---\nbody"},
	}

	for _, tt := range tests {
		if _, _, err := ParsePost(tt.content); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestParseAuthor_Valid(t *testing.T) {
	content := `---
name: John Doe
email: john@example.com
bio: Writes about Go.
social:
  website: https://example.com
  twitter: johndoe
---
Longer author bio here.
`

	meta, body, err := ParseAuthor(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meta.Name != "John Doe" {
		t.Errorf("expected name 'John Doe', got %q", meta.Name)
	}
	if meta.Social["website"] != "https://example.com" {
		t.Errorf("unexpected social map: %v", meta.Social)
	}
	if !strings.Contains(body, "Longer author bio") {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestParseAuthor_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", "---\nemail: a@b.com\n---\nbody"},
		{"bad email", "---\nname: J\nemail: not-an-email\n---\nbody"},
		{"bad website url", "---\nname: J\nsocial:\n  website: not a url\n---\nbody"},
		{"bad youtube url", "---\nname: J\nsocial:\n  youtube: \"::::\"\n---\nbody"},
	}

	for _, tt := range tests {
		if _, _, err := ParseAuthor(tt.content); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestParsePage(t *testing.T) {
	content := `---
title: About
status: published
publishedAt: "2024-03-01"
template: wide
---
About page body.
`

	meta, _, err := ParsePage(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meta.Title != "About" || meta.Status != "published" || meta.Template != "wide" {
		t.Errorf("unexpected meta: %+v", meta)
	}
	if pt := meta.PublishedTime(); pt == nil || pt.Month() != 3 {
		t.Errorf("unexpected publish time: %v", pt)
	}

	if _, _, err := ParsePage("---\nstatus: published\n---\nbody"); err == nil {
		t.Error("expected error for page without title")
	}
	if _, _, err := ParsePage("---\ntitle: T\nstatus: archived\n---\nbody"); err == nil {
		t.Error("expected error for page with archived status")
	}
}

func TestHasFrontmatter(t *testing.T) {
	tests := []struct {
		content  string
		expected bool
	}{
		{"---\ntitle: test\n---\nbody", true},
		{"no frontmatter here", false},
		{"--- not frontmatter", false},
	}

	for _, tt := range tests {
		if got := HasFrontmatter(tt.content); got != tt.expected {
			t.Errorf("HasFrontmatter(%q) = %v, want %v", tt.content, got, tt.expected)
		}
	}
}
