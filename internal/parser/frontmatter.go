package parser

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// frontmatterRegex matches YAML frontmatter between --- delimiters
var frontmatterRegex = regexp.MustCompile(`(?s)^---\n(.+?)\n---\n?`)

// dateLayout is the publish/update date format required in frontmatter
const dateLayout = "2006-01-02"

var validate = validator.New()

// PostMeta is the validated frontmatter of a post file.
type PostMeta struct {
	Title           string   `yaml:"title" validate:"required"`
	Author          string   `yaml:"author" validate:"required"`
	PublishedAt     string   `yaml:"publishedAt" validate:"required,datetime=2006-01-02"`
	UpdatedAt       string   `yaml:"updatedAt" validate:"omitempty,datetime=2006-01-02"`
	Excerpt         string   `yaml:"excerpt"`
	FeaturedImage   string   `yaml:"featuredImage"`
	Tags            []string `yaml:"tags"`
	Status          string   `yaml:"status" validate:"omitempty,oneof=draft published archived"`
	MetaDescription string   `yaml:"metaDescription" validate:"omitempty,max=160"`
	MetaKeywords    []string `yaml:"metaKeywords"`
}

// AuthorMeta is the validated frontmatter of an author file.
type AuthorMeta struct {
	Name   string            `yaml:"name" validate:"required"`
	Email  string            `yaml:"email" validate:"omitempty,email"`
	Bio    string            `yaml:"bio"`
	Avatar string            `yaml:"avatar"`
	Social map[string]string `yaml:"social"`
}

// PageMeta is the validated frontmatter of a page file.
type PageMeta struct {
	Title           string `yaml:"title" validate:"required"`
	Slug            string `yaml:"slug"`
	Status          string `yaml:"status" validate:"omitempty,oneof=draft published"`
	PublishedAt     string `yaml:"publishedAt" validate:"omitempty,datetime=2006-01-02"`
	UpdatedAt       string `yaml:"updatedAt" validate:"omitempty,datetime=2006-01-02"`
	MetaDescription string `yaml:"metaDescription"`
	Template        string `yaml:"template"`
}

// PublishedTime parses the post's publish date.
func (m *PostMeta) PublishedTime() time.Time {
	t, _ := time.Parse(dateLayout, m.PublishedAt)
	return t
}

// PublishedTime parses the page's publish date, nil when unset.
func (m *PageMeta) PublishedTime() *time.Time {
	if m.PublishedAt == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, m.PublishedAt)
	if err != nil {
		return nil
	}
	return &t
}

// ParsePost splits and validates a post file.
func ParsePost(raw string) (*PostMeta, string, error) {
	meta := &PostMeta{}
	body, err := parseInto(raw, meta)
	if err != nil {
		return nil, "", err
	}
	if meta.Status == "" {
		meta.Status = "draft"
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	return meta, body, nil
}

// ParseAuthor splits and validates an author file.
func ParseAuthor(raw string) (*AuthorMeta, string, error) {
	meta := &AuthorMeta{}
	body, err := parseInto(raw, meta)
	if err != nil {
		return nil, "", err
	}

	// website/youtube entries of the social map must be URLs
	for _, key := range []string{"website", "youtube"} {
		if v, ok := meta.Social[key]; ok && v != "" {
			if err := validate.Var(v, "url"); err != nil {
				return nil, "", fmt.Errorf("invalid social %s URL %q", key, v)
			}
		}
	}

	return meta, body, nil
}

// ParsePage splits and validates a page file.
func ParsePage(raw string) (*PageMeta, string, error) {
	meta := &PageMeta{}
	body, err := parseInto(raw, meta)
	if err != nil {
		return nil, "", err
	}
	if meta.Status == "" {
		meta.Status = "draft"
	}
	return meta, body, nil
}

// parseInto extracts the frontmatter block, decodes it into meta and
// validates it. A file without frontmatter, with malformed YAML, or
// failing schema validation is rejected whole; no partial metadata is
// ever returned to the caller.
func parseInto(raw string, meta any) (string, error) {
	match := frontmatterRegex.FindStringSubmatch(raw)
	if match == nil {
		return "", fmt.Errorf("missing frontmatter block")
	}

	if err := yaml.Unmarshal([]byte(match[1]), meta); err != nil {
		return "", fmt.Errorf("invalid frontmatter YAML: %w", err)
	}

	if err := validate.Struct(meta); err != nil {
		return "", fmt.Errorf("frontmatter validation failed: %w", err)
	}

	return raw[len(match[0]):], nil
}

// HasFrontmatter checks if content starts with a YAML frontmatter block.
func HasFrontmatter(content string) bool {
	return frontmatterRegex.MatchString(content)
}
