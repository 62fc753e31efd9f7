package webhook

import (
	"path"
	"regexp"
	"strings"
)

// ResourceType classifies a content file by its subdirectory.
type ResourceType string

const (
	ResourcePost   ResourceType = "post"
	ResourceAuthor ResourceType = "author"
	ResourcePage   ResourceType = "page"
)

const contentExt = ".md"

// datePrefixRegex matches the YYYY-MM-DD- prefix on post filenames.
var datePrefixRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-`)

// Change is one content file affected by a push.
type Change struct {
	Path string
	Type ResourceType
	Slug string
}

// ChangeSet holds the classified changes of one push. Upserts preserve
// payload order (added before modified); Removals are processed after
// upserts by the engine.
type ChangeSet struct {
	Upserts  []Change
	Removals []Change
}

// Empty reports whether the push touched no content files.
func (cs *ChangeSet) Empty() bool {
	return len(cs.Upserts) == 0 && len(cs.Removals) == 0
}

// ExtractChangeSet filters a push event's changed paths to the content
// root and classifies each by resource type. Paths outside the root, with
// the wrong extension, or in an unrecognized subdirectory are dropped
// silently: an unrelated file changed, which is not an error.
func ExtractChangeSet(event *PushEvent, contentRoot string) *ChangeSet {
	cs := &ChangeSet{}
	if event.HeadCommit == nil {
		return cs
	}

	for _, p := range event.HeadCommit.Added {
		if c, ok := Classify(p, contentRoot); ok {
			cs.Upserts = append(cs.Upserts, c)
		}
	}
	for _, p := range event.HeadCommit.Modified {
		if c, ok := Classify(p, contentRoot); ok {
			cs.Upserts = append(cs.Upserts, c)
		}
	}
	for _, p := range event.HeadCommit.Removed {
		if c, ok := Classify(p, contentRoot); ok {
			cs.Removals = append(cs.Removals, c)
		}
	}

	return cs
}

// Classify maps a repository path to a content change. The second return
// is false for paths the sync engine does not care about.
func Classify(p, contentRoot string) (Change, bool) {
	p = path.Clean(strings.TrimPrefix(p, "/"))
	if !strings.HasSuffix(p, contentExt) {
		return Change{}, false
	}

	rel, ok := strings.CutPrefix(p, strings.TrimSuffix(contentRoot, "/")+"/")
	if !ok {
		return Change{}, false
	}

	dir, file := path.Split(rel)
	var rt ResourceType
	switch strings.TrimSuffix(dir, "/") {
	case "posts":
		rt = ResourcePost
	case "authors":
		rt = ResourceAuthor
	case "pages":
		rt = ResourcePage
	default:
		return Change{}, false
	}

	return Change{Path: p, Type: rt, Slug: deriveSlug(file, rt)}, true
}

// deriveSlug strips the extension and, for posts, the leading date prefix.
func deriveSlug(file string, rt ResourceType) string {
	slug := strings.TrimSuffix(file, contentExt)
	if rt == ResourcePost {
		slug = datePrefixRegex.ReplaceAllString(slug, "")
	}
	return slug
}
