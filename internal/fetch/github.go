package fetch

import (
	"context"
	"fmt"

	"github.com/google/go-github/v68/github"
)

// GitHub fetches file content through the GitHub contents API. The API
// returns base64-encoded bytes; decoding is handled by the client.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHub creates a fetcher for one repository. An empty token works
// for public repositories within unauthenticated rate limits.
func NewGitHub(owner, repo, token string) *GitHub {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHub{client: client, owner: owner, repo: repo}
}

// Fetch retrieves a file at the given ref. Not-found, directory paths and
// transport failures all surface as a single fetch error; the caller
// treats any of them as a per-file failure.
func (g *GitHub) Fetch(ctx context.Context, path, ref string) (string, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	fileContent, _, _, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, path, opts)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s@%s: %w", path, ref, err)
	}
	if fileContent == nil {
		return "", fmt.Errorf("path %s is a directory", path)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return content, nil
}
