package webhook

// PushEvent is the subset of a GitHub push payload the sync engine reads.
type PushEvent struct {
	Ref        string     `json:"ref"`
	Before     string     `json:"before"`
	After      string     `json:"after"`
	Repository Repository `json:"repository"`
	HeadCommit *Commit    `json:"head_commit"`
	Commits    []Commit   `json:"commits"`
	Pusher     Pusher     `json:"pusher"`
}

// Repository identifies the repository the push came from.
type Repository struct {
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
}

// Commit carries the changed-path lists for one commit.
type Commit struct {
	ID       string   `json:"id"`
	Message  string   `json:"message"`
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Removed  []string `json:"removed"`
}

// Pusher is the account that performed the push.
type Pusher struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CommitSHA returns the commit ref files should be fetched at.
func (e *PushEvent) CommitSHA() string {
	if e.HeadCommit != nil && e.HeadCommit.ID != "" {
		return e.HeadCommit.ID
	}
	return e.After
}
