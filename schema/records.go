package schema

import "time"

// RepoInfo is the validated repository payload.
type RepoInfo struct {
	Owner           string
	Name            string
	FullName        string
	Description     string
	HTMLURL         string
	DefaultBranch   string
	PrimaryLanguage string
	Stars           int
	Forks           int
	Watchers        int
	OpenIssues      int
}

// Issue is a validated issue (pull requests are already excluded).
type Issue struct {
	Number    int
	State     string
	Comments  int
	CreatedAt time.Time
	ClosedAt  time.Time
}

// IsClosed reports whether the issue is closed.
func (i Issue) IsClosed() bool {
	return i.State == "closed"
}

// IssueComment is a validated comment on an issue.
type IssueComment struct {
	AuthorLogin string
	AuthorType  string // "User", "Bot", "Organization", ...
	CreatedAt   time.Time
}

// IsHuman reports whether the comment was written by a regular user account.
func (c IssueComment) IsHuman() bool {
	return c.AuthorType == "User"
}

// Commit is a validated commit from the trailing window.
type Commit struct {
	SHA         string
	AuthorLogin string
	AuthorEmail string
	Date        time.Time
}

// Identity returns the contributor identity used for grouping: the platform handle when known,
// otherwise the commit author email.
func (c Commit) Identity() string {
	if c.AuthorLogin != "" {
		return c.AuthorLogin
	}
	return c.AuthorEmail
}

// Release is a validated, non-draft release.
type Release struct {
	TagName     string
	Name        string
	PublishedAt time.Time
	Prerelease  bool
	Assets      []ReleaseAsset
}

// Stargazer is a validated starring event.
type Stargazer struct {
	Login     string
	StarredAt time.Time
}

// WeeklyCodeFrequency is one weekly bucket of the code frequency series.
// Deletions are reported as negative numbers by the platform.
type WeeklyCodeFrequency struct {
	Week      time.Time
	Additions int
	Deletions int
}
