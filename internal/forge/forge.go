// Package forge defines the narrow platform-adapter contract the core
// depends on (C2) and the remote-URL classifier (C3). Concrete
// implementations live in the github and gitlab subpackages.
package forge

import "context"

// Platform identifies a supported hosting platform.
type Platform int

const (
	// GitHub is github.com or a GitHub Enterprise host.
	GitHub Platform = iota + 1
	// GitLab is gitlab.com or a self-managed GitLab host.
	GitLab
)

func (p Platform) String() string {
	switch p {
	case GitHub:
		return "github"
	case GitLab:
		return "gitlab"
	default:
		return "unknown"
	}
}

// PlatformConfig identifies the repository a Repository talks to.
type PlatformConfig struct {
	Platform Platform

	// Owner is the repository owner or group path (GitLab supports
	// nested groups, joined with "/").
	Owner string

	// Repo is the repository name.
	Repo string

	// Host is set only for a non-default (enterprise/self-managed)
	// host; empty means the platform's public host.
	Host string
}

// PullRequest is a pull or merge request, modeled uniformly across
// GitHub and GitLab.
type PullRequest struct {
	Number  int
	HTMLURL string
	Base    string
	Head    string
	Title   string
}

// PRComment is a single issue-style comment on a pull/merge request.
type PRComment struct {
	ID   string
	Body string
}

// CreatePRRequest describes a pull/merge request to create. The head
// branch must already have been pushed to the remote.
type CreatePRRequest struct {
	Head  string
	Base  string
	Title string
	Body  string
}

// Repository is a Git repository hosted on a forge. All calls are
// idempotent at the intent level: avoiding a duplicate create, a
// redundant base update, or a duplicate comment is the caller's
// (planner's) responsibility, not this interface's.
type Repository interface {
	// FindExistingPR returns the open PR with the given head branch,
	// or nil if none exists.
	FindExistingPR(ctx context.Context, headBranch string) (*PullRequest, error)

	CreatePR(ctx context.Context, req CreatePRRequest) (*PullRequest, error)
	UpdatePRBase(ctx context.Context, number int, newBase string) (*PullRequest, error)

	ListPRComments(ctx context.Context, number int) ([]PRComment, error)
	CreatePRComment(ctx context.Context, number int, body string) (PRComment, error)
	UpdatePRComment(ctx context.Context, number int, commentID, body string) error

	// Config reports the (owner, repo, host) this Repository talks to.
	Config() PlatformConfig
}
