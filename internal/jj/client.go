package jj

import "context"

// Client is the narrow VCS capability the core depends on.
//
// No other jj operations (status, new, squash, split) are used by the
// core; those belong to whatever outer shell drives it.
type Client interface {
	// LocalBookmarks returns every local bookmark, ordered
	// deterministically by name.
	LocalBookmarks(ctx context.Context) ([]Bookmark, error)

	// ResolveRevset evaluates expr and returns the matching changes,
	// oldest first. The only expression shape used by the core is
	// "trunk()..<commit_id>".
	ResolveRevset(ctx context.Context, expr string) ([]LogEntry, error)

	// Push pushes bookmark to remote, creating the remote ref if it
	// doesn't already exist. A non-fast-forward push returns a
	// retryable *jjryuerr.Error with Kind VCSCommand.
	Push(ctx context.Context, bookmark, remote string) error

	// Fetch fetches bookmark updates from remote.
	Fetch(ctx context.Context, remote string) error

	// Remotes returns the configured remotes.
	Remotes(ctx context.Context) ([]Remote, error)

	// DefaultBranch reports the trunk bookmark name, e.g. "main".
	DefaultBranch(ctx context.Context) (string, error)
}
