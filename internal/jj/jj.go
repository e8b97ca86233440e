// Package jj implements the VCS adapter consumed by the stack-discovery
// and submission core: enumerating local bookmarks, evaluating
// trunk()..<commit> revsets, and pushing/fetching bookmarks, all by
// shelling out to the jj binary.
package jj

import "time"

// Bookmark is a named, movable reference to a commit.
type Bookmark struct {
	// Name is the bookmark's name, e.g. "feature/foo".
	Name string

	// CommitID is the content hash of the commit the bookmark points at.
	CommitID string

	// ChangeID is the stable change identity at the bookmark's target.
	ChangeID string

	// HasRemote reports whether a tracking counterpart exists on any
	// remote.
	HasRemote bool

	// IsSynced reports whether the remote tip equals the local tip.
	// Always false when HasRemote is false.
	IsSynced bool
}

// LogEntry is one change on a trunk-to-bookmark path.
type LogEntry struct {
	// CommitID is the change's content-addressed commit id.
	CommitID string

	// ChangeID is the change's stable identity, unique within a
	// traversal.
	ChangeID string

	// Parents holds the ordered parent commit ids of this change.
	// Len > 1 indicates a merge.
	Parents []string

	// Description is the first line of the change's description.
	Description string

	// Bookmarks lists the local bookmark names that point at this
	// change, in a stable order.
	Bookmarks []string

	// WorkingCopy reports whether this entry is the working-copy
	// commit (jj's "@").
	WorkingCopy bool

	// Author is the change's recorded author.
	Author string

	// Timestamp is the change's recorded authoring time.
	Timestamp time.Time
}

// Remote is a configured remote repository.
type Remote struct {
	Name string
	URL  string
}

// IsMerge reports whether the entry has more than one parent.
func (e LogEntry) IsMerge() bool {
	return len(e.Parents) > 1
}
