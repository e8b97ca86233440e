// Package submit implements the submission analyzer (C5), planner
// (C6), and executor (C7): the pipeline that turns a change graph into
// a plan of forge operations and carries it out.
package submit

// SegmentAnalysis is one narrowed segment on the path from a target
// bookmark's stack root to its head, with its derived base and title.
type SegmentAnalysis struct {
	// Bookmark is the narrowed (tie-broken) bookmark name for this
	// segment, per §4.4/§4.5's "first bookmark in head order" rule.
	Bookmark string

	// HeadChangeID is the segment's head change id, for diagnostics.
	HeadChangeID string

	// Base is the expected PR base branch: the repository's default
	// branch for the root segment, or the previous (parent) segment's
	// narrowed bookmark otherwise.
	Base string

	// Title is the PR title: the first non-empty line of the head
	// change's description, falling back to the bookmark name.
	Title string
}

// SubmissionAnalysis is the root-to-head path for one target bookmark.
type SubmissionAnalysis struct {
	// TargetBookmark is the bookmark name the caller asked to submit.
	TargetBookmark string

	// Segments lists the path from the stack's root segment to the
	// target bookmark's segment, root first.
	Segments []SegmentAnalysis
}
