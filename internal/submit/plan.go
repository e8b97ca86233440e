package submit

import (
	"context"
	"fmt"

	"go.abhg.dev/jjryu/internal/forge"
	"go.abhg.dev/jjryu/internal/graph"
)

// SegmentPlan is one segment's place in a SubmissionPlan: whether it
// needs a push, and whether it needs a new PR or a base update on an
// existing one.
type SegmentPlan struct {
	SegmentAnalysis

	// NeedsPush reports whether the bookmark's remote tip differs from
	// (or doesn't yet exist at) its local tip.
	NeedsPush bool

	// ExistingPR is the already-open PR for this bookmark, or nil if
	// none exists yet.
	ExistingPR *forge.PullRequest
}

// SubmissionPlan is the additive set of operations the executor will
// carry out: never closes a PR, force-pushes, or deletes a remote
// branch.
type SubmissionPlan struct {
	TargetBookmark string
	Segments       []SegmentPlan
}

// BookmarksNeedingPush returns the bookmark names that must be pushed
// before any PR is created or updated.
func (p *SubmissionPlan) BookmarksNeedingPush() []string {
	var out []string
	for _, seg := range p.Segments {
		if seg.NeedsPush {
			out = append(out, seg.Bookmark)
		}
	}
	return out
}

// PRsToCreate returns the segments that have no existing PR.
func (p *SubmissionPlan) PRsToCreate() []SegmentPlan {
	var out []SegmentPlan
	for _, seg := range p.Segments {
		if seg.ExistingPR == nil {
			out = append(out, seg)
		}
	}
	return out
}

// PRsToUpdateBase returns the segments whose existing PR's base branch
// no longer matches the analyzed expected base.
func (p *SubmissionPlan) PRsToUpdateBase() []SegmentPlan {
	var out []SegmentPlan
	for _, seg := range p.Segments {
		if seg.ExistingPR != nil && seg.ExistingPR.Base != seg.Base {
			out = append(out, seg)
		}
	}
	return out
}

// Plan cross-references analysis against repo.FindExistingPR per
// bookmark, per §4.6. g supplies each bookmark's current sync state
// (BookmarksByName), so a bookmark that is already pushed and in sync
// is not re-pushed.
func Plan(
	ctx context.Context,
	analysis *SubmissionAnalysis,
	g *graph.Graph,
	repo forge.Repository,
) (*SubmissionPlan, error) {
	plan := &SubmissionPlan{
		TargetBookmark: analysis.TargetBookmark,
		Segments:       make([]SegmentPlan, len(analysis.Segments)),
	}

	for i, seg := range analysis.Segments {
		pr, err := repo.FindExistingPR(ctx, seg.Bookmark)
		if err != nil {
			return nil, fmt.Errorf("find existing PR for %q: %w", seg.Bookmark, err)
		}

		b := g.BookmarksByName[seg.Bookmark]
		plan.Segments[i] = SegmentPlan{
			SegmentAnalysis: seg,
			NeedsPush:       !b.HasRemote || !b.IsSynced,
			ExistingPR:      pr,
		}
	}

	return plan, nil
}
