package submit

import (
	"bytes"
	"context"
	"fmt"

	"go.abhg.dev/jjryu/internal/forge"
	"go.abhg.dev/jjryu/internal/forge/stacknav"
	"go.abhg.dev/jjryu/internal/jj"
	"go.abhg.dev/jjryu/internal/progress"
)

// ExecuteResult summarizes the outcome of a submission run.
type ExecuteResult struct {
	// Success is false if a push, base update, or PR create failed;
	// the run aborts at that point with no rollback of work already
	// done.
	Success bool

	// Errors collects non-fatal errors — currently only comment
	// failures — in the order they occurred; each error's message names
	// the bookmark it was reported against.
	Errors []error
}

// previewItem adapts a SegmentPlan to stacknav.Node so --dry-run can
// render the planned stack as an itemized tree, generalized from the
// branch-tree preview this rendering is grounded on.
type previewItem struct {
	plan    SegmentPlan
	baseIdx int
}

func (p previewItem) Value() string {
	action := "up to date"
	switch {
	case p.plan.ExistingPR == nil:
		action = "will create PR"
	case p.plan.NeedsPush && p.plan.ExistingPR.Base != p.plan.Base:
		action = "will push, update base"
	case p.plan.NeedsPush:
		action = "will push"
	case p.plan.ExistingPR.Base != p.plan.Base:
		action = "will update base"
	}
	return fmt.Sprintf("%s (%s)", p.plan.Bookmark, action)
}

func (p previewItem) BaseIdx() int { return p.baseIdx }

// renderPreview builds the --dry-run summary for plan, root segment
// first.
func renderPreview(plan *SubmissionPlan) string {
	items := make([]previewItem, len(plan.Segments))
	currentIdx := -1
	for i, seg := range plan.Segments {
		items[i] = previewItem{plan: seg, baseIdx: i - 1}
		if seg.Bookmark == plan.TargetBookmark {
			currentIdx = i
		}
	}
	if currentIdx < 0 {
		currentIdx = len(items) - 1
	}

	var buf bytes.Buffer
	stacknav.Print(&buf, items, currentIdx, nil)
	return buf.String()
}

// Execute carries out plan against vcs and repo, reporting progress to
// sink, in the fixed phase order of §4.7: dry-run short-circuit ->
// Push -> UpdateBases -> CreatePRs -> UpdateComments -> Complete.
func Execute(
	ctx context.Context,
	plan *SubmissionPlan,
	vcs jj.Client,
	repo forge.Repository,
	remote string,
	sink progress.Sink,
	dryRun bool,
) (*ExecuteResult, error) {
	if dryRun {
		sink.OnMessage(renderPreview(plan))
		return &ExecuteResult{Success: true}, nil
	}

	result := &ExecuteResult{Success: true}

	sink.OnPhase(progress.PhasePush, true)
	for _, seg := range plan.Segments {
		if !seg.NeedsPush {
			continue
		}
		err := vcs.Push(ctx, seg.Bookmark, remote)
		sink.OnBookmarkPush(seg.Bookmark, err)
		if err != nil {
			sink.OnPhase(progress.PhasePush, false)
			result.Success = false
			return result, fmt.Errorf("push %q: %w", seg.Bookmark, err)
		}
	}
	sink.OnPhase(progress.PhasePush, false)

	sink.OnPhase(progress.PhaseUpdateBases, true)
	for i, seg := range plan.Segments {
		if seg.ExistingPR == nil || seg.ExistingPR.Base == seg.Base {
			continue
		}
		pr, err := repo.UpdatePRBase(ctx, seg.ExistingPR.Number, seg.Base)
		if err != nil {
			sink.OnPhase(progress.PhaseUpdateBases, false)
			result.Success = false
			return result, fmt.Errorf("update base of PR for %q: %w", seg.Bookmark, err)
		}
		plan.Segments[i].ExistingPR = pr
		sink.OnPRUpdated(seg.Bookmark, pr.Number)
	}
	sink.OnPhase(progress.PhaseUpdateBases, false)

	sink.OnPhase(progress.PhaseCreatePRs, true)
	for i, seg := range plan.Segments {
		if seg.ExistingPR != nil {
			continue
		}
		pr, err := repo.CreatePR(ctx, forge.CreatePRRequest{
			Head:  seg.Bookmark,
			Base:  seg.Base,
			Title: seg.Title,
		})
		if err != nil {
			sink.OnPhase(progress.PhaseCreatePRs, false)
			result.Success = false
			return result, fmt.Errorf("create PR for %q: %w", seg.Bookmark, err)
		}
		plan.Segments[i].ExistingPR = pr
		sink.OnPRCreated(seg.Bookmark, pr.Number, pr.HTMLURL)
	}
	sink.OnPhase(progress.PhaseCreatePRs, false)

	sink.OnPhase(progress.PhaseUpdateComments, true)
	entries := make([]navEntry, len(plan.Segments))
	for i, seg := range plan.Segments {
		entries[i] = navEntry{BookmarkName: seg.Bookmark}
		if seg.ExistingPR != nil {
			entries[i].PRURL = seg.ExistingPR.HTMLURL
			entries[i].PRNumber = seg.ExistingPR.Number
		}
	}
	if len(entries) > 1 {
		for i, seg := range plan.Segments {
			if seg.ExistingPR == nil {
				continue
			}
			if err := updateNavComment(ctx, repo, seg.ExistingPR.Number, entries, i); err != nil {
				// Non-fatal per §7's propagation policy.
				result.Errors = append(result.Errors, fmt.Errorf("update stack comment for %q: %w", seg.Bookmark, err))
				sink.OnError(seg.Bookmark, err)
			}
		}
	}
	sink.OnPhase(progress.PhaseUpdateComments, false)

	sink.OnPhase(progress.PhaseComplete, true)
	sink.OnPhase(progress.PhaseComplete, false)

	return result, nil
}

// updateNavComment finds the existing stack navigation comment on PR
// number (by prefix, current or legacy), replacing it; if none is
// found a new one is created.
func updateNavComment(ctx context.Context, repo forge.Repository, number int, entries []navEntry, currentIdx int) error {
	body, err := RenderNavComment(entries, currentIdx)
	if err != nil {
		return err
	}

	comments, err := repo.ListPRComments(ctx, number)
	if err != nil {
		return fmt.Errorf("list comments: %w", err)
	}

	for _, c := range comments {
		if IsNavComment(c.Body) {
			return repo.UpdatePRComment(ctx, number, c.ID, body)
		}
	}

	_, err = repo.CreatePRComment(ctx, number, body)
	return err
}
