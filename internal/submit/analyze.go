package submit

import (
	"fmt"

	"go.abhg.dev/jjryu/internal/graph"
	"go.abhg.dev/jjryu/internal/jjryuerr"
)

// Analyze resolves targetBookmark to its segment, walks graph.ParentOf
// to the stack's root, and derives each segment's expected PR base and
// title, per §4.5.
func Analyze(g *graph.Graph, targetBookmark, defaultBranch string) (*SubmissionAnalysis, error) {
	head, ok := g.HeadForBookmark(targetBookmark)
	if !ok {
		return nil, &jjryuerr.Error{
			Kind:     jjryuerr.BookmarkNotFound,
			Op:       "submit.Analyze",
			Bookmark: targetBookmark,
		}
	}

	var path []string // leaf (target) to root
	visited := make(map[string]bool)
	for cur := head; ; {
		if visited[cur] {
			return nil, &jjryuerr.Error{
				Kind:     jjryuerr.Internal,
				Op:       "submit.Analyze",
				Bookmark: targetBookmark,
				Err:      fmt.Errorf("cycle detected in parent_of at %q", cur),
			}
		}
		visited[cur] = true
		path = append(path, cur)

		parent, ok := g.ParentOf[cur]
		if !ok {
			break
		}
		cur = parent
	}

	// path is leaf (target) to root; walk it in reverse to build
	// segments root first, per SubmissionAnalysis.Segments' contract.
	segments := make([]SegmentAnalysis, 0, len(path))
	base := defaultBranch
	for i := len(path) - 1; i >= 0; i-- {
		seg, ok := g.SegmentByHeadChangeID[path[i]]
		if !ok {
			return nil, &jjryuerr.Error{
				Kind:     jjryuerr.Internal,
				Op:       "submit.Analyze",
				Bookmark: targetBookmark,
				Err:      fmt.Errorf("dangling segment reference to %q", path[i]),
			}
		}

		title := seg.Bookmark()
		if len(seg.Changes) > 0 && seg.Changes[0].Description != "" {
			title = seg.Changes[0].Description
		}

		segments = append(segments, SegmentAnalysis{
			Bookmark:     seg.Bookmark(),
			HeadChangeID: seg.Head,
			Base:         base,
			Title:        title,
		})
		base = seg.Bookmark()
	}

	return &SubmissionAnalysis{
		TargetBookmark: targetBookmark,
		Segments:       segments,
	}, nil
}
