package graph

import (
	"context"
	"fmt"
	"sort"

	"go.abhg.dev/container/ring"
	"go.abhg.dev/jjryu/internal/jj"
	"go.abhg.dev/jjryu/internal/jjryuerr"
	"go.abhg.dev/jjryu/internal/must"
)

// Segment is a maximal run of consecutive changes in the trunk-to-leaf
// direction whose head (newest) change carries one or more local
// bookmarks, and whose interior (older) changes carry none. A segment's
// identity is the change id of its head.
type Segment struct {
	// Head is the change id of the segment's newest change.
	Head string

	// Bookmarks lists every local bookmark pointing at Head, in the
	// order jj reported them (stable across a traversal).
	Bookmarks []string

	// Changes holds the segment's changes, newest first.
	Changes []jj.LogEntry
}

// Bookmark returns the narrowed (first-by-order) bookmark for this
// segment, per the §4.4 tie-break rule.
func (s *Segment) Bookmark() string {
	if len(s.Bookmarks) == 0 {
		return ""
	}
	return s.Bookmarks[0]
}

// Stack is an ordered list of segments from a trunk-adjacent root
// segment to a leaf segment.
type Stack []*Segment

// Graph is the change graph: the union of all segments discovered from
// all local bookmarks.
type Graph struct {
	BookmarksByName map[string]jj.Bookmark

	// SegmentByHeadChangeID maps a segment's head change id to its
	// contents.
	SegmentByHeadChangeID map[string]*Segment

	// ParentOf maps a child segment's head change id to its parent
	// segment's head change id. Root heads have no entry.
	ParentOf map[string]string

	// Roots holds the change ids of segment heads whose parent is
	// trunk.
	Roots map[string]struct{}

	// Leaves holds the change ids of segment heads with no child in
	// ParentOf.
	Leaves map[string]struct{}

	// Stacks lists every stack discovered, each ordered root to leaf.
	Stacks []Stack

	// ExcludedBookmarkCount counts bookmarks skipped because they, or
	// an ancestor on their trunk()..bookmark path, is a merge.
	ExcludedBookmarkCount int
}

// HeadForBookmark returns the change id of the segment head that owns
// bookmark name, if any.
func (g *Graph) HeadForBookmark(name string) (string, bool) {
	for head, seg := range g.SegmentByHeadChangeID {
		for _, b := range seg.Bookmarks {
			if b == name {
				return head, true
			}
		}
	}
	return "", false
}

// Build discovers the change graph from every local bookmark reported
// by client, implementing the algorithm of spec §4.4.
func Build(ctx context.Context, client jj.Client) (*Graph, error) {
	bookmarks, err := client.LocalBookmarks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list local bookmarks: %w", err)
	}

	bookmarksByName := make(map[string]jj.Bookmark, len(bookmarks))
	for _, b := range bookmarks {
		bookmarksByName[b.Name] = b
	}

	g := &Graph{
		BookmarksByName:       bookmarksByName,
		SegmentByHeadChangeID: make(map[string]*Segment),
		ParentOf:              make(map[string]string),
		Roots:                 make(map[string]struct{}),
		Leaves:                make(map[string]struct{}),
	}

	fullyCollected := make(map[string]bool, len(bookmarks))
	taintedChangeIDs := make(map[string]bool)

	for _, b := range bookmarks {
		if fullyCollected[b.Name] {
			continue
		}

		expr := fmt.Sprintf("trunk()..%s", b.CommitID)
		entries, err := client.ResolveRevset(ctx, expr)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", expr, err)
		}

		if tainted(entries, taintedChangeIDs) {
			g.ExcludedBookmarkCount++
			continue
		}

		if err := g.collectSegments(b.Name, entries, fullyCollected); err != nil {
			return nil, err
		}
	}

	if err := g.assembleStacks(); err != nil {
		return nil, err
	}
	return g, nil
}

// tainted pre-scans entries (oldest first) for a merge, or a change
// already known to be tainted. If found, every change id seen up to and
// including that point is recorded in taintedChangeIDs and true is
// returned.
func tainted(entries []jj.LogEntry, taintedChangeIDs map[string]bool) bool {
	seen := make([]string, 0, len(entries))
	for _, e := range entries {
		seen = append(seen, e.ChangeID)
		if e.IsMerge() || taintedChangeIDs[e.ChangeID] {
			for _, cid := range seen {
				taintedChangeIDs[cid] = true
			}
			return true
		}
	}
	return false
}

// collectSegments walks entries newest-to-oldest (reversing the
// oldest-first order ResolveRevset returns, per the builder's internal
// working convention), carving out raw segments at each bookmark
// boundary, until it either reaches trunk or an already-collected
// bookmark.
func (g *Graph) collectSegments(
	bookmarkName string,
	entries []jj.LogEntry,
	fullyCollected map[string]bool,
) error {
	var (
		segments       []*Segment
		current        *Segment
		alreadySeenRef string
	)

	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]

		if len(entry.Bookmarks) > 0 {
			if intersects(entry.Bookmarks, fullyCollected) {
				alreadySeenRef = entry.ChangeID
				break
			}

			current = &Segment{
				Head:      entry.ChangeID,
				Bookmarks: append([]string(nil), entry.Bookmarks...),
			}
			segments = append(segments, current)
		}

		if current != nil {
			current.Changes = append(current.Changes, entry)
		}
	}

	if len(segments) == 0 {
		// The bookmark's own commit always carries at least itself as
		// a local bookmark, so this only happens for a malformed
		// adapter response.
		return &jjryuerr.Error{
			Kind:     jjryuerr.Internal,
			Op:       "graph.Build",
			Bookmark: bookmarkName,
			Err:      fmt.Errorf("trunk()..<commit> produced no bookmarked segment"),
		}
	}

	for _, seg := range segments {
		g.SegmentByHeadChangeID[seg.Head] = seg
		for _, b := range seg.Bookmarks {
			fullyCollected[b] = true
		}
	}

	for i := 0; i < len(segments)-1; i++ {
		g.ParentOf[segments[i].Head] = segments[i+1].Head
	}

	last := segments[len(segments)-1]
	if alreadySeenRef != "" {
		must.Bef(alreadySeenRef != last.Head, "segment cannot be its own parent")
		g.ParentOf[last.Head] = alreadySeenRef
	} else {
		g.Roots[last.Head] = struct{}{}
	}

	return nil
}

func intersects(bookmarks []string, fullyCollected map[string]bool) bool {
	for _, b := range bookmarks {
		if fullyCollected[b] {
			return true
		}
	}
	return false
}

// assembleStacks computes Leaves and Stacks from SegmentByHeadChangeID
// and ParentOf. A parent reference to an unknown segment head is reported
// as an Internal error.
func (g *Graph) assembleStacks() error {
	hasChild := make(map[string]bool, len(g.ParentOf))
	for _, parent := range g.ParentOf {
		hasChild[parent] = true
	}

	var leaves []string
	for head := range g.SegmentByHeadChangeID {
		if !hasChild[head] {
			g.Leaves[head] = struct{}{}
			leaves = append(leaves, head)
		}
	}
	sort.Strings(leaves) // deterministic stack ordering

	var leafQueue ring.Q[string]
	for _, leaf := range leaves {
		leafQueue.PushBack(leaf)
	}

	for leafQueue.Len() > 0 {
		leaf, _ := leafQueue.PopFront()

		var path []string
		visited := make(map[string]bool)
		for cur := leaf; ; {
			must.NotBef(visited[cur], "parent_of cycle detected at %q", cur)
			visited[cur] = true
			path = append(path, cur)

			parent, ok := g.ParentOf[cur]
			if !ok {
				break
			}
			cur = parent
		}

		stack := make(Stack, 0, len(path))
		for i := len(path) - 1; i >= 0; i-- {
			seg, ok := g.SegmentByHeadChangeID[path[i]]
			if !ok {
				return &jjryuerr.Error{
					Kind: jjryuerr.Internal,
					Op:   "graph.Build",
					Err:  fmt.Errorf("dangling parent reference to %q", path[i]),
				}
			}
			stack = append(stack, seg)
		}
		g.Stacks = append(g.Stacks, stack)
	}
	return nil
}
