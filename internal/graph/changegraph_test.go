package graph_test

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/jjryu/internal/graph"
	"go.abhg.dev/jjryu/internal/jj"
	"pgregory.net/rapid"
)

// fakeClient is a minimal jj.Client backed by an in-memory commit graph,
// used to drive graph.Build without shelling out to a real jj binary.
type fakeClient struct {
	bookmarks []jj.Bookmark
	// revsets maps a bookmark's commit id to the trunk()..<commit>
	// result, oldest first, as the real adapter would return it.
	revsets map[string][]jj.LogEntry
}

var _ jj.Client = (*fakeClient)(nil)

func (f *fakeClient) LocalBookmarks(context.Context) ([]jj.Bookmark, error) {
	out := append([]jj.Bookmark(nil), f.bookmarks...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeClient) ResolveRevset(_ context.Context, expr string) ([]jj.LogEntry, error) {
	var commitID string
	if _, err := fmt.Sscanf(expr, "trunk()..%s", &commitID); err != nil {
		return nil, err
	}
	return f.revsets[commitID], nil
}

func (f *fakeClient) Push(context.Context, string, string) error        { return nil }
func (f *fakeClient) Fetch(context.Context, string) error               { return nil }
func (f *fakeClient) Remotes(context.Context) ([]jj.Remote, error)       { return nil, nil }
func (f *fakeClient) DefaultBranch(context.Context) (string, error)     { return "main", nil }

// linearStack builds a, b, c each stacked on the previous, matching
// spec §8 scenario 1.
func linearStack() *fakeClient {
	return &fakeClient{
		bookmarks: []jj.Bookmark{
			{Name: "a", CommitID: "ca", ChangeID: "xa", HasRemote: false},
			{Name: "b", CommitID: "cb", ChangeID: "xb", HasRemote: false},
			{Name: "c", CommitID: "cc", ChangeID: "xc", HasRemote: false},
		},
		revsets: map[string][]jj.LogEntry{
			"ca": {
				{CommitID: "ca", ChangeID: "xa", Parents: []string{"trunk"}, Bookmarks: []string{"a"}},
			},
			"cb": {
				{CommitID: "ca", ChangeID: "xa", Parents: []string{"trunk"}, Bookmarks: []string{"a"}},
				{CommitID: "cb", ChangeID: "xb", Parents: []string{"ca"}, Bookmarks: []string{"b"}},
			},
			"cc": {
				{CommitID: "ca", ChangeID: "xa", Parents: []string{"trunk"}, Bookmarks: []string{"a"}},
				{CommitID: "cb", ChangeID: "xb", Parents: []string{"ca"}, Bookmarks: []string{"b"}},
				{CommitID: "cc", ChangeID: "xc", Parents: []string{"cb"}, Bookmarks: []string{"c"}},
			},
		},
	}
}

func TestBuild_linearStack(t *testing.T) {
	g, err := graph.Build(context.Background(), linearStack())
	require.NoError(t, err)

	require.Len(t, g.Stacks, 1)
	stack := g.Stacks[0]
	require.Len(t, stack, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{
		stack[0].Bookmark(), stack[1].Bookmark(), stack[2].Bookmark(),
	})

	assert.Contains(t, g.Roots, "xa")
	assert.Contains(t, g.Leaves, "xc")
	assert.Equal(t, "xa", g.ParentOf["xb"])
	assert.Equal(t, "xb", g.ParentOf["xc"])
	assert.Zero(t, g.ExcludedBookmarkCount)
}

func TestBuild_mergeTaint(t *testing.T) {
	c := &fakeClient{
		bookmarks: []jj.Bookmark{
			{Name: "merged", CommitID: "cm", ChangeID: "xm"},
			{Name: "onmerge", CommitID: "co", ChangeID: "xo"},
		},
		revsets: map[string][]jj.LogEntry{
			"cm": {
				{CommitID: "c1", ChangeID: "x1", Parents: []string{"trunk", "other"}},
				{CommitID: "cm", ChangeID: "xm", Parents: []string{"c1"}, Bookmarks: []string{"merged"}},
			},
			"co": {
				{CommitID: "c1", ChangeID: "x1", Parents: []string{"trunk", "other"}},
				{CommitID: "cm", ChangeID: "xm", Parents: []string{"c1"}, Bookmarks: []string{"merged"}},
				{CommitID: "co", ChangeID: "xo", Parents: []string{"cm"}, Bookmarks: []string{"onmerge"}},
			},
		},
	}

	g, err := graph.Build(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, 2, g.ExcludedBookmarkCount)
	assert.Empty(t, g.Stacks)
	assert.Empty(t, g.SegmentByHeadChangeID)
}

func TestBuild_multiBookmarkSegment(t *testing.T) {
	c := &fakeClient{
		bookmarks: []jj.Bookmark{
			{Name: "x", CommitID: "cx", ChangeID: "shared"},
			{Name: "y", CommitID: "cx", ChangeID: "shared"},
		},
		revsets: map[string][]jj.LogEntry{
			"cx": {
				{CommitID: "cx", ChangeID: "shared", Parents: []string{"trunk"}, Bookmarks: []string{"x", "y"}},
			},
		},
	}

	g, err := graph.Build(context.Background(), c)
	require.NoError(t, err)

	require.Len(t, g.Stacks, 1)
	require.Len(t, g.Stacks[0], 1)
	seg := g.Stacks[0][0]
	assert.Equal(t, []string{"x", "y"}, seg.Bookmarks)
	assert.Equal(t, "x", seg.Bookmark())

	head, ok := g.HeadForBookmark("y")
	require.True(t, ok)
	assert.Equal(t, "shared", head)
}

// TestBuild_propertyInvariants is a property-based test of P1 (every
// bookmark appears in exactly one segment or is excluded) and P2
// (parent_of is acyclic) over randomly generated linear topologies with
// occasional merges.
func TestBuild_propertyInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "n")

		var bookmarks []jj.Bookmark
		revsets := make(map[string][]jj.LogEntry)

		var chain []jj.LogEntry
		for i := 0; i < n; i++ {
			changeID := fmt.Sprintf("x%d", i)
			commitID := fmt.Sprintf("c%d", i)
			name := fmt.Sprintf("b%d", i)

			parents := []string{"trunk"}
			if i > 0 {
				parents = []string{chain[i-1].CommitID}
			}
			if rapid.Bool().Draw(t, fmt.Sprintf("merge%d", i)) && i > 0 {
				parents = append(parents, "sideline")
			}

			entry := jj.LogEntry{
				CommitID:  commitID,
				ChangeID:  changeID,
				Parents:   parents,
				Bookmarks: []string{name},
			}
			chain = append(chain, entry)
			bookmarks = append(bookmarks, jj.Bookmark{Name: name, CommitID: commitID, ChangeID: changeID})
			revsets[commitID] = append([]jj.LogEntry(nil), chain...)
		}

		c := &fakeClient{bookmarks: bookmarks, revsets: revsets}
		g, err := graph.Build(context.Background(), c)
		require.NoError(t, err)

		// P1: every bookmark is either in some segment's head bookmark
		// list, or contributed to ExcludedBookmarkCount.
		inSegment := make(map[string]bool)
		for _, seg := range g.SegmentByHeadChangeID {
			for _, b := range seg.Bookmarks {
				inSegment[b] = true
			}
		}
		accounted := 0
		for _, b := range bookmarks {
			if inSegment[b.Name] {
				accounted++
			}
		}
		assert.Equal(t, len(bookmarks), accounted+g.ExcludedBookmarkCount)

		// P2: parent_of is acyclic.
		for head := range g.SegmentByHeadChangeID {
			visited := make(map[string]bool)
			cur := head
			steps := 0
			for {
				if visited[cur] {
					t.Fatalf("cycle detected starting at %q", head)
				}
				visited[cur] = true
				steps++
				require.LessOrEqual(t, steps, len(g.SegmentByHeadChangeID)+1)

				parent, ok := g.ParentOf[cur]
				if !ok {
					break
				}
				cur = parent
			}
		}
	})
}
