package submit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/jjryu/internal/forge"
	"go.abhg.dev/jjryu/internal/forge/forgetest"
	"go.abhg.dev/jjryu/internal/graph"
	"go.abhg.dev/jjryu/internal/jj"
	"go.abhg.dev/jjryu/internal/progress"
	"go.abhg.dev/jjryu/internal/submit"
)

// fakeClient is a minimal jj.Client for submit tests, mirroring the
// linear-stack scenario 1 fixture used by the graph package's tests.
type fakeClient struct {
	pushed []string
}

var _ jj.Client = (*fakeClient)(nil)

func (f *fakeClient) LocalBookmarks(context.Context) ([]jj.Bookmark, error) {
	return []jj.Bookmark{
		{Name: "a", CommitID: "ca", ChangeID: "xa"},
		{Name: "b", CommitID: "cb", ChangeID: "xb"},
		{Name: "c", CommitID: "cc", ChangeID: "xc"},
	}, nil
}

func (f *fakeClient) ResolveRevset(_ context.Context, expr string) ([]jj.LogEntry, error) {
	all := map[string][]jj.LogEntry{
		"ca": {
			{CommitID: "ca", ChangeID: "xa", Parents: []string{"trunk"}, Bookmarks: []string{"a"}, Description: "Add a"},
		},
		"cb": {
			{CommitID: "ca", ChangeID: "xa", Parents: []string{"trunk"}, Bookmarks: []string{"a"}, Description: "Add a"},
			{CommitID: "cb", ChangeID: "xb", Parents: []string{"ca"}, Bookmarks: []string{"b"}, Description: "Add b"},
		},
		"cc": {
			{CommitID: "ca", ChangeID: "xa", Parents: []string{"trunk"}, Bookmarks: []string{"a"}, Description: "Add a"},
			{CommitID: "cb", ChangeID: "xb", Parents: []string{"ca"}, Bookmarks: []string{"b"}, Description: "Add b"},
			{CommitID: "cc", ChangeID: "xc", Parents: []string{"cb"}, Bookmarks: []string{"c"}, Description: "Add c"},
		},
	}
	var commitID string
	for k := range all {
		if expr == "trunk().."+k {
			commitID = k
		}
	}
	return all[commitID], nil
}

func (f *fakeClient) Push(_ context.Context, bookmark, _ string) error {
	f.pushed = append(f.pushed, bookmark)
	return nil
}

func (f *fakeClient) Fetch(context.Context, string) error            { return nil }
func (f *fakeClient) Remotes(context.Context) ([]jj.Remote, error)   { return nil, nil }
func (f *fakeClient) DefaultBranch(context.Context) (string, error)  { return "main", nil }

// recordingSink records every event for assertion, and relays onMessage
// text for the --dry-run tests.
type recordingSink struct {
	phases   []string
	messages []string
}

var _ progress.Sink = (*recordingSink)(nil)

func (s *recordingSink) OnPhase(phase progress.Phase, begin bool) {
	if begin {
		s.phases = append(s.phases, string(phase)+":begin")
	} else {
		s.phases = append(s.phases, string(phase)+":end")
	}
}
func (s *recordingSink) OnBookmarkPush(string, error)       {}
func (s *recordingSink) OnPRCreated(string, int, string)    {}
func (s *recordingSink) OnPRUpdated(string, int)            {}
func (s *recordingSink) OnError(string, error)              {}
func (s *recordingSink) OnMessage(msg string)               { s.messages = append(s.messages, msg) }

func buildGraph(t *testing.T) (*graph.Graph, *fakeClient) {
	t.Helper()
	c := &fakeClient{}
	g, err := graph.Build(t.Context(), c)
	require.NoError(t, err)
	return g, c
}

func TestAnalyze_linearStack(t *testing.T) {
	g, _ := buildGraph(t)

	analysis, err := submit.Analyze(g, "c", "main")
	require.NoError(t, err)

	require.Len(t, analysis.Segments, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{
		analysis.Segments[0].Bookmark, analysis.Segments[1].Bookmark, analysis.Segments[2].Bookmark,
	})
	assert.Equal(t, "main", analysis.Segments[0].Base)
	assert.Equal(t, "a", analysis.Segments[1].Base)
	assert.Equal(t, "b", analysis.Segments[2].Base)
	assert.Equal(t, "Add a", analysis.Segments[0].Title)
}

func TestAnalyze_unknownBookmark(t *testing.T) {
	g, _ := buildGraph(t)

	_, err := submit.Analyze(g, "does-not-exist", "main")
	require.Error(t, err)
}

func TestPlan_allNew(t *testing.T) {
	g, _ := buildGraph(t)
	analysis, err := submit.Analyze(g, "c", "main")
	require.NoError(t, err)

	repo := forgetest.New(forge.PlatformConfig{Owner: "acme", Repo: "widgets"})
	plan, err := submit.Plan(t.Context(), analysis, g, repo)
	require.NoError(t, err)

	require.Len(t, plan.PRsToCreate(), 3)
	assert.Empty(t, plan.PRsToUpdateBase())
	assert.ElementsMatch(t, []string{"a", "b", "c"}, plan.BookmarksNeedingPush())
}

func TestPlan_existingPRNeedsBaseUpdate(t *testing.T) {
	g, _ := buildGraph(t)
	analysis, err := submit.Analyze(g, "c", "main")
	require.NoError(t, err)

	repo := forgetest.New(forge.PlatformConfig{Owner: "acme", Repo: "widgets"})
	repo.SeedPR(forge.PullRequest{Head: "a", Base: "develop", Title: "Add a"})

	plan, err := submit.Plan(t.Context(), analysis, g, repo)
	require.NoError(t, err)

	require.Len(t, plan.PRsToUpdateBase(), 1)
	assert.Equal(t, "a", plan.PRsToUpdateBase()[0].Bookmark)
}

func TestExecute_createsPRsAndNavComment(t *testing.T) {
	g, c := buildGraph(t)
	analysis, err := submit.Analyze(g, "c", "main")
	require.NoError(t, err)

	repo := forgetest.New(forge.PlatformConfig{Owner: "acme", Repo: "widgets"})
	plan, err := submit.Plan(t.Context(), analysis, g, repo)
	require.NoError(t, err)

	sink := &recordingSink{}
	result, err := submit.Execute(t.Context(), plan, c, repo, "origin", sink, false)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)

	assert.ElementsMatch(t, []string{"a", "b", "c"}, c.pushed)

	for _, name := range []string{"a", "b", "c"} {
		pr, err := repo.FindExistingPR(t.Context(), name)
		require.NoError(t, err)
		require.NotNil(t, pr)

		comments, err := repo.ListPRComments(t.Context(), pr.Number)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.True(t, submit.IsNavComment(comments[0].Body))
	}

	expectedPhases := []string{
		"push:begin", "push:end",
		"update-bases:begin", "update-bases:end",
		"create-prs:begin", "create-prs:end",
		"update-comments:begin", "update-comments:end",
		"complete:begin", "complete:end",
	}
	assert.Equal(t, expectedPhases, sink.phases)
}

func TestExecute_dryRun(t *testing.T) {
	g, c := buildGraph(t)
	analysis, err := submit.Analyze(g, "c", "main")
	require.NoError(t, err)

	repo := forgetest.New(forge.PlatformConfig{Owner: "acme", Repo: "widgets"})
	plan, err := submit.Plan(t.Context(), analysis, g, repo)
	require.NoError(t, err)

	sink := &recordingSink{}
	result, err := submit.Execute(t.Context(), plan, c, repo, "origin", sink, true)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, c.pushed)
	require.Len(t, sink.messages, 1)
	assert.Contains(t, sink.messages[0], "will create PR")
}

func TestExecute_existingCommentUpdatedInPlace(t *testing.T) {
	g, c := buildGraph(t)
	analysis, err := submit.Analyze(g, "b", "main")
	require.NoError(t, err)

	repo := forgetest.New(forge.PlatformConfig{Owner: "acme", Repo: "widgets"})
	pr := repo.SeedPR(forge.PullRequest{Head: "a", Base: "main", Title: "Add a"})
	_, err = repo.CreatePRComment(t.Context(), pr.Number, "<!--- JJ-STACK_INFO: legacy --->\nold content")
	require.NoError(t, err)
	repo.SeedPR(forge.PullRequest{Head: "b", Base: "a", Title: "Add b"})

	plan, err := submit.Plan(t.Context(), analysis, g, repo)
	require.NoError(t, err)

	sink := &recordingSink{}
	_, err = submit.Execute(t.Context(), plan, c, repo, "origin", sink, false)
	require.NoError(t, err)

	comments, err := repo.ListPRComments(t.Context(), pr.Number)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.True(t, submit.IsNavComment(comments[0].Body))
	assert.NotContains(t, comments[0].Body, "old content")
}
