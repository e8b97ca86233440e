package submit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNavComment_format(t *testing.T) {
	stack := []navEntry{
		{BookmarkName: "a", PRURL: "https://example.test/pull/1", PRNumber: 1},
		{BookmarkName: "b", PRURL: "https://example.test/pull/2", PRNumber: 2},
		{BookmarkName: "c", PRURL: "https://example.test/pull/3", PRNumber: 3},
	}

	body, err := RenderNavComment(stack, 1)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	require.True(t, strings.HasPrefix(lines[0], "<!--- "+_navCommentPrefix+" "))
	require.True(t, strings.HasSuffix(lines[0], " --->"))

	// Leaf (c) first, current (b) bolded+marked, root (a) last.
	assert.Equal(t, "* [#3](https://example.test/pull/3)", lines[1])
	assert.Equal(t, "* **#2 👈**", lines[2])
	assert.Equal(t, "* [#1](https://example.test/pull/1)", lines[3])
	assert.Equal(t, "---", lines[4])
	assert.Equal(t, _navCommentFooter, lines[5])
}

func TestNavComment_roundTrip(t *testing.T) {
	stack := []navEntry{
		{BookmarkName: "a", PRURL: "https://example.test/pull/1", PRNumber: 1},
	}

	body, err := RenderNavComment(stack, 0)
	require.NoError(t, err)

	require.True(t, IsNavComment(body))

	payload, err := ParseNavComment(body)
	require.NoError(t, err)
	assert.Equal(t, 0, payload.Version)
	require.Len(t, payload.Stack, 1)
	assert.Equal(t, "a", payload.Stack[0].BookmarkName)
}

func TestIsNavComment_legacyPrefix(t *testing.T) {
	assert.True(t, IsNavComment("<!--- JJ-STACK_INFO: eyJ2IjowfQ== --->\nsome body"))
	assert.False(t, IsNavComment("just a regular comment"))
}
