package submit

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	_navCommentPrefix    = "JJ-RYU_STACK:"
	_legacyCommentPrefix = "JJ-STACK_INFO:"
	_navCommentFooter    = "This stack of pull requests is managed by jj-ryu."
)

// navEntry is one bookmark's entry in the stack navigation payload,
// root first (plan order).
type navEntry struct {
	BookmarkName string `json:"bookmark_name"`
	PRURL        string `json:"pr_url"`
	PRNumber     int    `json:"pr_number"`
}

// navPayload is the JSON object embedded, base64-encoded, in the stack
// navigation comment.
type navPayload struct {
	Version int        `json:"version"`
	Stack   []navEntry `json:"stack"`
}

// RenderNavComment builds the stack navigation comment body for the
// bookmark at currentIdx (0 = root) within stack (root first), per
// §4.7's byte-for-byte format: the JSON payload stays in plan
// (root→leaf) order, but the rendered list reads newest/leaf first
// with the current entry bolded and marked.
func RenderNavComment(stack []navEntry, currentIdx int) (string, error) {
	payload := navPayload{Version: 0, Stack: stack}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal stack navigation payload: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	var body strings.Builder
	fmt.Fprintf(&body, "<!--- %s %s --->\n", _navCommentPrefix, encoded)

	for i := len(stack) - 1; i >= 0; i-- {
		e := stack[i]
		if i == currentIdx {
			fmt.Fprintf(&body, "* **#%d 👈**\n", e.PRNumber)
		} else {
			fmt.Fprintf(&body, "* [#%d](%s)\n", e.PRNumber, e.PRURL)
		}
	}

	body.WriteString("---\n")
	body.WriteString(_navCommentFooter)
	body.WriteString("\n")

	return body.String(), nil
}

// IsNavComment reports whether body is a stack navigation comment,
// recognizing both the current prefix and the legacy one so a
// repository that already has an older-format comment is updated in
// place instead of duplicated.
func IsNavComment(body string) bool {
	return strings.Contains(body, _navCommentPrefix) || strings.Contains(body, _legacyCommentPrefix)
}

// ParseNavComment extracts the base64(JSON) payload from an existing
// stack navigation comment, for round-tripping. It only understands
// the current prefix; a legacy comment is recognized by IsNavComment
// for replacement purposes but its payload is not decoded.
func ParseNavComment(body string) (*navPayload, error) {
	idx := strings.Index(body, _navCommentPrefix)
	if idx < 0 {
		return nil, fmt.Errorf("no %s marker found", _navCommentPrefix)
	}

	rest := body[idx+len(_navCommentPrefix):]
	end := strings.Index(rest, "--->")
	if end < 0 {
		return nil, fmt.Errorf("unterminated %s marker", _navCommentPrefix)
	}

	encoded := strings.TrimSpace(rest[:end])
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode stack navigation payload: %w", err)
	}

	var payload navPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal stack navigation payload: %w", err)
	}
	return &payload, nil
}
