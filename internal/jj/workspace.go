package jj

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.abhg.dev/jjryu/internal/jjryuerr"
	"go.abhg.dev/jjryu/internal/silog"
	"go.abhg.dev/jjryu/internal/xec"
)

// Fields are separated by \x1f (unit separator) and records by \x1e
// (record separator) so that descriptions containing arbitrary text
// (including commas or pipes) can never be mistaken for a delimiter.
const (
	_fieldSep  = "\x1f"
	_recordSep = "\x1e"
)

// _logTemplate renders one LogEntry per matching change.
var _logTemplate = strings.Join([]string{
	`commit_id`,
	`change_id`,
	`parents.map(|c| c.commit_id()).join(",")`,
	`description.first_line()`,
	`local_bookmarks.join(",")`,
	`if(current_working_copy, "1", "0")`,
	`author.name()`,
	`author.timestamp().format("%Y-%m-%dT%H:%M:%S%:z")`,
}, fmt.Sprintf(` ++ %q ++ `, _fieldSep)) + fmt.Sprintf(` ++ %q`, _recordSep)

// Workspace is the real Client implementation, driving the jj CLI in a
// given working directory.
type Workspace struct {
	// Dir is the working copy directory to run jj in.
	// If empty, jj is run in the current process directory.
	Dir string

	// Log receives subprocess output and errors. May be nil.
	Log *silog.Logger

	// execer overrides command execution for testing. If nil, the
	// real OS execer is used.
	execer xec.Execer
}

var _ Client = (*Workspace)(nil)

// NewWorkspace constructs a Workspace rooted at dir, logging subprocess
// activity through log.
func NewWorkspace(dir string, log *silog.Logger) *Workspace {
	return &Workspace{Dir: dir, Log: log}
}

func (w *Workspace) cmd(ctx context.Context, args ...string) *xec.Cmd {
	c := xec.Command(ctx, w.Log, "jj", args...).WithDir(w.Dir)
	if w.execer != nil {
		c = c.WithExecer(w.execer)
	}
	return c
}

// LocalBookmarks implements Client.
func (w *Workspace) LocalBookmarks(ctx context.Context) ([]Bookmark, error) {
	tmpl := strings.Join([]string{
		`name`,
		`normal_target.commit_id()`,
		`normal_target.change_id()`,
		`if(remote_bookmarks, "1", "0")`,
		`if(remote_bookmarks.filter(|r| r.normal_target().commit_id() == normal_target.commit_id()), "1", "0")`,
	}, fmt.Sprintf(` ++ %q ++ `, _fieldSep)) + fmt.Sprintf(` ++ %q`, _recordSep)

	out, err := w.cmd(ctx, "bookmark", "list", "--template", tmpl).Output()
	if err != nil {
		return nil, &jjryuerr.Error{Kind: jjryuerr.VCSCommand, Op: "jj bookmark list", Err: err}
	}

	var bookmarks []Bookmark
	for _, rec := range splitRecords(string(out)) {
		fields := strings.Split(rec, _fieldSep)
		if len(fields) != 5 {
			return nil, &jjryuerr.Error{
				Kind: jjryuerr.Parse,
				Op:   "jj bookmark list",
				Err:  fmt.Errorf("unexpected field count %d in record %q", len(fields), rec),
			}
		}
		bookmarks = append(bookmarks, Bookmark{
			Name:      fields[0],
			CommitID:  fields[1],
			ChangeID:  fields[2],
			HasRemote: fields[3] == "1",
			IsSynced:  fields[4] == "1",
		})
	}

	sort.Slice(bookmarks, func(i, j int) bool { return bookmarks[i].Name < bookmarks[j].Name })
	return bookmarks, nil
}

// ResolveRevset implements Client.
//
// Results are returned oldest first: the underlying jj query is wrapped
// in reverse(...) since jj log's natural order is newest first.
func (w *Workspace) ResolveRevset(ctx context.Context, expr string) ([]LogEntry, error) {
	revset := fmt.Sprintf("reverse(%s)", expr)
	out, err := w.cmd(ctx, "log", "--no-graph", "-r", revset, "-T", _logTemplate).Output()
	if err != nil {
		return nil, &jjryuerr.Error{Kind: jjryuerr.VCSCommand, Op: "jj log", Err: err}
	}

	var entries []LogEntry
	for _, rec := range splitRecords(string(out)) {
		entry, err := parseLogEntry(rec)
		if err != nil {
			return nil, &jjryuerr.Error{Kind: jjryuerr.Parse, Op: "jj log", Err: err}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseLogEntry(rec string) (LogEntry, error) {
	fields := strings.Split(rec, _fieldSep)
	if len(fields) != 8 {
		return LogEntry{}, fmt.Errorf("unexpected field count %d in record %q", len(fields), rec)
	}

	var parents []string
	if fields[2] != "" {
		parents = strings.Split(fields[2], ",")
	}

	var bookmarks []string
	if fields[4] != "" {
		bookmarks = strings.Split(fields[4], ",")
	}

	ts, err := time.Parse("2006-01-02T15:04:05Z07:00", fields[7])
	if err != nil {
		// Timestamp parsing is best-effort metadata; don't fail the
		// whole traversal over it.
		ts = time.Time{}
	}

	return LogEntry{
		CommitID:    fields[0],
		ChangeID:    fields[1],
		Parents:     parents,
		Description: fields[3],
		Bookmarks:   bookmarks,
		WorkingCopy: fields[5] == "1",
		Author:      fields[6],
		Timestamp:   ts,
	}, nil
}

func splitRecords(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	raw := strings.Split(s, _recordSep)
	records := raw[:0]
	for _, r := range raw {
		r = strings.TrimPrefix(r, "\n")
		if r == "" {
			continue
		}
		records = append(records, r)
	}
	return records
}

// Push implements Client.
func (w *Workspace) Push(ctx context.Context, bookmark, remote string) error {
	err := w.cmd(ctx, "git", "push", "--remote", remote, "--bookmark", bookmark, "--allow-new").Run()
	if err != nil {
		return &jjryuerr.Error{
			Kind:     jjryuerr.VCSCommand,
			Op:       "jj git push",
			Bookmark: bookmark,
			Err:      err,
		}
	}
	return nil
}

// Fetch implements Client.
func (w *Workspace) Fetch(ctx context.Context, remote string) error {
	if err := w.cmd(ctx, "git", "fetch", "--remote", remote).Run(); err != nil {
		return &jjryuerr.Error{Kind: jjryuerr.VCSCommand, Op: "jj git fetch", Err: err}
	}
	return nil
}

// Remotes implements Client.
func (w *Workspace) Remotes(ctx context.Context) ([]Remote, error) {
	out, err := w.cmd(ctx, "git", "remote", "list").Output()
	if err != nil {
		return nil, &jjryuerr.Error{Kind: jjryuerr.VCSCommand, Op: "jj git remote list", Err: err}
	}

	var remotes []Remote
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, url, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		remotes = append(remotes, Remote{Name: name, URL: strings.TrimSpace(url)})
	}
	return remotes, nil
}

// DefaultBranch implements Client.
func (w *Workspace) DefaultBranch(ctx context.Context) (string, error) {
	out, err := w.cmd(ctx, "config", "get", "revset-aliases.\"trunk()\"").Output()
	if err == nil {
		if name := extractBranchLiteral(string(out)); name != "" {
			return name, nil
		}
	}

	// Fall back to asking which bookmark resolves to the trunk()
	// revset, which is how jj itself computes it absent an override.
	out, err = w.cmd(ctx, "log", "--no-graph", "-r", "trunk()", "-T", `local_bookmarks.join(",")`).Output()
	if err != nil {
		return "", &jjryuerr.Error{Kind: jjryuerr.VCSCommand, Op: "jj log trunk()", Err: err}
	}
	name := strings.SplitN(strings.TrimSpace(string(out)), ",", 2)[0]
	if name == "" {
		return "", &jjryuerr.Error{
			Kind: jjryuerr.Internal,
			Op:   "jj log trunk()",
			Err:  fmt.Errorf("trunk() did not resolve to a bookmarked commit"),
		}
	}
	return name, nil
}

// extractBranchLiteral pulls a bookmark name out of a revset alias
// definition of the form `<name>@<remote>` or a quoted literal name.
func extractBranchLiteral(alias string) string {
	alias = strings.TrimSpace(alias)
	alias = strings.Trim(alias, `"`)
	name, _, _ := strings.Cut(alias, "@")
	if name == "" || strings.ContainsAny(name, "()|&~") {
		return ""
	}
	return name
}
