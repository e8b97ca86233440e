package main

import (
	"context"
	"fmt"

	"go.abhg.dev/jjryu/internal/graph"
	"go.abhg.dev/jjryu/internal/jj"
	"go.abhg.dev/jjryu/internal/silog"
)

// syncCmd fetches the selected remote and reports each local
// bookmark's sync state, a read-only supplement to submit (§12) for
// checking stack state without submitting anything.
type syncCmd struct{}

func (cmd *syncCmd) Run(ctx context.Context, log *silog.Logger, vcs jj.Client, g *globalOptions) error {
	remotes, err := vcs.Remotes(ctx)
	if err != nil {
		return fmt.Errorf("list remotes: %w", err)
	}
	remoteName, err := selectRemote(g.Remote, remotes)
	if err != nil {
		return err
	}

	if err := vcs.Fetch(ctx, remoteName); err != nil {
		return fmt.Errorf("fetch %q: %w", remoteName, err)
	}

	gr, err := graph.Build(ctx, vcs)
	if err != nil {
		return fmt.Errorf("build change graph: %w", err)
	}

	if gr.ExcludedBookmarkCount > 0 {
		log.Warn("bookmarks excluded because they contain a merge", "count", gr.ExcludedBookmarkCount)
	}

	for _, stack := range gr.Stacks {
		for _, seg := range stack {
			for _, name := range seg.Bookmarks {
				b := gr.BookmarksByName[name]
				switch {
				case !b.HasRemote:
					log.Info("bookmark has no remote counterpart", "bookmark", name)
				case !b.IsSynced:
					log.Info("bookmark is out of sync with remote", "bookmark", name)
				default:
					log.Info("bookmark is in sync", "bookmark", name)
				}
			}
		}
	}
	return nil
}
