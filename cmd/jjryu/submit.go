package main

import (
	"context"
	"fmt"

	"go.abhg.dev/jjryu/internal/forge"
	"go.abhg.dev/jjryu/internal/forge/github"
	"go.abhg.dev/jjryu/internal/forge/gitlab"
	"go.abhg.dev/jjryu/internal/graph"
	"go.abhg.dev/jjryu/internal/jj"
	"go.abhg.dev/jjryu/internal/progress"
	"go.abhg.dev/jjryu/internal/silog"
	"go.abhg.dev/jjryu/internal/submit"
)

type submitCmd struct {
	Bookmark string `arg:"" optional:"" help:"Bookmark to submit; defaults to the working copy's bookmark"`
}

func (cmd *submitCmd) Run(ctx context.Context, log *silog.Logger, vcs jj.Client, g *globalOptions) error {
	bookmark := cmd.Bookmark
	if bookmark == "" {
		b, err := currentBookmark(ctx, vcs)
		if err != nil {
			return err
		}
		bookmark = b
	}

	remotes, err := vcs.Remotes(ctx)
	if err != nil {
		return fmt.Errorf("list remotes: %w", err)
	}
	remoteName, err := selectRemote(g.Remote, remotes)
	if err != nil {
		return err
	}
	remote, ok := findRemote(remotes, remoteName)
	if !ok {
		return fmt.Errorf("remote %q not found", remoteName)
	}

	cfg, err := forge.Classify(remote.URL, forge.HostOverrides{
		GitHub: g.GitHubHost,
		GitLab: g.GitLabHost,
	})
	if err != nil {
		return err
	}

	repo, err := newRepository(cfg, g)
	if err != nil {
		return err
	}

	g2, err := graph.Build(ctx, vcs)
	if err != nil {
		return fmt.Errorf("build change graph: %w", err)
	}

	defaultBranch, err := vcs.DefaultBranch(ctx)
	if err != nil {
		return fmt.Errorf("resolve default branch: %w", err)
	}

	analysis, err := submit.Analyze(g2, bookmark, defaultBranch)
	if err != nil {
		return err
	}

	plan, err := submit.Plan(ctx, analysis, g2, repo)
	if err != nil {
		return err
	}

	sink := progress.NewLogSink(log)
	result, err := submit.Execute(ctx, plan, vcs, repo, remoteName, sink, g.DryRun)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("submission did not complete successfully")
	}
	for _, err := range result.Errors {
		log.Error("non-fatal error during submission", "error", err)
	}
	return nil
}

// newRepository constructs the forge.Repository for cfg, reading the
// matching token from globalOptions.
func newRepository(cfg forge.PlatformConfig, g *globalOptions) (forge.Repository, error) {
	switch cfg.Platform {
	case forge.GitHub:
		return github.New(cfg, g.GitHubToken), nil
	case forge.GitLab:
		return gitlab.New(cfg, g.GitLabToken)
	default:
		return nil, fmt.Errorf("unsupported platform %v", cfg.Platform)
	}
}

// currentBookmark resolves the working-copy change's bookmark, for a
// submit invocation with no explicit argument.
func currentBookmark(ctx context.Context, vcs jj.Client) (string, error) {
	bookmarks, err := vcs.LocalBookmarks(ctx)
	if err != nil {
		return "", fmt.Errorf("list local bookmarks: %w", err)
	}
	for _, b := range bookmarks {
		entries, err := vcs.ResolveRevset(ctx, "trunk().."+b.CommitID)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.WorkingCopy {
				return b.Name, nil
			}
		}
	}
	return "", fmt.Errorf("no bookmark found at the working copy; pass one explicitly")
}

func findRemote(remotes []jj.Remote, name string) (jj.Remote, bool) {
	for _, r := range remotes {
		if r.Name == name {
			return r, true
		}
	}
	return jj.Remote{}, false
}
