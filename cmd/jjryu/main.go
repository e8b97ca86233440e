// jj-ryu discovers a stack of jj bookmarks and submits it as a series
// of stacked GitHub pull requests or GitLab merge requests.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"go.abhg.dev/jjryu/internal/config"
	"go.abhg.dev/jjryu/internal/jj"
	"go.abhg.dev/jjryu/internal/silog"
)

func main() {
	log := silog.New(os.Stderr, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	go func() {
		<-sigc
		log.Info("interrupted, shutting down")
		cancel()
	}()

	var cmd mainCmd
	kctx := kong.Parse(
		&cmd,
		kong.Name("jj-ryu"),
		kong.Description("Discover a stack of jj bookmarks and submit it as stacked pull/merge requests."),
		kong.Bind(log),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.UsageOnError(),
	)

	kctx.FatalIfErrorf(kctx.Run())
}

type mainCmd struct {
	globalOptions

	SubmitCmd submitCmd `name:"submit" cmd:"" help:"Discover a bookmark's stack and submit it as stacked pull/merge requests"`
	SyncCmd   syncCmd   `name:"sync" cmd:"" help:"Fetch and report how local bookmarks compare to their remote counterparts"`
}

// globalOptions are flags shared by every subcommand.
type globalOptions struct {
	Remote string `help:"Remote to push to and classify; defaults to the sole remote, else \"origin\", else the first configured remote" placeholder:"NAME"`

	DryRun bool `name:"dry-run" help:"Print what would happen without pushing, creating, or updating anything"`

	Verbose bool `short:"v" help:"Enable debug logging"`
	Quiet   bool `short:"q" help:"Only log errors"`

	GitHubHost string `name:"gh-host" help:"GitHub Enterprise host, if not github.com" placeholder:"HOST"`
	GitLabHost string `name:"gitlab-host" help:"Self-managed GitLab host, if not gitlab.com" placeholder:"HOST"`

	GitHubToken string `name:"github-token" env:"GH_TOKEN" help:"GitHub API token; defaults to $GH_TOKEN" hidden:""`
	GitLabToken string `name:"gitlab-token" env:"GITLAB_TOKEN" help:"GitLab API token; defaults to $GITLAB_TOKEN" hidden:""`
}

// AfterApply merges on-disk config defaults in, sets the log level,
// and makes a jj.Workspace available to every subcommand.
func (g *globalOptions) AfterApply(kctx *kong.Context, log *silog.Logger) error {
	switch {
	case g.Verbose:
		log.SetLevel(silog.LevelDebug)
	case g.Quiet:
		log.SetLevel(silog.LevelError)
	}

	if path, err := config.Path(); err == nil {
		if cfg, err := config.Load(path); err == nil {
			if g.Remote == "" {
				g.Remote = cfg.Remote
			}
			if g.GitHubHost == "" {
				g.GitHubHost = cfg.GitHubHost
			}
			if g.GitLabHost == "" {
				g.GitLabHost = cfg.GitLabHost
			}
		}
	}

	wt, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}

	kctx.BindTo(jj.NewWorkspace(wt, log), (*jj.Client)(nil))
	kctx.Bind(g)
	return nil
}

// selectRemote implements §6's remote selection algorithm: named
// --remote; else the sole configured remote; else "origin"; else the
// first configured remote.
func selectRemote(named string, remotes []jj.Remote) (string, error) {
	if named != "" {
		return named, nil
	}
	if len(remotes) == 0 {
		return "", errors.New("no remotes configured")
	}
	if len(remotes) == 1 {
		return remotes[0].Name, nil
	}
	for _, r := range remotes {
		if r.Name == "origin" {
			return "origin", nil
		}
	}
	return remotes[0].Name, nil
}
