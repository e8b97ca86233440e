package forge

import (
	"fmt"
	"net/url"
	"strings"

	"go.abhg.dev/jjryu/internal/forge/forgeurl"
	"go.abhg.dev/jjryu/internal/jjryuerr"
)

// HostOverrides supplies non-default hosts to classify against, read
// once by the outer shell from GH_HOST/GITLAB_HOST-style environment
// variables and passed in here. An empty field disables the override
// for that platform.
type HostOverrides struct {
	GitHub string
	GitLab string
}

// Classify parses a git remote URL (SSH or HTTPS, optional trailing
// .git) into a PlatformConfig, per spec §4.3.
func Classify(remoteURL string, overrides HostOverrides) (PlatformConfig, error) {
	u, err := forgeurl.Parse(remoteURL)
	if err != nil {
		return PlatformConfig{}, &jjryuerr.Error{Kind: jjryuerr.Parse, Op: "classify remote", Err: err}
	}

	owner, repo, ok := forgeurl.ExtractPath(u.Path)
	if !ok {
		return PlatformConfig{}, &jjryuerr.Error{
			Kind: jjryuerr.Parse,
			Op:   "classify remote",
			Err:  fmt.Errorf("could not extract owner/repo from %q", u.Path),
		}
	}
	// The last path segment is the repository; everything before it
	// is the owner (or nested group path).
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		owner, repo = owner+"/"+repo[:i], repo[i+1:]
	}

	if host, ok := matchPlatformHost(u, "github.com", overrides.GitHub); ok {
		return PlatformConfig{Platform: GitHub, Owner: owner, Repo: repo, Host: host}, nil
	}
	if host, ok := matchPlatformHost(u, "gitlab.com", overrides.GitLab); ok {
		return PlatformConfig{Platform: GitLab, Owner: owner, Repo: repo, Host: host}, nil
	}

	return PlatformConfig{}, &jjryuerr.Error{
		Kind: jjryuerr.NoSupportedRemotes,
		Op:   "classify remote",
		Err:  fmt.Errorf("%q is not a github.com or gitlab.com remote", remoteURL),
	}
}

// matchPlatformHost reports whether remote matches the platform's
// public host or its override, and if so, the enterprise host to record
// (empty for the public host).
func matchPlatformHost(remote *url.URL, publicHost, override string) (host string, matched bool) {
	base := &url.URL{Host: publicHost}
	forgeurl.StripDefaultPort(base, remote)
	if forgeurl.MatchesHost(base, remote) {
		return "", true
	}

	if override == "" {
		return "", false
	}
	overrideURL := &url.URL{Host: override}
	forgeurl.StripDefaultPort(overrideURL, remote)
	if forgeurl.MatchesHost(overrideURL, remote) {
		return remote.Host, true
	}
	return "", false
}
