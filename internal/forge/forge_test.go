package forge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/jjryu/internal/forge"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want forge.PlatformConfig
	}{
		{
			name: "GitHubSSH",
			url:  "git@github.com:owner/repo.git",
			want: forge.PlatformConfig{Platform: forge.GitHub, Owner: "owner", Repo: "repo"},
		},
		{
			name: "GitHubHTTPS",
			url:  "https://github.com/owner/repo",
			want: forge.PlatformConfig{Platform: forge.GitHub, Owner: "owner", Repo: "repo"},
		},
		{
			name: "GitLabNestedGroup",
			url:  "https://gitlab.com/group/subgroup/repo.git",
			want: forge.PlatformConfig{Platform: forge.GitLab, Owner: "group/subgroup", Repo: "repo"},
		},
		{
			name: "GitHubEnterprise",
			url:  "https://github.example.com/owner/repo.git",
			want: forge.PlatformConfig{Platform: forge.GitHub, Owner: "owner", Repo: "repo", Host: "github.example.com"},
		},
	}

	overrides := forge.HostOverrides{GitHub: "github.example.com"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := forge.Classify(tt.url, overrides)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_unsupportedHost(t *testing.T) {
	_, err := forge.Classify("https://bitbucket.org/owner/repo.git", forge.HostOverrides{})
	require.Error(t, err)
}

func TestClassify_unparseable(t *testing.T) {
	_, err := forge.Classify("://not a url", forge.HostOverrides{})
	require.Error(t, err)
}
