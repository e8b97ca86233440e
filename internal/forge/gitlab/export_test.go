package gitlab

import (
	"net/http"

	gogitlab "gitlab.com/gitlab-org/api/client-go"
	"go.abhg.dev/jjryu/internal/forge"
)

// NewForTest builds a Repository against baseURL using httpClient,
// for pointing at a recorded/fake transport in tests.
func NewForTest(cfg forge.PlatformConfig, baseURL string, httpClient *http.Client) (*Repository, error) {
	client, err := gogitlab.NewClient("test-token",
		gogitlab.WithBaseURL(baseURL),
		gogitlab.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, err
	}
	return &Repository{cfg: cfg, client: client, project: cfg.Owner + "/" + cfg.Repo}, nil
}
