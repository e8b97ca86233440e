// Package github implements the GitHub REST mapping of the forge
// Repository interface (C2).
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.abhg.dev/jjryu/internal/forge"
	"go.abhg.dev/jjryu/internal/jjryuerr"
	"golang.org/x/oauth2"
)

// Repository talks to the GitHub REST API for a single repository.
type Repository struct {
	cfg     forge.PlatformConfig
	baseURL string // e.g. "https://api.github.com" or "https://{host}/api/v3"
	client  *http.Client
}

var _ forge.Repository = (*Repository)(nil)

// New constructs a Repository for cfg, authenticating with token.
// cfg.Host, if set, selects a GitHub Enterprise base URL
// (https://{host}/api/v3); otherwise the public api.github.com is used.
func New(cfg forge.PlatformConfig, token string) *Repository {
	base := "https://api.github.com"
	if cfg.Host != "" {
		base = fmt.Sprintf("https://%s/api/v3", cfg.Host)
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "token", // GitHub's classic PAT scheme: "Authorization: token <pat>"
	})

	return &Repository{
		cfg:     cfg,
		baseURL: base,
		client:  oauth2.NewClient(context.Background(), src),
	}
}

func (r *Repository) Config() forge.PlatformConfig { return r.cfg }

type pullRequest struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
	Title   string `json:"title"`
	Base    struct {
		Ref string `json:"ref"`
	} `json:"base"`
	Head struct {
		Ref string `json:"ref"`
	} `json:"head"`
}

func (pr pullRequest) toPullRequest() *forge.PullRequest {
	return &forge.PullRequest{
		Number:  pr.Number,
		HTMLURL: pr.HTMLURL,
		Base:    pr.Base.Ref,
		Head:    pr.Head.Ref,
		Title:   pr.Title,
	}
}

// FindExistingPR implements forge.Repository.
func (r *Repository) FindExistingPR(ctx context.Context, headBranch string) (*forge.PullRequest, error) {
	q := url.Values{}
	q.Set("head", fmt.Sprintf("%s:%s", r.cfg.Owner, headBranch))
	q.Set("state", "open")

	path := fmt.Sprintf("/repos/%s/%s/pulls?%s", r.cfg.Owner, r.cfg.Repo, q.Encode())

	var prs []pullRequest
	if err := r.do(ctx, http.MethodGet, path, nil, &prs); err != nil {
		return nil, err
	}
	if len(prs) == 0 {
		return nil, nil
	}
	return prs[0].toPullRequest(), nil
}

// CreatePR implements forge.Repository.
func (r *Repository) CreatePR(ctx context.Context, req forge.CreatePRRequest) (*forge.PullRequest, error) {
	body := map[string]string{
		"title": req.Title,
		"head":  req.Head,
		"base":  req.Base,
		"body":  req.Body,
	}

	path := fmt.Sprintf("/repos/%s/%s/pulls", r.cfg.Owner, r.cfg.Repo)
	var pr pullRequest
	if err := r.do(ctx, http.MethodPost, path, body, &pr); err != nil {
		return nil, err
	}
	return pr.toPullRequest(), nil
}

// UpdatePRBase implements forge.Repository.
func (r *Repository) UpdatePRBase(ctx context.Context, number int, newBase string) (*forge.PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", r.cfg.Owner, r.cfg.Repo, number)
	var pr pullRequest
	if err := r.do(ctx, http.MethodPatch, path, map[string]string{"base": newBase}, &pr); err != nil {
		return nil, err
	}
	return pr.toPullRequest(), nil
}

type issueComment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

// ListPRComments implements forge.Repository.
func (r *Repository) ListPRComments(ctx context.Context, number int) ([]forge.PRComment, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", r.cfg.Owner, r.cfg.Repo, number)
	var comments []issueComment
	if err := r.do(ctx, http.MethodGet, path, nil, &comments); err != nil {
		return nil, err
	}

	out := make([]forge.PRComment, len(comments))
	for i, c := range comments {
		out[i] = forge.PRComment{ID: fmt.Sprintf("%d", c.ID), Body: c.Body}
	}
	return out, nil
}

// CreatePRComment implements forge.Repository.
func (r *Repository) CreatePRComment(ctx context.Context, number int, body string) (forge.PRComment, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", r.cfg.Owner, r.cfg.Repo, number)
	var c issueComment
	if err := r.do(ctx, http.MethodPost, path, map[string]string{"body": body}, &c); err != nil {
		return forge.PRComment{}, err
	}
	return forge.PRComment{ID: fmt.Sprintf("%d", c.ID), Body: c.Body}, nil
}

// UpdatePRComment implements forge.Repository.
func (r *Repository) UpdatePRComment(ctx context.Context, number int, commentID, body string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/comments/%s", r.cfg.Owner, r.cfg.Repo, commentID)
	return r.do(ctx, http.MethodPatch, path, map[string]string{"body": body}, nil)
}

func (r *Repository) do(ctx context.Context, method, path string, reqBody, respBody any) error {
	var bodyReader io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return &jjryuerr.Error{Kind: jjryuerr.Parse, Op: "github api", Err: err}
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, bodyReader)
	if err != nil {
		return &jjryuerr.Error{Kind: jjryuerr.Internal, Op: "github api", Err: err}
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return &jjryuerr.Error{Kind: jjryuerr.PlatformAPI, Platform: jjryuerr.GitHub, Op: method + " " + path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &jjryuerr.Error{Kind: jjryuerr.Auth, Op: method + " " + path, Err: fmt.Errorf("github returned %d", resp.StatusCode)}
	}
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return &jjryuerr.Error{
			Kind:     jjryuerr.PlatformAPI,
			Platform: jjryuerr.GitHub,
			Op:       method + " " + path,
			Err:      fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(data)),
		}
	}

	if respBody == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return &jjryuerr.Error{Kind: jjryuerr.Parse, Op: method + " " + path, Err: err}
	}
	return nil
}
