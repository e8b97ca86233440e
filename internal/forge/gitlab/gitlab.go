// Package gitlab implements the GitLab REST mapping of the forge
// Repository interface (C2), wrapping gitlab.com/gitlab-org/api/client-go.
package gitlab

import (
	"context"
	"fmt"

	gogitlab "gitlab.com/gitlab-org/api/client-go"
	"go.abhg.dev/jjryu/internal/forge"
	"go.abhg.dev/jjryu/internal/jjryuerr"
)

// Repository talks to the GitLab REST API for a single project.
type Repository struct {
	cfg     forge.PlatformConfig
	client  *gogitlab.Client
	project string // "owner/repo", URL-encoded by the client library
}

var _ forge.Repository = (*Repository)(nil)

// New constructs a Repository for cfg, authenticating with a
// PRIVATE-TOKEN. cfg.Host, if set, selects a self-managed GitLab
// instance; otherwise the public gitlab.com is used.
func New(cfg forge.PlatformConfig, token string) (*Repository, error) {
	var opts []gogitlab.ClientOptionFunc
	if cfg.Host != "" {
		opts = append(opts, gogitlab.WithBaseURL(fmt.Sprintf("https://%s/api/v4", cfg.Host)))
	}

	client, err := gogitlab.NewClient(token, opts...)
	if err != nil {
		return nil, &jjryuerr.Error{Kind: jjryuerr.Internal, Op: "gitlab client", Err: err}
	}

	return &Repository{
		cfg:     cfg,
		client:  client,
		project: cfg.Owner + "/" + cfg.Repo,
	}, nil
}

func (r *Repository) Config() forge.PlatformConfig { return r.cfg }

func toPullRequest(mr *gogitlab.MergeRequest) *forge.PullRequest {
	return &forge.PullRequest{
		Number:  mr.IID,
		HTMLURL: mr.WebURL,
		Base:    mr.TargetBranch,
		Head:    mr.SourceBranch,
		Title:   mr.Title,
	}
}

// FindExistingPR implements forge.Repository.
func (r *Repository) FindExistingPR(ctx context.Context, headBranch string) (*forge.PullRequest, error) {
	opened := "opened"
	mrs, _, err := r.client.MergeRequests.ListProjectMergeRequests(r.project, &gogitlab.ListProjectMergeRequestsOptions{
		SourceBranch: &headBranch,
		State:        &opened,
	}, gogitlab.WithContext(ctx))
	if err != nil {
		return nil, apiErr("list merge requests", err)
	}
	if len(mrs) == 0 {
		return nil, nil
	}
	return toPullRequest(mrs[0]), nil
}

// CreatePR implements forge.Repository.
func (r *Repository) CreatePR(ctx context.Context, req forge.CreatePRRequest) (*forge.PullRequest, error) {
	mr, _, err := r.client.MergeRequests.CreateMergeRequest(r.project, &gogitlab.CreateMergeRequestOptions{
		SourceBranch: &req.Head,
		TargetBranch: &req.Base,
		Title:        &req.Title,
		Description:  &req.Body,
	}, gogitlab.WithContext(ctx))
	if err != nil {
		return nil, apiErr("create merge request", err)
	}
	return toPullRequest(mr), nil
}

// UpdatePRBase implements forge.Repository.
func (r *Repository) UpdatePRBase(ctx context.Context, number int, newBase string) (*forge.PullRequest, error) {
	mr, _, err := r.client.MergeRequests.UpdateMergeRequest(r.project, number, &gogitlab.UpdateMergeRequestOptions{
		TargetBranch: &newBase,
	}, gogitlab.WithContext(ctx))
	if err != nil {
		return nil, apiErr("update merge request", err)
	}
	return toPullRequest(mr), nil
}

// ListPRComments implements forge.Repository.
//
// GitLab mixes user notes with system-generated ones (e.g. "changed
// target branch"); only user notes count as PR comments here.
func (r *Repository) ListPRComments(ctx context.Context, number int) ([]forge.PRComment, error) {
	notes, _, err := r.client.Notes.ListMergeRequestNotes(r.project, number, &gogitlab.ListMergeRequestNotesOptions{},
		gogitlab.WithContext(ctx))
	if err != nil {
		return nil, apiErr("list merge request notes", err)
	}

	var out []forge.PRComment
	for _, n := range notes {
		if n.System {
			continue
		}
		out = append(out, forge.PRComment{ID: fmt.Sprintf("%d", n.ID), Body: n.Body})
	}
	return out, nil
}

// CreatePRComment implements forge.Repository.
func (r *Repository) CreatePRComment(ctx context.Context, number int, body string) (forge.PRComment, error) {
	note, _, err := r.client.Notes.CreateMergeRequestNote(r.project, number, &gogitlab.CreateMergeRequestNoteOptions{
		Body: &body,
	}, gogitlab.WithContext(ctx))
	if err != nil {
		return forge.PRComment{}, apiErr("create merge request note", err)
	}
	return forge.PRComment{ID: fmt.Sprintf("%d", note.ID), Body: note.Body}, nil
}

// UpdatePRComment implements forge.Repository.
func (r *Repository) UpdatePRComment(ctx context.Context, number int, commentID, body string) error {
	var noteID int
	if _, err := fmt.Sscanf(commentID, "%d", &noteID); err != nil {
		return &jjryuerr.Error{Kind: jjryuerr.Parse, Op: "update merge request note", Err: err}
	}

	_, _, err := r.client.Notes.UpdateMergeRequestNote(r.project, number, noteID, &gogitlab.UpdateMergeRequestNoteOptions{
		Body: &body,
	}, gogitlab.WithContext(ctx))
	if err != nil {
		return apiErr("update merge request note", err)
	}
	return nil
}

func apiErr(op string, err error) error {
	return &jjryuerr.Error{Kind: jjryuerr.PlatformAPI, Platform: jjryuerr.GitLab, Op: op, Err: err}
}
