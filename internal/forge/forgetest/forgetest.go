// Package forgetest provides a small in-memory fake of forge.Repository
// for planner and executor tests, standing in for a real GitHub/GitLab
// backend.
package forgetest

import (
	"context"
	"fmt"
	"sync"

	"go.abhg.dev/jjryu/internal/forge"
)

// Repository is an in-memory fake forge.Repository. Construct one with
// New; the zero value has no maps allocated and is not ready to use.
type Repository struct {
	Cfg forge.PlatformConfig

	mu       sync.Mutex
	nextNum  int
	prs      map[int]*forge.PullRequest // by number
	byHead   map[string]int             // head branch -> PR number
	comments map[int][]forge.PRComment  // PR number -> comments
	nextCID  int
}

var _ forge.Repository = (*Repository)(nil)

// New creates an empty fake repository for the given config.
func New(cfg forge.PlatformConfig) *Repository {
	return &Repository{
		Cfg:      cfg,
		prs:      make(map[int]*forge.PullRequest),
		byHead:   make(map[string]int),
		comments: make(map[int][]forge.PRComment),
	}
}

// SeedPR adds an already-existing open PR, as if created out-of-band,
// for idempotence/re-submit tests.
func (r *Repository) SeedPR(pr forge.PullRequest) *forge.PullRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pr.Number == 0 {
		r.nextNum++
		pr.Number = r.nextNum
	} else if pr.Number > r.nextNum {
		r.nextNum = pr.Number
	}
	stored := pr
	r.prs[pr.Number] = &stored
	r.byHead[pr.Head] = pr.Number
	return &stored
}

func (r *Repository) FindExistingPR(_ context.Context, headBranch string) (*forge.PullRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	num, ok := r.byHead[headBranch]
	if !ok {
		return nil, nil
	}
	pr := *r.prs[num]
	return &pr, nil
}

func (r *Repository) CreatePR(_ context.Context, req forge.CreatePRRequest) (*forge.PullRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byHead[req.Head]; exists {
		return nil, fmt.Errorf("forgetest: PR for head %q already exists", req.Head)
	}

	r.nextNum++
	pr := &forge.PullRequest{
		Number:  r.nextNum,
		HTMLURL: fmt.Sprintf("https://example.test/%s/%s/pull/%d", r.Cfg.Owner, r.Cfg.Repo, r.nextNum),
		Base:    req.Base,
		Head:    req.Head,
		Title:   req.Title,
	}
	r.prs[pr.Number] = pr
	r.byHead[pr.Head] = pr.Number

	out := *pr
	return &out, nil
}

func (r *Repository) UpdatePRBase(_ context.Context, number int, newBase string) (*forge.PullRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pr, ok := r.prs[number]
	if !ok {
		return nil, fmt.Errorf("forgetest: no PR #%d", number)
	}
	pr.Base = newBase
	out := *pr
	return &out, nil
}

func (r *Repository) ListPRComments(_ context.Context, number int) ([]forge.PRComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]forge.PRComment(nil), r.comments[number]...), nil
}

func (r *Repository) CreatePRComment(_ context.Context, number int, body string) (forge.PRComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextCID++
	c := forge.PRComment{ID: fmt.Sprintf("%d", r.nextCID), Body: body}
	r.comments[number] = append(r.comments[number], c)
	return c, nil
}

func (r *Repository) UpdatePRComment(_ context.Context, number int, commentID, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.comments[number] {
		if c.ID == commentID {
			r.comments[number][i].Body = body
			return nil
		}
	}
	return fmt.Errorf("forgetest: no comment %q on PR #%d", commentID, number)
}

func (r *Repository) Config() forge.PlatformConfig {
	return r.Cfg
}
