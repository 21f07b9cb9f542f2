// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ghrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/go-github/v82/github"

	"github.com/pdiddy/harvest/internal/throttle"
	"github.com/pdiddy/harvest/pkg/types"
)

const (
	perPage = 100

	// rateLimitMargin is added to the declared reset time before retrying.
	rateLimitMargin  = 2 * time.Second
	minRateLimitWait = time.Second
)

// ErrUnexpectedPayload is returned when the listing endpoint answers with
// something other than a JSON array of repositories.
var ErrUnexpectedPayload = errors.New("unexpected response payload")

// Owner identifies whose repositories are listed.
type Owner struct {
	Login string
	Org   bool
}

// Kind returns "org" or "user".
func (o Owner) Kind() string {
	if o.Org {
		return "org"
	}
	return "user"
}

func (o Owner) String() string {
	return o.Kind() + "=" + o.Login
}

// Lister pages through /users/{owner}/repos or /orgs/{owner}/repos.
type Lister struct {
	client *github.Client

	// Sleep waits out rate-limit resets; defaults to throttle.Sleep.
	Sleep throttle.SleepFunc

	// Now defaults to time.Now.
	Now func() time.Time

	// Warn receives rate-limit notices; nil discards them.
	Warn io.Writer
}

// NewLister returns a Lister backed by client.
func NewLister(client *github.Client) *Lister {
	return &Lister{client: client}
}

// ListAll requests pages of 100, starting at page 1, until a page comes
// back empty, and returns every repository in request order (most recently
// updated first). A rate-limit response (403 with no remaining quota)
// blocks until the declared reset plus a margin and retries the same page.
// Any other error status is returned.
func (l *Lister) ListAll(ctx context.Context, owner Owner) ([]types.Repo, error) {
	var all []types.Repo
	for page := 1; ; page++ {
		repos, err := l.fetchPage(ctx, owner, page)
		if err != nil {
			return nil, err
		}
		if len(repos) == 0 {
			break
		}
		for _, r := range repos {
			all = append(all, repoFromAPI(r, owner.Login))
		}
	}
	return all, nil
}

func (l *Lister) fetchPage(ctx context.Context, owner Owner, page int) ([]*github.Repository, error) {
	for {
		repos, err := l.listPage(ctx, owner, page)
		if err == nil {
			return repos, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		var rateLimitErr *github.RateLimitError
		if errors.As(err, &rateLimitErr) && !rateLimitErr.Rate.Reset.Time.IsZero() {
			wait := l.rateLimitWait(rateLimitErr.Rate.Reset.Time)
			fmt.Fprintf(l.warn(), "GitHub API rate limit reached; waiting %s...\n", wait)
			if err := l.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}

		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("listing %s page %d: %w: %v", owner, page, ErrUnexpectedPayload, err)
		}
		return nil, fmt.Errorf("listing %s page %d: %w", owner, page, err)
	}
}

func (l *Lister) listPage(ctx context.Context, owner Owner, page int) ([]*github.Repository, error) {
	listOpts := github.ListOptions{Page: page, PerPage: perPage}

	if owner.Org {
		repos, _, err := l.client.Repositories.ListByOrg(ctx, owner.Login, &github.RepositoryListByOrgOptions{
			Type:        "all",
			Sort:        "updated",
			Direction:   "desc",
			ListOptions: listOpts,
		})
		return repos, err
	}

	repos, _, err := l.client.Repositories.ListByUser(ctx, owner.Login, &github.RepositoryListByUserOptions{
		Type:        "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: listOpts,
	})
	return repos, err
}

// rateLimitWait returns max(reset-now, 1s) plus the safety margin.
func (l *Lister) rateLimitWait(reset time.Time) time.Duration {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	return max(reset.Sub(now()), minRateLimitWait) + rateLimitMargin
}

func (l *Lister) sleep(ctx context.Context, d time.Duration) error {
	if l.Sleep != nil {
		return l.Sleep(ctx, d)
	}
	return throttle.Sleep(ctx, d)
}

func (l *Lister) warn() io.Writer {
	if l.Warn == nil {
		return io.Discard
	}
	return l.Warn
}

// repoFromAPI converts one listing item. Missing fields fall back to
// placeholders derived from the queried owner rather than failing.
func repoFromAPI(r *github.Repository, ownerLogin string) types.Repo {
	owner := ownerLogin
	if r.Owner != nil && r.Owner.Login != nil {
		owner = r.Owner.GetLogin()
	}

	fullName := ownerLogin + "/unknown"
	if r.FullName != nil {
		fullName = r.GetFullName()
	}

	cloneURL := "git@github.com:" + ownerLogin + "/unknown.git"
	if r.SSHURL != nil {
		cloneURL = r.GetSSHURL()
	}

	return types.Repo{
		Owner:       owner,
		Name:        r.GetName(),
		FullName:    fullName,
		CloneURL:    cloneURL,
		Archived:    r.GetArchived(),
		Fork:        r.GetFork(),
		Description: r.GetDescription(),
	}
}
