// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ghrepo

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/go-github/v82/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/harvest/internal/throttle"
	"github.com/pdiddy/harvest/pkg/types"
)

func TestListAll_PaginatesUntilEmptyPage(t *testing.T) {
	pages := [][]apiRepo{
		{makeRepo("acme", "a"), makeRepo("acme", "b")},
		{makeRepo("acme", "c")},
	}
	var mu sync.Mutex
	var seen []url.Values
	var paths []string
	handler := pagedHandler(t, pages)

	l, _ := newTestLister(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.URL.Query())
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		handler(w, r)
	}))

	repos, err := l.ListAll(context.Background(), Owner{Login: "acme"})
	require.NoError(t, err)

	require.Len(t, repos, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{repos[0].Name, repos[1].Name, repos[2].Name})

	// Pages 1, 2, and the empty page 3.
	require.Len(t, seen, 3)
	for i, q := range seen {
		assert.Equal(t, strconv.Itoa(i+1), q.Get("page"))
		assert.Equal(t, "100", q.Get("per_page"))
		assert.Equal(t, "all", q.Get("type"))
		assert.Equal(t, "updated", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("direction"))
		assert.Equal(t, "/users/acme/repos", paths[i])
	}
}

func TestListAll_OrgEndpointAndAccept(t *testing.T) {
	var path, accept string
	l, _ := newTestLister(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		accept = r.Header.Get("Accept")
		w.Write([]byte(`[]`))
	}))

	repos, err := l.ListAll(context.Background(), Owner{Login: "acme-org", Org: true})
	require.NoError(t, err)
	assert.Empty(t, repos)
	assert.Equal(t, "/orgs/acme-org/repos", path)
	assert.Equal(t, "application/vnd.github+json", accept)
}

func TestListAll_DecodesFields(t *testing.T) {
	desc := "Command line tools"
	forked := makeRepo("acme", "cli")
	forked.Archived = true
	forked.Fork = true
	forked.Description = &desc

	l, _ := newTestLister(t, pagedHandler(t, [][]apiRepo{{forked}}))

	repos, err := l.ListAll(context.Background(), Owner{Login: "acme"})
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, types.Repo{
		Owner:       "acme",
		Name:        "cli",
		FullName:    "acme/cli",
		CloneURL:    "git@github.com:acme/cli.git",
		Archived:    true,
		Fork:        true,
		Description: "Command line tools",
	}, repos[0])
}

func TestListAll_MissingFieldsFallBack(t *testing.T) {
	calls := 0
	l, _ := newTestLister(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`[{"name": "bare"}]`))
			return
		}
		w.Write([]byte(`[]`))
	}))

	repos, err := l.ListAll(context.Background(), Owner{Login: "acme"})
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "acme", repos[0].Owner)
	assert.Equal(t, "bare", repos[0].Name)
	assert.Equal(t, "acme/unknown", repos[0].FullName)
	assert.Equal(t, "git@github.com:acme/unknown.git", repos[0].CloneURL)
	assert.False(t, repos[0].Archived)
	assert.Equal(t, "", repos[0].Description)
}

func TestListAll_RateLimitRetriesSamePage(t *testing.T) {
	calls := 0
	reset := time.Now().Add(-time.Minute).Unix()
	l, _ := newTestLister(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message": "API rate limit exceeded"}`))
			return
		}
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(`[{"name": "a", "full_name": "acme/a"}]`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	rec := &throttle.Recorder{}
	var warn bytes.Buffer
	l.Sleep = rec.Sleep
	l.Warn = &warn

	repos, err := l.ListAll(context.Background(), Owner{Login: "acme"})
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, 3, calls)

	// A reset already in the past clamps to 1s, plus the 2s margin.
	assert.Equal(t, []time.Duration{3 * time.Second}, rec.Waits)
	assert.Contains(t, warn.String(), "rate limit")
}

func TestListAll_RateLimitWaitsUntilReset(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps for the rate-limit reset")
	}

	var mu sync.Mutex
	calls := 0
	resetAt := time.Unix(time.Now().Add(2*time.Second).Unix(), 0)
	l, _ := newTestLister(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(`[{"name": "a"}]`))
			return
		}
		w.Write([]byte(`[]`))
	}))

	repos, err := l.ListAll(context.Background(), Owner{Login: "acme"})
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.False(t, time.Now().Before(resetAt.Add(rateLimitMargin)),
		"retried before reset + margin")
}

func TestListAll_RateLimitCancelled(t *testing.T) {
	l, _ := newTestLister(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
		w.WriteHeader(http.StatusForbidden)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := l.ListAll(ctx, Owner{Login: "acme"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestListAll_ForbiddenWithQuotaIsFatal(t *testing.T) {
	calls := 0
	l, _ := newTestLister(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("X-RateLimit-Remaining", "42")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "Resource not accessible"}`))
	}))

	_, err := l.ListAll(context.Background(), Owner{Login: "acme"})
	require.Error(t, err)
	var errResp *github.ErrorResponse
	assert.ErrorAs(t, err, &errResp)
	assert.Equal(t, 1, calls)
}

func TestListAll_NotFoundIsFatal(t *testing.T) {
	l, _ := newTestLister(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Not Found"}`))
	}))

	_, err := l.ListAll(context.Background(), Owner{Login: "ghost", Org: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "org=ghost")
}

func TestListAll_NonListPayload(t *testing.T) {
	l, _ := newTestLister(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"message": "not a list"}`))
	}))

	_, err := l.ListAll(context.Background(), Owner{Login: "acme"})
	assert.ErrorIs(t, err, ErrUnexpectedPayload)
}

func TestRateLimitWait(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := &Lister{Now: func() time.Time { return now }}

	assert.Equal(t, 12*time.Second, l.rateLimitWait(now.Add(10*time.Second)))
	assert.Equal(t, 3*time.Second, l.rateLimitWait(now))
	assert.Equal(t, 3*time.Second, l.rateLimitWait(now.Add(-time.Hour)))
}

func TestNewClient_Token(t *testing.T) {
	var auth string
	ts := newServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))

	client, err := NewClient(context.Background(), ClientConfig{APIURL: ts.URL, Token: "tok123"})
	require.NoError(t, err)

	_, err = NewLister(client).ListAll(context.Background(), Owner{Login: "acme"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", auth)
}

func TestNewClient_APIURL(t *testing.T) {
	client, err := NewClient(context.Background(), ClientConfig{APIURL: "https://ghe.example.com/api/v3"})
	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3/", client.BaseURL.String())

	client, err = NewClient(context.Background(), ClientConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, client.BaseURL.String())
}
