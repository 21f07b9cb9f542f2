// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ghrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// apiRepo is the subset of the listing item the tests serve.
type apiRepo struct {
	Name        string            `json:"name"`
	FullName    string            `json:"full_name"`
	Owner       map[string]string `json:"owner"`
	SSHURL      string            `json:"ssh_url"`
	Archived    bool              `json:"archived"`
	Fork        bool              `json:"fork"`
	Description *string           `json:"description"`
}

func makeRepo(owner, name string) apiRepo {
	return apiRepo{
		Name:     name,
		FullName: owner + "/" + name,
		Owner:    map[string]string{"login": owner},
		SSHURL:   fmt.Sprintf("git@github.com:%s/%s.git", owner, name),
	}
}

// pagedHandler serves pages[page-1] for ?page=N and an empty array past
// the end.
func pagedHandler(t *testing.T, pages [][]apiRepo) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		items := []apiRepo{}
		if page <= len(pages) {
			items = pages[page-1]
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(items)
	}
}

// newTestLister returns a Lister talking to handler over httptest.
func newTestLister(t *testing.T, handler http.Handler) (*Lister, *httptest.Server) {
	t.Helper()
	ts := newServer(t, handler)

	client, err := NewClient(context.Background(), ClientConfig{APIURL: ts.URL})
	require.NoError(t, err)
	return NewLister(client), ts
}

func newServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}
