package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGitHubTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users/jane", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"login": "jane",
			"name": "Jane Doe",
			"bio": "systems engineer",
			"html_url": "https://github.com/jane",
			"followers": 42,
			"public_repos": 3
		}`)
	})
	mux.HandleFunc("/users/jane/repos", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"name": "raft-kv", "html_url": "https://github.com/jane/raft-kv",
			 "language": "Go", "stargazers_count": 120, "forks_count": 9,
			 "size": 2000, "topics": ["distributed-systems"]},
			{"name": "dotfiles", "html_url": "https://github.com/jane/dotfiles",
			 "language": "Shell", "size": 50},
			{"name": "secret-stuff", "private": true, "language": "Go", "size": 900},
			{"name": "forked-lib", "html_url": "https://github.com/jane/forked-lib",
			 "language": "Rust", "fork": true, "size": 4000}
		]`)
	})
	return httptest.NewServer(mux)
}

func TestGitHubFetch(t *testing.T) {
	srv := newGitHubTestServer(t)
	defer srv.Close()

	adapter := NewGitHubAdapter(srv.URL, "")
	payload, err := adapter.Fetch(context.Background(), Request{GitHubUsername: "jane"})
	require.NoError(t, err)

	data := payload.GitHub
	require.NotNil(t, data)
	assert.Equal(t, "jane", data.Username)
	assert.Equal(t, 42, data.Followers)

	// Private repos are dropped; forks are listed but excluded from the
	// language aggregate.
	require.Len(t, data.Repositories, 3)
	assert.Equal(t, "raft-kv", data.Repositories[0].Name)
	assert.Equal(t, 120, data.Repositories[0].Stars)

	assert.Equal(t, 2000*1024, data.Languages["Go"])
	assert.Equal(t, 50*1024, data.Languages["Shell"])
	assert.NotContains(t, data.Languages, "Rust")
}

func TestGitHubFetchUnknownUserIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	adapter := NewGitHubAdapter(srv.URL, "")
	payload, err := adapter.Fetch(context.Background(), Request{GitHubUsername: "ghost"})
	require.NoError(t, err)

	require.NotNil(t, payload.GitHub)
	assert.Empty(t, payload.GitHub.Username)
	assert.Empty(t, payload.GitHub.Repositories)
}

func TestGitHubFetchNoUsername(t *testing.T) {
	adapter := NewGitHubAdapter("", "")

	payload, err := adapter.Fetch(context.Background(), Request{})
	require.NoError(t, err)
	require.NotNil(t, payload.GitHub)
	assert.Empty(t, payload.GitHub.Username)
}

func TestGitHubFetchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	adapter := NewGitHubAdapter(srv.URL, "")
	_, err := adapter.Fetch(context.Background(), Request{GitHubUsername: "jane"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestGitHubSendsAuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		http.NotFound(w, r)
	}))
	defer srv.Close()

	adapter := NewGitHubAdapter(srv.URL, "tok123")
	_, err := adapter.Fetch(context.Background(), Request{GitHubUsername: "jane"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok123", gotAuth)
}
