package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points the client at a mock API. NewEnterpriseClient mounts
// enterprise-style URLs under /api/v3/.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, "T")
	require.NoError(t, err)
	return c
}

func TestAuthenticatedUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/user", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login": "alice"}`)
	})
	c := newTestClient(t, mux)

	login, err := c.AuthenticatedUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", login)
}

func TestAuthenticatedUserRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/user", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	})
	c := newTestClient(t, mux)

	_, err := c.AuthenticatedUser(context.Background())
	assert.Error(t, err)
}

func TestRepoExists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/alice/demo", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"full_name": "alice/demo"}`)
	})
	c := newTestClient(t, mux)

	assert.NoError(t, c.RepoExists(context.Background(), "alice/demo"))
	assert.Error(t, c.RepoExists(context.Background(), "alice/missing"))
	assert.Error(t, c.RepoExists(context.Background(), "not-a-full-name"))
}

func TestCreateRepoTreats422AsSuccess(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"created", http.StatusCreated, false},
		{"already exists", http.StatusUnprocessableEntity, false},
		{"forbidden", http.StatusForbidden, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/v3/user/repos", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"name": "demo"}`)
			})
			c := newTestClient(t, mux)

			err := c.CreateRepo(context.Background(), "demo")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestListRepos(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/users/alice/repos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"name":"demo","full_name":"alice/demo","private":false,"language":"Go","html_url":"https://github.com/alice/demo"},
			{"name":"secret","full_name":"alice/secret","private":true}
		]`)
	})
	c := newTestClient(t, mux)

	repos, err := c.ListRepos(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "public", repos[0].Visibility)
	assert.Equal(t, "Go", repos[0].Language)
	assert.Equal(t, "private", repos[1].Visibility)
	assert.Equal(t, "Unknown", repos[1].Language)
}

func TestContainerPackages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/user/packages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "container", r.URL.Query().Get("package_type"))
		fmt.Fprint(w, `[{"id":1,"name":"demo","package_type":"container","visibility":"public","owner":{"login":"alice"}}]`)
	})
	mux.HandleFunc("/api/v3/user/packages/container/demo/versions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id":10,"name":"v1","updated_at":"2026-01-01T00:00:00Z"},
			{"id":11,"name":"v2","updated_at":"2026-02-01T00:00:00Z"}
		]`)
	})
	c := newTestClient(t, mux)

	pkgs, err := c.ContainerPackages(context.Background())
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "alice/demo", pkgs[0].FullName)
	assert.Equal(t, 2, pkgs[0].Versions)
	assert.Equal(t, "v2", pkgs[0].Details[0].Name, "versions sorted newest first")
}
