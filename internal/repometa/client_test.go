package repometa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/errcode"
	"folio/internal/resume"
)

const reposJSON = `[
  {"name":"folio","description":"<script>alert(1)</script>Resume <b>engine</b> &amp; themes","html_url":"https://github.com/ana/folio","language":"Go","updated_at":"2024-03-01T10:00:00Z","fork":false},
  {"name":"fork-of-x","description":"","html_url":"https://github.com/ana/x","language":null,"updated_at":"2023-01-01T00:00:00Z","fork":true},
  {"name":"evil","description":"click","html_url":"javascript:alert(1)","language":"JS","updated_at":"bad","fork":false}
]`

func newServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var got http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = *r
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestFetchReposSanitizes(t *testing.T) {
	srv, req := newServer(t, http.StatusOK, reposJSON)
	c := NewClient(srv.URL, "tok", time.Second)

	repos, err := c.FetchRepos(context.Background(), "ana", 10)
	require.NoError(t, err)
	require.Len(t, repos, 3)

	assert.Equal(t, "/users/ana/repos", req.URL.Path)
	assert.Equal(t, "updated", req.URL.Query().Get("sort"))
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))

	assert.Equal(t, "Resume engine & themes", repos[0].Description)
	assert.Equal(t, "https://github.com/ana/folio", repos[0].URL)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), repos[0].UpdatedAt)
	assert.True(t, repos[1].Fork)
	assert.Empty(t, repos[1].Language)
	assert.Empty(t, repos[2].URL)
	assert.True(t, repos[2].UpdatedAt.IsZero())
}

func TestFetchReposLimit(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, reposJSON)
	repos, err := NewClient(srv.URL, "", time.Second).FetchRepos(context.Background(), "ana", 1)
	require.NoError(t, err)
	assert.Len(t, repos, 1)
}

func TestFetchReposErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient("http://unused", "", time.Second).FetchRepos(ctx, "../etc", 0)
	assert.ErrorIs(t, err, errcode.ErrMalformedEntry)

	srv, _ := newServer(t, http.StatusNotFound, `{"message":"Not Found"}`)
	_, err = NewClient(srv.URL, "", time.Second).FetchRepos(ctx, "ghost", 0)
	assert.ErrorIs(t, err, errcode.ErrResourceMissing)

	srv, _ = newServer(t, http.StatusForbidden, `{"message":"rate limited"}`)
	_, err = NewClient(srv.URL, "", time.Second).FetchRepos(ctx, "ana", 0)
	assert.ErrorIs(t, err, errcode.ErrServiceUnavailable)

	srv, _ = newServer(t, http.StatusOK, `{"not":"an array"}`)
	_, err = NewClient(srv.URL, "", time.Second).FetchRepos(ctx, "ana", 0)
	assert.ErrorIs(t, err, errcode.ErrServiceUnavailable)
}

func TestToProjectsAndAppend(t *testing.T) {
	repos := []Repo{
		{Name: "folio", Description: "d", URL: "https://github.com/ana/folio", Language: "Go"},
		{Name: "fork", Fork: true},
		{Name: "otel", URL: "https://github.com/ana/otel-exporter"},
	}
	projects := ToProjects(repos)
	require.Len(t, projects, 2)
	assert.Equal(t, "Go", projects[0].Technologies)
	assert.NotEmpty(t, projects[0].ID)
	assert.NotEqual(t, projects[0].ID, projects[1].ID)

	base := resume.Template()
	out := AppendProjects(base, repos)
	// 模板里已有 otel-exporter，按链接去重
	assert.Len(t, out.Projects, len(base.Projects)+1)
	assert.Len(t, base.Projects, 1)
}
