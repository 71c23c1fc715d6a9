package githost

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fyrsmithlabs/reposcribe/internal/config"
	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/require"
)

// reply is one canned host response.
type reply struct {
	status int
	body   string
	header map[string]string
}

// fakeHost serves canned contents-API replies keyed by request path.
type fakeHost struct {
	replies map[string]reply
	hits    atomic.Int32
	last    atomic.Pointer[http.Request]
}

func (h *fakeHost) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.hits.Add(1)
	h.last.Store(r)

	rep, ok := h.replies[r.URL.Path]
	if !ok {
		rep = reply{status: http.StatusNotFound, body: `{"message":"Not Found"}`}
	}
	for k, v := range rep.header {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "application/json")
	status := rep.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(rep.body))
}

// newFakeHost starts a server and returns a client pointed at it.
func newFakeHost(t *testing.T, replies map[string]reply) (*fakeHost, *github.Client) {
	t.Helper()
	host := &fakeHost{replies: replies}
	srv := httptest.NewServer(host)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), config.GitHubConfig{
		Token:   "ghp_test",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)
	return host, client
}

func contentsPath(path string) string {
	return "/repos/octo/demo/contents/" + path
}

var demo = Coordinate{Owner: "octo", Repo: "demo"}
