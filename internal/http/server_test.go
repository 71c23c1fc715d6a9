package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fyrsmithlabs/reposcribe/internal/aggregate"
	"github.com/fyrsmithlabs/reposcribe/internal/digest"
	"github.com/fyrsmithlabs/reposcribe/internal/errs"
	"github.com/fyrsmithlabs/reposcribe/internal/githost"
	"github.com/fyrsmithlabs/reposcribe/internal/logging"
	"github.com/fyrsmithlabs/reposcribe/internal/summarize"
	"github.com/google/go-github/v57/github"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDigester struct {
	report  *digest.Report
	err     error
	req     digest.Request
	coord   githost.Coordinate
	repoRun bool
}

func (d *fakeDigester) Summarize(_ context.Context, req digest.Request) (*digest.Report, error) {
	d.req = req
	if _, err := req.Mode(); err != nil {
		return nil, err
	}
	return d.report, d.err
}

func (d *fakeDigester) SummarizeRepository(_ context.Context, coord githost.Coordinate) (*digest.Report, error) {
	d.repoRun = true
	d.coord = coord
	return d.report, d.err
}

type fakeSearcher struct {
	query  githost.SearchQuery
	result *github.RepositoriesSearchResult
	err    error
}

func (s *fakeSearcher) Search(_ context.Context, q githost.SearchQuery) (*github.RepositoriesSearchResult, error) {
	s.query = q
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func sampleReport() *digest.Report {
	return &digest.Report{
		Result:       summarize.Result{Overview: "o", KeyComponents: "k", TechnicalDetails: "t"},
		SkippedFiles: []string{"docs/empty.md"},
	}
}

func setupTestServer(t *testing.T, d *fakeDigester, s *fakeSearcher) *Server {
	t.Helper()
	if d == nil {
		d = &fakeDigester{report: sampleReport()}
	}
	if s == nil {
		s = &fakeSearcher{result: &github.RepositoriesSearchResult{}}
	}
	server, err := NewServer(d, s, logging.NewNop(), nil)
	require.NoError(t, err)
	return server
}

func postJSON(t *testing.T, server *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestNewServer(t *testing.T) {
	t.Run("uses defaults when config is nil", func(t *testing.T) {
		server, err := NewServer(&fakeDigester{}, &fakeSearcher{}, logging.NewNop(), nil)
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0", server.config.Host)
		assert.Equal(t, 5001, server.config.Port)
		assert.Equal(t, "10M", server.config.BodyLimit)
	})

	t.Run("returns error when logger is nil", func(t *testing.T) {
		_, err := NewServer(&fakeDigester{}, &fakeSearcher{}, nil, nil)
		assert.ErrorContains(t, err, "logger is required")
	})

	t.Run("returns error when digester is nil", func(t *testing.T) {
		_, err := NewServer(nil, &fakeSearcher{}, logging.NewNop(), nil)
		assert.ErrorContains(t, err, "digester cannot be nil")
	})
}

func TestHandleHealth(t *testing.T) {
	server := setupTestServer(t, nil, nil)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestHandleSummarizeCode(t *testing.T) {
	t.Run("returns summary with skipped files", func(t *testing.T) {
		d := &fakeDigester{report: sampleReport()}
		server := setupTestServer(t, d, nil)

		rec := postJSON(t, server, "/summarize-code", map[string]any{
			"owner": "octo", "repo": "demo", "summarizeAll": true,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"overview":"o","keyComponents":"k","technicalDetails":"t","skippedFiles":["docs/empty.md"]}`, rec.Body.String())
		assert.Equal(t, digest.Request{Owner: "octo", Repo: "demo", SummarizeAll: true}, d.req)
	})

	t.Run("passes file path through", func(t *testing.T) {
		d := &fakeDigester{report: sampleReport()}
		server := setupTestServer(t, d, nil)

		rec := postJSON(t, server, "/summarize-code", SummarizeCodeRequest{Owner: "octo", Repo: "demo", FilePath: "main.py"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "main.py", d.req.FilePath)
	})

	t.Run("rejects empty request", func(t *testing.T) {
		server := setupTestServer(t, nil, nil)

		rec := postJSON(t, server, "/summarize-code", map[string]any{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec), "provide a code block or repository details")
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		server := setupTestServer(t, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/summarize-code", strings.NewReader("{"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid request body", decodeError(t, rec))
	})
}

func TestHandleSummarizePriorityFiles(t *testing.T) {
	t.Run("summarizes repository", func(t *testing.T) {
		d := &fakeDigester{report: sampleReport()}
		server := setupTestServer(t, d, nil)

		rec := postJSON(t, server, "/summarize-priority-files", SummarizePriorityFilesRequest{Owner: "octo", Repo: "demo"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, d.repoRun)
		assert.Equal(t, githost.Coordinate{Owner: "octo", Repo: "demo"}, d.coord)
	})

	t.Run("requires owner and repo", func(t *testing.T) {
		d := &fakeDigester{}
		server := setupTestServer(t, d, nil)

		rec := postJSON(t, server, "/summarize-priority-files", SummarizePriorityFilesRequest{Owner: "octo"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request: Provide repository owner and name", decodeError(t, rec))
		assert.False(t, d.repoRun)
	})
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"no matching files", aggregate.ErrNoMatchingFiles, http.StatusNotFound, "No priority files or folders found in the repository"},
		{"no content", fmt.Errorf("%w: skipped a.md", digest.ErrNoContent), http.StatusBadRequest, "skipped a.md"},
		{"invalid argument", errs.InvalidArgument("owner is required"), http.StatusBadRequest, "owner is required"},
		{"remote unavailable", &errs.RemoteError{Service: "github", StatusCode: 404, Message: "Not Found"}, http.StatusBadGateway, "github unavailable (status 404): Not Found"},
		{"protocol", &errs.ProtocolError{Service: "github", Path: "docs", Detail: "expected a file"}, http.StatusBadGateway, "expected a file"},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "disk on fire"},
		{"deadline", fmt.Errorf("summarize: %w", context.DeadlineExceeded), http.StatusInternalServerError, "summarize: context deadline exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := setupTestServer(t, &fakeDigester{err: tt.err}, nil)

			rec := postJSON(t, server, "/summarize-priority-files", SummarizePriorityFilesRequest{Owner: "octo", Repo: "demo"})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, decodeError(t, rec), tt.wantMsg)
		})
	}
}

func TestHandleSearchRepos(t *testing.T) {
	t.Run("maps query parameters", func(t *testing.T) {
		total := 1
		s := &fakeSearcher{result: &github.RepositoriesSearchResult{
			Total:        &total,
			Repositories: []*github.Repository{{FullName: github.String("octo/demo")}},
		}}
		server := setupTestServer(t, nil, s)

		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/search-repos?query=cli&minStars=50&language=go&license=mit&sort=updated&hasIssues=true&hasWiki=false&hasGoodFirstIssues=true&isOpenSource=true", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, githost.SearchQuery{
			Query:              "cli",
			MinStars:           50,
			Language:           "go",
			License:            "mit",
			Sort:               "updated",
			HasIssues:          true,
			HasGoodFirstIssues: true,
			IsOpenSource:       true,
		}, s.query)

		var body github.RepositoriesSearchResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body.GetTotal())
	})

	t.Run("requires query", func(t *testing.T) {
		server := setupTestServer(t, nil, nil)

		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search-repos", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Search query is required", decodeError(t, rec))
	})

	t.Run("rejects non-numeric minStars", func(t *testing.T) {
		server := setupTestServer(t, nil, nil)

		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search-repos?query=x&minStars=lots", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCORS(t *testing.T) {
	server := setupTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/summarize-code", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestMetricsEndpoint(t *testing.T) {
	server := setupTestServer(t, nil, nil)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	server, err := NewServer(&fakeDigester{}, &fakeSearcher{}, logging.NewNop(), &Config{Host: "127.0.0.1", Port: 0})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()
	cancel()

	assert.ErrorIs(t, <-done, http.ErrServerClosed)
}
