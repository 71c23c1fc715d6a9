package http

import (
	"net/http"
	"strconv"

	"github.com/fyrsmithlabs/reposcribe/internal/digest"
	"github.com/fyrsmithlabs/reposcribe/internal/githost"
	"github.com/labstack/echo/v4"
)

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleSummarizeCode summarizes a code block, one file or a repository,
// whichever the body selects.
func (s *Server) handleSummarizeCode(c echo.Context) error {
	var req SummarizeCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	report, err := s.digester.Summarize(c.Request().Context(), digest.Request{
		CodeBlock:    req.CodeBlock,
		Owner:        req.Owner,
		Repo:         req.Repo,
		FilePath:     req.FilePath,
		SummarizeAll: req.SummarizeAll,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// handleSummarizePriorityFiles summarizes every priority file of a repository.
func (s *Server) handleSummarizePriorityFiles(c echo.Context) error {
	var req SummarizePriorityFilesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Owner == "" || req.Repo == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request: Provide repository owner and name")
	}

	report, err := s.digester.SummarizeRepository(c.Request().Context(), githost.Coordinate{Owner: req.Owner, Repo: req.Repo})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// handleSearchRepos maps query parameters onto a repository search.
func (s *Server) handleSearchRepos(c echo.Context) error {
	q := githost.SearchQuery{
		Query:              c.QueryParam("query"),
		Language:           c.QueryParam("language"),
		License:            c.QueryParam("license"),
		Sort:               c.QueryParam("sort"),
		HasIssues:          c.QueryParam("hasIssues") == "true",
		HasWiki:            c.QueryParam("hasWiki") == "true",
		HasGoodFirstIssues: c.QueryParam("hasGoodFirstIssues") == "true",
		IsOpenSource:       c.QueryParam("isOpenSource") == "true",
	}
	if q.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}
	if v := c.QueryParam("minStars"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "minStars must be an integer")
		}
		q.MinStars = n
	}

	result, err := s.searcher.Search(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
