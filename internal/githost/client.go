// Package githost talks to the repository host (GitHub REST v3).
//
// It provides the content fetcher, which classifies a single path's
// response into content or a recoverable skip, the tree walker, which
// enumerates a repository's files, and repository search. All three share
// one *github.Client built by NewClient from injected configuration.
package githost

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fyrsmithlabs/reposcribe/internal/config"
	"github.com/fyrsmithlabs/reposcribe/internal/errs"
	"github.com/google/go-github/v57/github"
	"go.opentelemetry.io/otel"
	"golang.org/x/oauth2"
)

const (
	service             = "github"
	instrumentationName = "github.com/fyrsmithlabs/reposcribe/internal/githost"
)

var tracer = otel.Tracer(instrumentationName)

// NewClient creates a GitHub client with the configured credential and
// endpoint. An unset token yields an unauthenticated client.
func NewClient(ctx context.Context, cfg config.GitHubConfig) (*github.Client, error) {
	var httpClient *http.Client
	if cfg.Token.IsSet() {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token.Value()})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	client := github.NewClient(httpClient)

	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid github base url: %w", err)
		}
		client.BaseURL = u
	}

	return client, nil
}

// Coordinate identifies a remote repository.
type Coordinate struct {
	Owner string
	Repo  string
}

// String returns owner/repo.
func (c Coordinate) String() string {
	return c.Owner + "/" + c.Repo
}

// Validate fails with an InvalidArgument error when a field is blank.
func (c Coordinate) Validate() error {
	if strings.TrimSpace(c.Owner) == "" {
		return errs.InvalidArgument("owner is required")
	}
	if strings.TrimSpace(c.Repo) == "" {
		return errs.InvalidArgument("repo is required")
	}
	if strings.ContainsAny(c.Owner+c.Repo, "/ ") {
		return errs.InvalidArgument("invalid repository %q", c.String())
	}
	return nil
}

// validatePath rejects paths that step out of the repository root. Names
// that merely contain dots, such as "v1..v2.md", are legal.
func validatePath(path string) error {
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return errs.InvalidArgument("path %q must not contain a '..' segment", path)
		}
	}
	return nil
}

// classifyError maps a go-github failure onto the errs taxonomy. A 2xx
// response paired with an error means the body did not decode into the
// expected shape.
func classifyError(path string, resp *github.Response, err error) error {
	if err == nil {
		return nil
	}

	var (
		errResp  *github.ErrorResponse
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		accepted *github.AcceptedError
	)
	status := statusOf(resp)

	switch {
	case errors.As(err, &rateErr):
		return &errs.RemoteError{Service: service, StatusCode: responseStatus(rateErr.Response, http.StatusForbidden), Message: rateErr.Message, Err: err}
	case errors.As(err, &abuseErr):
		return &errs.RemoteError{Service: service, StatusCode: responseStatus(abuseErr.Response, http.StatusForbidden), Message: abuseErr.Message, Err: err}
	case errors.As(err, &errResp):
		msg := errResp.Message
		if msg == "" {
			msg = http.StatusText(responseStatus(errResp.Response, 0))
		}
		return &errs.RemoteError{Service: service, StatusCode: responseStatus(errResp.Response, status), Message: msg, Err: err}
	case errors.As(err, &accepted):
		return &errs.RemoteError{Service: service, StatusCode: http.StatusAccepted, Message: accepted.Error(), Err: err}
	case status >= 200 && status < 300:
		return &errs.ProtocolError{Service: service, Path: path, Detail: err.Error()}
	default:
		return &errs.RemoteError{Service: service, StatusCode: status, Err: err}
	}
}

func statusOf(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

func responseStatus(r *http.Response, fallback int) int {
	if r == nil {
		return fallback
	}
	return r.StatusCode
}
