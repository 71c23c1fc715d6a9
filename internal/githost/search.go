package githost

import (
	"context"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/reposcribe/internal/errs"
	"github.com/fyrsmithlabs/reposcribe/internal/logging"
	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
)

const defaultSearchSort = "stars"

// SearchQuery holds human filter options for repository search.
type SearchQuery struct {
	Query              string
	MinStars           int
	Language           string
	License            string
	HasIssues          bool
	HasWiki            bool
	HasGoodFirstIssues bool
	IsOpenSource       bool
	Sort               string // stars (default), forks, updated
	PerPage            int
	Page               int
}

// Build assembles the host query string and options.
func (q SearchQuery) Build() (string, *github.SearchOptions, error) {
	if strings.TrimSpace(q.Query) == "" {
		return "", nil, errs.InvalidArgument("search query is required")
	}
	if q.MinStars < 0 {
		return "", nil, errs.InvalidArgument("minStars must not be negative")
	}

	var b strings.Builder
	b.WriteString(q.Query)
	if q.MinStars > 0 {
		b.WriteString(" stars:>=" + strconv.Itoa(q.MinStars))
	}
	if q.Language != "" {
		b.WriteString(" language:" + q.Language)
	}
	if q.License != "" {
		b.WriteString(" license:" + q.License)
	}
	if q.HasIssues {
		b.WriteString(" has:issues")
	}
	if q.HasWiki {
		b.WriteString(" has:wiki")
	}
	if q.HasGoodFirstIssues {
		b.WriteString(" label:good-first-issue")
	}
	if q.IsOpenSource {
		b.WriteString(" topic:open-source")
	}

	sort := q.Sort
	if sort == "" {
		sort = defaultSearchSort
	}

	return b.String(), &github.SearchOptions{
		Sort:  sort,
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: q.PerPage,
			Page:    q.Page,
		},
	}, nil
}

// Searcher runs repository searches.
type Searcher struct {
	client *github.Client
	logger *logging.Logger
}

// NewSearcher creates a Searcher.
func NewSearcher(client *github.Client, logger *logging.Logger) *Searcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Searcher{client: client, logger: logger}
}

// Search returns the host's repository search result for q.
func (s *Searcher) Search(ctx context.Context, q SearchQuery) (*github.RepositoriesSearchResult, error) {
	query, opts, err := q.Build()
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "githost.Search")
	defer span.End()

	result, resp, err := s.client.Search.Repositories(ctx, query, opts)
	if err != nil {
		err = classifyError("search/repositories", resp, err)
		span.RecordError(err)
		s.logger.Error(ctx, "repository search failed",
			zap.String("query", query),
			zap.Int("status", errs.StatusCode(err)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug(ctx, "repository search completed",
		zap.String("query", query),
		zap.Int("total", result.GetTotal()),
	)
	return result, nil
}
