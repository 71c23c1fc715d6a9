// Package aggregate folds repository file contents into one marker-delimited
// text blob for summarization.
//
// Candidate paths are fetched concurrently with a bounded fan-out and folded
// back in input order. Empty files and submodules are recorded as skipped and
// never stop the run; any other fetch failure aborts it.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fyrsmithlabs/reposcribe/internal/githost"
	"github.com/fyrsmithlabs/reposcribe/internal/logging"
	"github.com/fyrsmithlabs/reposcribe/internal/priority"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const instrumentationName = "github.com/fyrsmithlabs/reposcribe/internal/aggregate"

var tracer = otel.Tracer(instrumentationName)

// DefaultConcurrency bounds parallel fetches when Options leaves it unset.
const DefaultConcurrency = 4

// ErrNoMatchingFiles is returned when there is nothing to aggregate.
var ErrNoMatchingFiles = errors.New("no priority files or folders found in the repository")

// ContentFetcher reads one file. Implemented by *githost.Fetcher.
type ContentFetcher interface {
	Fetch(ctx context.Context, coord githost.Coordinate, path string) (githost.Outcome, error)
}

// FileLister enumerates repository files. Implemented by *githost.Walker.
type FileLister interface {
	ListFiles(ctx context.Context, coord githost.Coordinate, root string) ([]string, error)
}

// Blob is the aggregated text plus diagnostics.
type Blob struct {
	// Text holds one "\n\n// File: <path>\n<content>" section per fetched file.
	Text string
	// SkippedFiles lists empty files and submodules, in input order.
	SkippedFiles []string
	// Files lists the paths that contributed a section, in input order.
	Files []string
}

// Options configures a Pipeline.
type Options struct {
	// Concurrency bounds parallel fetches. Defaults to DefaultConcurrency.
	Concurrency int
	// SortPaths sorts candidates before fetching, making output independent
	// of the host's listing order.
	SortPaths bool
	// Logger receives skip diagnostics. Defaults to a nop logger.
	Logger *logging.Logger
}

// Pipeline composes a lister and a fetcher.
type Pipeline struct {
	fetcher     ContentFetcher
	lister      FileLister
	concurrency int
	sortPaths   bool
	logger      *logging.Logger
}

// New creates a Pipeline. lister may be nil when only Aggregate is used.
func New(fetcher ContentFetcher, lister FileLister, opts Options) *Pipeline {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Pipeline{
		fetcher:     fetcher,
		lister:      lister,
		concurrency: opts.Concurrency,
		sortPaths:   opts.SortPaths,
		logger:      opts.Logger,
	}
}

// AggregateRepository lists the repository, keeps priority files and
// aggregates them. ErrNoMatchingFiles is returned when none match.
func (p *Pipeline) AggregateRepository(ctx context.Context, coord githost.Coordinate) (*Blob, error) {
	if p.lister == nil {
		return nil, errors.New("aggregate: pipeline has no file lister")
	}
	if err := coord.Validate(); err != nil {
		return nil, err
	}

	files, err := p.lister.ListFiles(ctx, coord, "")
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	// The lister prunes while walking; filtering again keeps an unfiltered
	// lister from leaking non-priority files into the blob.
	candidates := priority.Filter(files)
	p.logger.Info(ctx, "priority files selected",
		zap.Int("listed", len(files)),
		zap.Int("selected", len(candidates)),
	)

	return p.Aggregate(ctx, coord, candidates)
}

// Aggregate fetches paths and folds them into a Blob.
//
// Sections appear in the order of paths (or sorted order with SortPaths),
// regardless of fetch completion order. The first hard fetch error cancels
// outstanding fetches and is returned.
func (p *Pipeline) Aggregate(ctx context.Context, coord githost.Coordinate, paths []string) (*Blob, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		RunsTotal.WithLabelValues("no_files").Inc()
		return nil, ErrNoMatchingFiles
	}

	ctx, span := tracer.Start(ctx, "aggregate.Aggregate")
	defer span.End()
	span.SetAttributes(
		attribute.String("repo", coord.String()),
		attribute.Int("candidates", len(paths)),
		attribute.Int("concurrency", p.concurrency),
	)

	start := time.Now()
	candidates := paths
	if p.sortPaths {
		candidates = append([]string(nil), paths...)
		sort.Strings(candidates)
	}

	outcomes, err := p.fetchAll(ctx, coord, candidates)
	RunDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		RunsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	blob := p.fold(ctx, outcomes)
	RunsTotal.WithLabelValues("success").Inc()
	span.SetAttributes(
		attribute.Int("files", len(blob.Files)),
		attribute.Int("skipped", len(blob.SkippedFiles)),
	)
	return blob, nil
}

// fetchAll runs the bounded fan-out. outcomes[i] belongs to paths[i].
func (p *Pipeline) fetchAll(ctx context.Context, coord githost.Coordinate, paths []string) ([]githost.Outcome, error) {
	outcomes := make([]githost.Outcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := p.fetcher.Fetch(gctx, coord, path)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", path, err)
			}
			outcomes[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (p *Pipeline) fold(ctx context.Context, outcomes []githost.Outcome) *Blob {
	blob := &Blob{
		SkippedFiles: make([]string, 0),
		Files:        make([]string, 0, len(outcomes)),
	}

	var b strings.Builder
	for _, out := range outcomes {
		if out.Kind.Skipped() {
			SkippedTotal.WithLabelValues(out.Kind.String()).Inc()
			p.logger.Warn(ctx, "skipping file",
				zap.String("path", out.Path),
				zap.String("reason", out.Kind.String()),
			)
			blob.SkippedFiles = append(blob.SkippedFiles, out.Path)
			continue
		}
		b.WriteString(Section(out.Path, out.Content))
		blob.Files = append(blob.Files, out.Path)
	}
	blob.Text = b.String()
	return blob
}

// Section renders one file's block of the blob.
func Section(path, content string) string {
	return "\n\n// File: " + path + "\n" + content
}
