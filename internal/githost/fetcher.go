package githost

import (
	"context"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/reposcribe/internal/errs"
	"github.com/fyrsmithlabs/reposcribe/internal/logging"
	"github.com/google/go-github/v57/github"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// responseShape is the part of a contents response that decides its outcome.
type responseShape struct {
	kind       EntryKind
	hasContent bool
	zeroSize   bool
}

type verdict int

const (
	verdictContent verdict = iota
	verdictEmpty
	verdictSubmodule
	verdictDirectory
	verdictMissingContent
)

// verdicts maps every response shape to exactly one outcome. Shapes not
// listed (symlinks, unknown kinds) are protocol errors.
var verdicts = map[responseShape]verdict{
	{EntryFile, true, false}:       verdictContent,
	{EntryFile, true, true}:        verdictContent,
	{EntryFile, false, true}:       verdictEmpty,
	{EntryFile, false, false}:      verdictMissingContent,
	{EntrySubmodule, true, false}:  verdictSubmodule,
	{EntrySubmodule, true, true}:   verdictSubmodule,
	{EntrySubmodule, false, false}: verdictSubmodule,
	{EntrySubmodule, false, true}:  verdictSubmodule,
	{EntryDir, true, false}:        verdictDirectory,
	{EntryDir, true, true}:         verdictDirectory,
	{EntryDir, false, false}:       verdictDirectory,
	{EntryDir, false, true}:        verdictDirectory,
}

// Fetcher retrieves single-file contents.
type Fetcher struct {
	client *github.Client
	logger *logging.Logger
}

// NewFetcher creates a Fetcher. A nil logger discards output.
func NewFetcher(client *github.Client, logger *logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Fetcher{client: client, logger: logger}
}

// Fetch reads path from the repository and classifies the response.
//
// Empty files and submodules are returned as skipped outcomes with a nil
// error. Transport and non-2xx failures return a *errs.RemoteError; a
// response of the wrong shape returns a *errs.ProtocolError.
func (f *Fetcher) Fetch(ctx context.Context, coord Coordinate, path string) (Outcome, error) {
	if err := coord.Validate(); err != nil {
		return Outcome{}, err
	}
	if strings.TrimSpace(path) == "" {
		return Outcome{}, errs.InvalidArgument("file path is required")
	}
	if err := validatePath(path); err != nil {
		return Outcome{}, err
	}

	ctx, span := tracer.Start(ctx, "githost.Fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("repo", coord.String()),
		attribute.String("path", path),
	)

	out, err := f.fetch(ctx, coord, path)
	if err != nil {
		FetchesTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		f.logger.Error(ctx, "file fetch failed",
			zap.String("path", path),
			zap.Int("status", errs.StatusCode(err)),
			zap.Error(err),
		)
		return Outcome{}, err
	}

	FetchesTotal.WithLabelValues(out.Kind.String()).Inc()
	span.SetAttributes(attribute.String("outcome", out.Kind.String()))
	return out, nil
}

func (f *Fetcher) fetch(ctx context.Context, coord Coordinate, path string) (Outcome, error) {
	file, dir, resp, err := f.client.Repositories.GetContents(ctx, coord.Owner, coord.Repo, path, nil)
	if err != nil {
		return Outcome{}, classifyError(path, resp, err)
	}
	if file == nil {
		return Outcome{}, &errs.ProtocolError{
			Service: service,
			Path:    path,
			Detail:  fmt.Sprintf("expected a file, got a directory listing of %d entries", len(dir)),
		}
	}
	return classify(path, file)
}

// classify applies the verdict table to a single-object response.
func classify(path string, rc *github.RepositoryContent) (Outcome, error) {
	shape := responseShape{
		kind:       parseEntryKind(rc.GetType()),
		hasContent: rc.Content != nil && *rc.Content != "",
		zeroSize:   rc.GetSize() == 0,
	}

	v, ok := verdicts[shape]
	if !ok {
		return Outcome{}, &errs.ProtocolError{
			Service: service,
			Path:    path,
			Detail:  fmt.Sprintf("unsupported entry type %q", rc.GetType()),
		}
	}

	switch v {
	case verdictContent:
		content, err := rc.GetContent()
		if err != nil {
			return Outcome{}, &errs.ProtocolError{Service: service, Path: path, Detail: fmt.Sprintf("decode content: %v", err)}
		}
		return Outcome{Path: path, Kind: OutcomeContent, Content: content}, nil
	case verdictEmpty:
		return Outcome{Path: path, Kind: OutcomeSkippedEmpty}, nil
	case verdictSubmodule:
		return Outcome{Path: path, Kind: OutcomeSkippedSubmodule}, nil
	case verdictDirectory:
		return Outcome{}, &errs.ProtocolError{Service: service, Path: path, Detail: "expected a file, got a directory"}
	default:
		return Outcome{}, &errs.ProtocolError{
			Service: service,
			Path:    path,
			Detail:  fmt.Sprintf("file reports size %d but carries no content", rc.GetSize()),
		}
	}
}
