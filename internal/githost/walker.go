package githost

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/reposcribe/internal/errs"
	"github.com/fyrsmithlabs/reposcribe/internal/ignore"
	"github.com/fyrsmithlabs/reposcribe/internal/logging"
	"github.com/fyrsmithlabs/reposcribe/internal/priority"
	"github.com/google/go-github/v57/github"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// AcceptAll is a Walker filter that keeps every file.
func AcceptAll(string) bool { return true }

// Walker enumerates a repository's files.
type Walker struct {
	client *github.Client
	logger *logging.Logger

	// Filter decides which files are kept. Defaults to priority.Match.
	Filter func(path string) bool

	// Exclude prunes matching files and directories before they are
	// filtered or listed. Nil excludes nothing.
	Exclude *ignore.Matcher
}

// NewWalker creates a Walker that keeps priority files.
func NewWalker(client *github.Client, logger *logging.Logger) *Walker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Walker{client: client, logger: logger, Filter: priority.Match}
}

// ListFiles returns the accepted file paths under root in depth-first
// pre-order of the host's listing order. Directories are expanded from an
// explicit stack rather than by recursion. Submodules and unsupported entry
// kinds are logged and skipped.
//
// Any listing failure aborts the walk; no partial list is returned.
func (w *Walker) ListFiles(ctx context.Context, coord Coordinate, root string) ([]string, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}
	if err := validatePath(root); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "githost.ListFiles")
	defer span.End()
	span.SetAttributes(
		attribute.String("repo", coord.String()),
		attribute.String("root", root),
	)

	files, listings, err := w.walk(ctx, coord, root)
	span.SetAttributes(attribute.Int("listings", listings))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		w.logger.Error(ctx, "repository walk failed",
			zap.String("root", root),
			zap.Int("status", errs.StatusCode(err)),
			zap.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("files", len(files)))
	return files, nil
}

func (w *Walker) walk(ctx context.Context, coord Coordinate, root string) ([]string, int, error) {
	filter := w.Filter
	if filter == nil {
		filter = priority.Match
	}

	entries, err := w.list(ctx, coord, root)
	if err != nil {
		return nil, 1, err
	}
	listings := 1

	files := make([]string, 0)
	stack := pushReversed(nil, entries)
	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if w.Exclude.Match(entry.Path, entry.Kind == EntryDir) {
			w.logger.Debug(ctx, "skipping excluded entry", zap.String("path", entry.Path))
			continue
		}

		switch entry.Kind {
		case EntryFile:
			if filter(entry.Path) {
				files = append(files, entry.Path)
			}
		case EntryDir:
			children, err := w.list(ctx, coord, entry.Path)
			listings++
			if err != nil {
				return nil, listings, err
			}
			stack = pushReversed(stack, children)
		case EntrySubmodule:
			w.logger.Warn(ctx, "skipping submodule", zap.String("path", entry.Path))
		default:
			w.logger.Warn(ctx, "skipping unsupported entry",
				zap.String("path", entry.Path),
				zap.String("kind", string(entry.Kind)),
			)
		}
	}
	return files, listings, nil
}

// list reads one directory. A single-object response is a protocol error.
func (w *Walker) list(ctx context.Context, coord Coordinate, dir string) ([]TreeEntry, error) {
	file, listing, resp, err := w.client.Repositories.GetContents(ctx, coord.Owner, coord.Repo, dir, nil)
	if err != nil {
		ListingsTotal.WithLabelValues("error").Inc()
		return nil, classifyError(dir, resp, err)
	}
	if file != nil {
		ListingsTotal.WithLabelValues("error").Inc()
		return nil, &errs.ProtocolError{
			Service: service,
			Path:    dir,
			Detail:  fmt.Sprintf("expected a directory listing, got a single %q entry", file.GetType()),
		}
	}
	ListingsTotal.WithLabelValues("success").Inc()

	entries := make([]TreeEntry, 0, len(listing))
	for _, rc := range listing {
		entries = append(entries, TreeEntry{Path: rc.GetPath(), Kind: parseEntryKind(rc.GetType())})
	}
	w.logger.Debug(ctx, "listed directory", zap.String("dir", dir), zap.Int("entries", len(entries)))
	return entries, nil
}

// pushReversed pushes entries so that popping yields them in listing order.
func pushReversed(stack, entries []TreeEntry) []TreeEntry {
	for i := len(entries) - 1; i >= 0; i-- {
		stack = append(stack, entries[i])
	}
	return stack
}
