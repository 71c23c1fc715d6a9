// Package digest composes aggregation and summarization into the three
// request modes: a raw code block, a single repository file, and every
// priority file of a repository.
package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/reposcribe/internal/aggregate"
	"github.com/fyrsmithlabs/reposcribe/internal/errs"
	"github.com/fyrsmithlabs/reposcribe/internal/githost"
	"github.com/fyrsmithlabs/reposcribe/internal/logging"
	"github.com/fyrsmithlabs/reposcribe/internal/summarize"
	"go.uber.org/zap"
)

// ErrNoContent is returned when every candidate file was skipped.
var ErrNoContent = errors.New("the requested files are empty or their content could not be retrieved")

// Aggregator builds text blobs. Implemented by *aggregate.Pipeline.
type Aggregator interface {
	Aggregate(ctx context.Context, coord githost.Coordinate, paths []string) (*aggregate.Blob, error)
	AggregateRepository(ctx context.Context, coord githost.Coordinate) (*aggregate.Blob, error)
}

// Summarizer produces a three-part summary. Implemented by *summarize.Service.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (*summarize.Result, error)
}

// Mode selects what a Request summarizes.
type Mode int

const (
	ModeCode Mode = iota + 1
	ModeFile
	ModeRepository
)

func (m Mode) String() string {
	switch m {
	case ModeCode:
		return "code"
	case ModeFile:
		return "file"
	case ModeRepository:
		return "repository"
	default:
		return "invalid"
	}
}

// Request is a summarize call in any mode.
type Request struct {
	CodeBlock    string
	Owner        string
	Repo         string
	FilePath     string
	SummarizeAll bool
}

// Mode resolves the request's mode. A whole-repository request wins over a
// single file, which wins over a code block.
func (r Request) Mode() (Mode, error) {
	hasRepo := r.Owner != "" && r.Repo != ""
	switch {
	case r.SummarizeAll && hasRepo:
		return ModeRepository, nil
	case hasRepo && r.FilePath != "":
		return ModeFile, nil
	case r.CodeBlock != "":
		return ModeCode, nil
	default:
		return 0, errs.InvalidArgument("provide a code block or repository details")
	}
}

// Report is a summary plus the files left out of it.
type Report struct {
	summarize.Result
	SkippedFiles []string `json:"skippedFiles"`
}

// Service runs requests.
type Service struct {
	aggregator Aggregator
	summarizer Summarizer
	logger     *logging.Logger
}

// NewService creates a Service. A nil logger discards output.
func NewService(aggregator Aggregator, summarizer Summarizer, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{aggregator: aggregator, summarizer: summarizer, logger: logger}
}

// Summarize dispatches req by its mode.
func (s *Service) Summarize(ctx context.Context, req Request) (*Report, error) {
	mode, err := req.Mode()
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeRepository:
		return s.SummarizeRepository(ctx, githost.Coordinate{Owner: req.Owner, Repo: req.Repo})
	case ModeFile:
		return s.SummarizeFile(ctx, githost.Coordinate{Owner: req.Owner, Repo: req.Repo}, req.FilePath)
	default:
		return s.SummarizeCode(ctx, req.CodeBlock)
	}
}

// SummarizeCode summarizes code as given.
func (s *Service) SummarizeCode(ctx context.Context, code string) (*Report, error) {
	if strings.TrimSpace(code) == "" {
		return nil, errs.InvalidArgument("code block is empty")
	}
	s.logger.Info(ctx, "summarizing code block", zap.Int("bytes", len(code)))
	return s.summarize(ctx, code, nil)
}

// SummarizeFile summarizes one repository file.
func (s *Service) SummarizeFile(ctx context.Context, coord githost.Coordinate, path string) (*Report, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errs.InvalidArgument("file path is required")
	}
	ctx = logging.WithRepository(ctx, coord.Owner, coord.Repo)
	s.logger.Info(ctx, "summarizing file", zap.String("path", path))

	blob, err := s.aggregator.Aggregate(ctx, coord, []string{path})
	if err != nil {
		return nil, err
	}
	return s.summarizeBlob(ctx, blob)
}

// SummarizeRepository summarizes every priority file of the repository.
func (s *Service) SummarizeRepository(ctx context.Context, coord githost.Coordinate) (*Report, error) {
	ctx = logging.WithRepository(ctx, coord.Owner, coord.Repo)
	s.logger.Info(ctx, "summarizing priority files")

	blob, err := s.aggregator.AggregateRepository(ctx, coord)
	if err != nil {
		return nil, err
	}
	return s.summarizeBlob(ctx, blob)
}

func (s *Service) summarizeBlob(ctx context.Context, blob *aggregate.Blob) (*Report, error) {
	if len(blob.Files) == 0 {
		s.logger.Warn(ctx, "all candidate files skipped", zap.Strings("skipped", blob.SkippedFiles))
		return nil, fmt.Errorf("%w: skipped %s", ErrNoContent, strings.Join(blob.SkippedFiles, ", "))
	}
	return s.summarize(ctx, blob.Text, blob.SkippedFiles)
}

func (s *Service) summarize(ctx context.Context, text string, skipped []string) (*Report, error) {
	res, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		return nil, err
	}
	if skipped == nil {
		skipped = []string{}
	}
	return &Report{Result: *res, SkippedFiles: skipped}, nil
}
