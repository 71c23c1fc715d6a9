// Package summarize turns a text blob into a three-part summary by fanning
// out one generation request per section and joining the results.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/reposcribe/internal/errs"
	"github.com/fyrsmithlabs/reposcribe/internal/logging"
	"github.com/fyrsmithlabs/reposcribe/internal/secrets"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const instrumentationName = "github.com/fyrsmithlabs/reposcribe/internal/summarize"

var tracer = otel.Tracer(instrumentationName)

// Generator produces text for one prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is a complete summary. All fields are non-empty.
type Result struct {
	Overview         string `json:"overview"`
	KeyComponents    string `json:"keyComponents"`
	TechnicalDetails string `json:"technicalDetails"`
}

// Section names one part of a Result.
type Section string

const (
	SectionOverview   Section = "overview"
	SectionComponents Section = "key_components"
	SectionTechnical  Section = "technical_details"
)

var instructions = map[Section]string{
	SectionOverview:   "Provide a brief 2-3 sentence overview of what this code does:",
	SectionComponents: "List the main components, functions, or classes in this code. Keep it concise and bullet-pointed:",
	SectionTechnical:  "What are the key technical aspects, patterns, or notable implementation details in this code? Keep it focused on technical specifics:",
}

// Prompt renders the instruction for section applied to text.
func Prompt(section Section, text string) string {
	return instructions[section] + "\n\n" + text
}

// Service runs summarizations against one Generator.
type Service struct {
	gen      Generator
	logger   *logging.Logger
	scrubber *secrets.Scrubber
}

// Option configures a Service.
type Option func(*Service)

// WithScrubber redacts credentials from the input before any prompt is built.
func WithScrubber(s *secrets.Scrubber) Option {
	return func(svc *Service) { svc.scrubber = s }
}

// NewService creates a Service. A nil logger discards output.
func NewService(gen Generator, logger *logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	svc := &Service{gen: gen, logger: logger}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Summarize issues the three section requests concurrently and waits for all
// of them. Any failure fails the whole call; no partial Result is returned.
func (s *Service) Summarize(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.InvalidArgument("nothing to summarize")
	}

	ctx, span := tracer.Start(ctx, "summarize.Summarize")
	defer span.End()
	span.SetAttributes(attribute.Int("input.bytes", len(text)))

	if s.scrubber != nil {
		scrubbed := s.scrubber.Scrub(text)
		if n := len(scrubbed.Findings); n > 0 {
			for rule, count := range scrubbed.ByRule() {
				RedactionsTotal.WithLabelValues(rule).Add(float64(count))
			}
			span.SetAttributes(attribute.Int("secrets.redacted", n))
			s.logger.Warn(ctx, "redacted secrets before generation", zap.Int("count", n))
		}
		text = scrubbed.Text
	}

	var res Result
	targets := []struct {
		section Section
		dst     *string
	}{
		{SectionOverview, &res.Overview},
		{SectionComponents, &res.KeyComponents},
		{SectionTechnical, &res.TechnicalDetails},
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		g.Go(func() error {
			out, err := s.generate(gctx, target.section, text)
			if err != nil {
				return err
			}
			*target.dst = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error(ctx, "summarization failed",
			zap.Int("status", errs.StatusCode(err)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug(ctx, "summarization completed", zap.Duration("duration", time.Since(start)))
	return &res, nil
}

func (s *Service) generate(ctx context.Context, section Section, text string) (string, error) {
	start := time.Now()
	out, err := s.gen.Generate(ctx, Prompt(section, text))
	GenerationDuration.WithLabelValues(string(section)).Observe(time.Since(start).Seconds())
	if err != nil {
		GenerationsTotal.WithLabelValues(string(section), "error").Inc()
		return "", fmt.Errorf("generate %s: %w", section, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		GenerationsTotal.WithLabelValues(string(section), "empty").Inc()
		return "", &errs.ProtocolError{Service: "generator", Detail: fmt.Sprintf("empty %s response", section)}
	}

	GenerationsTotal.WithLabelValues(string(section), "success").Inc()
	return out, nil
}
