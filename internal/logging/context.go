package logging

import (
	"context"
	"regexp"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 6)

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request.id", requestID))
	}

	if repo, ok := RepositoryFromContext(ctx); ok {
		fields = append(fields,
			zap.String("repo.owner", repo.Owner),
			zap.String("repo.name", repo.Name),
		)
	}

	return fields
}

type requestCtxKey struct{}
type repoCtxKey struct{}
type loggerCtxKey struct{}

// Repository identifies the repository a request is working on.
type Repository struct {
	Owner string
	Name  string
}

const maxIDLen = 128

// idPattern allows alphanumeric, hyphen, underscore.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// RequestIDFromContext extracts request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if r, ok := ctx.Value(requestCtxKey{}).(string); ok {
		return r
	}
	return ""
}

// WithRequestID adds request ID to context.
// Request IDs may come from client headers, so malformed values are dropped
// rather than logged.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" || len(requestID) > maxIDLen || !idPattern.MatchString(requestID) {
		return ctx
	}
	return context.WithValue(ctx, requestCtxKey{}, requestID)
}

// WithRepository adds the repository coordinate to context.
func WithRepository(ctx context.Context, owner, name string) context.Context {
	return context.WithValue(ctx, repoCtxKey{}, Repository{Owner: owner, Name: name})
}

// RepositoryFromContext extracts the repository coordinate from context.
func RepositoryFromContext(ctx context.Context) (Repository, bool) {
	r, ok := ctx.Value(repoCtxKey{}).(Repository)
	return r, ok
}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context.
// Returns a nop logger if not found.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return NewNop()
}
