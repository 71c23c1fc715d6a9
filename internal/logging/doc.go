// Package logging wraps zap for reposcribe.
//
// Every entry goes to stdout and, when telemetry is on, to the OTEL log
// bridge. Keys listed under redaction.fields and values matching
// redaction.patterns are masked in the core, before either output sees them.
// Entries below error level are sampled; errors always pass. Trace sits one
// step below Debug.
//
//	ctx = logging.WithRepository(ctx, "golang", "go")
//	logger.Warn(ctx, "skipping submodule", zap.String("path", p))
//
// Tests assert on captured entries:
//
//	tl := logging.NewTestLogger()
//	walker := githost.NewWalker(client, tl.Logger)
//	tl.AssertLogged(t, zapcore.WarnLevel, "skipping submodule")
package logging
