package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
)

// Telemetry installs the global tracer and meter providers that the
// githost, aggregate and summarize packages record into.
//
// A provider that fails to build leaves its global no-op in place and marks
// the instance degraded; the service keeps running without it.
type Telemetry struct {
	config *Config

	mu       sync.Mutex
	shutdown []func(context.Context) error

	healthy  atomic.Bool
	degraded atomic.Bool
	lastErr  atomic.Pointer[error]
}

// New validates cfg and, when enabled, installs OTLP-backed providers
// globally. A disabled config yields an inert, healthy instance.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	t := &Telemetry{config: cfg}
	t.healthy.Store(true)
	if !cfg.Enabled {
		return t, nil
	}

	res := newResource(cfg)

	if tp, err := newTracerProvider(ctx, cfg, res, o.traceExporter); err != nil {
		t.setDegraded(fmt.Errorf("tracer provider: %w", err))
	} else {
		otel.SetTracerProvider(tp)
		t.onShutdown(tp.Shutdown)
	}

	if mp, err := newMeterProvider(ctx, cfg, res, o.metricExporter); err != nil {
		t.setDegraded(fmt.Errorf("meter provider: %w", err))
	} else {
		otel.SetMeterProvider(mp)
		t.onShutdown(mp.Shutdown)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return t, nil
}

func (t *Telemetry) onShutdown(fn func(context.Context) error) {
	t.mu.Lock()
	t.shutdown = append(t.shutdown, fn)
	t.mu.Unlock()
}

// LoggerProvider feeds the otelzap bridge. It is nil while telemetry is off,
// which keeps logs on stdout only.
func (t *Telemetry) LoggerProvider() log.LoggerProvider {
	if !t.IsEnabled() {
		return nil
	}
	return global.GetLoggerProvider()
}

// Shutdown flushes and stops every provider, at most once. A ctx without a
// deadline gets the configured shutdown timeout.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	if _, ok := ctx.Deadline(); !ok && t.config != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.config.ShutdownTimeout)
		defer cancel()
	}

	t.mu.Lock()
	fns := t.shutdown
	t.shutdown = nil
	t.mu.Unlock()

	var errs []error
	for _, fn := range fns {
		errs = append(errs, fn(ctx))
	}
	t.healthy.Store(false)
	return errors.Join(errs...)
}

// HealthStatus is a snapshot of provider state.
type HealthStatus struct {
	Healthy  bool
	Degraded bool
	LastErr  error
}

// Health reports provider state. A nil Telemetry counts as degraded.
func (t *Telemetry) Health() HealthStatus {
	if t == nil {
		return HealthStatus{Degraded: true}
	}
	hs := HealthStatus{Healthy: t.healthy.Load(), Degraded: t.degraded.Load()}
	if err := t.lastErr.Load(); err != nil {
		hs.LastErr = *err
	}
	return hs
}

// IsEnabled reports whether telemetry is configured on and not yet shut down.
func (t *Telemetry) IsEnabled() bool {
	return t != nil && t.config != nil && t.config.Enabled && t.healthy.Load()
}

func (t *Telemetry) setDegraded(err error) {
	t.degraded.Store(true)
	t.lastErr.Store(&err)
}
