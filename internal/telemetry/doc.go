// Package telemetry configures OpenTelemetry tracing and metrics for
// reposcribe.
//
// Spans and OTEL metrics are exported over OTLP (gRPC or HTTP/protobuf) when
// telemetry.enabled is set. The Prometheus /metrics endpoint is independent
// of this package and always on.
//
//	tel, err := telemetry.New(ctx, telemetry.FromSettings(cfg.Telemetry, version))
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
// # Configuration
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  protocol: "grpc"        # or "http/protobuf"
//	  insecure: true          # only permitted for local endpoints
//	  sample_rate: 1.0
//
// # Testing
//
// NewTestTelemetry records spans and metrics in memory:
//
//	tt := telemetry.NewTestTelemetry()
//	tt.Install(t)
//	// ... exercise code that traces through otel.Tracer ...
//	tt.AssertSpanExists(t, "githost.Fetch")
package telemetry
